// This package defines the schema of how mission data products are
// laid out in the datastore.
//
// Every naming convention the pipeline produces or consumes is
// represented by a path handler: a type holding the identity
// attributes of one logical file (instrument, processing level,
// descriptor, dates, extension) which deterministically derives the
// storage folder and file name. Handlers that track revisions or
// split parts additionally implement the Sequencer contract.
package paths

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// All products share the same mission prefix.
const Mission = "imap"

// Dates embedded in file names are always day resolution.
const dayFormat = "20060102"

// Handler describes one logical file in the datastore.
type Handler interface {
	// Tag names the naming convention for logs and metrics.
	Tag() string

	// SupportsSequencing declares whether the discriminator is
	// meaningful for version or part tracking. Singleton files (one
	// per day, no revisions) return false.
	SupportsSequencing() bool

	// FolderStructure derives the storage folder relative to the
	// datastore root from the currently set identity attributes.
	FolderStructure() (string, error)

	// Filename derives the file name, including the discriminator
	// where the convention carries one.
	Filename() (string, error)

	// ContentDate is the date the content belongs to, used by the
	// file index. Zero when the convention carries no such date.
	ContentDate() time.Time

	// IndexDescriptor is the identity string recorded in the file
	// index.
	IndexDescriptor() string
}

// Sequencer is the sequencing contract. Handlers implementing it
// distinguish otherwise identical logical files by an integer
// discriminator - either a revision number ("version") or a 1-based
// split index ("part").
type Sequencer interface {
	Handler

	Sequence() int
	SetSequence(sequence int)
	IncreaseSequence()

	// FirstSequence is the value assigned to the first stored file of
	// a previously unseen identity.
	FirstSequence() int

	// SequenceName is the capture group name used in patterns.
	SequenceName() string

	// UnsequencedPattern matches every file sharing this handler's
	// identity attributes regardless of discriminator value. The
	// discriminator is available in the named capture group.
	UnsequencedPattern() (*regexp.Regexp, error)

	// UnsequencedQuery is the store-query (SQL LIKE) form of the
	// unsequenced pattern, used by the file index.
	UnsequencedQuery() (string, error)
}

// FullPath resolves a handler below the given datastore root.
func FullPath(root string, handler Handler) (string, error) {
	folder, err := handler.FolderStructure()
	if err != nil {
		return "", err
	}

	filename, err := handler.Filename()
	if err != nil {
		return "", err
	}

	return path.Join(root, folder, filename), nil
}

// MissingAttributeError indicates an operation was invoked on a
// handler missing identity attributes its layout rule requires. It is
// raised before any filesystem interaction.
type MissingAttributeError struct {
	Operation  string
	Attributes []string
}

func (self *MissingAttributeError) Error() string {
	return fmt.Sprintf("no %s defined, can not generate %s",
		strings.Join(self.Attributes, ", "), self.Operation)
}

type attribute struct {
	name string
	set  bool
}

func checkAttributes(operation string, attributes ...attribute) error {
	var missing []string
	for _, item := range attributes {
		if !item.set {
			missing = append(missing, item.name)
		}
	}

	if len(missing) > 0 {
		return &MissingAttributeError{
			Operation:  operation,
			Attributes: missing,
		}
	}

	return nil
}

// matchGroups applies the pattern to the name and returns the named
// capture groups.
func matchGroups(pattern *regexp.Regexp, name string) (map[string]string, bool) {
	match := pattern.FindStringSubmatch(name)
	if match == nil {
		return nil, false
	}

	result := make(map[string]string)
	for idx, group_name := range pattern.SubexpNames() {
		if group_name != "" {
			result[group_name] = match[idx]
		}
	}

	return result, true
}

// Versioned is embedded by handlers whose discriminator is a
// monotonically increasing revision number.
type Versioned struct {
	Version int
}

func (self *Versioned) SupportsSequencing() bool { return true }
func (self *Versioned) Sequence() int            { return self.Version }
func (self *Versioned) SetSequence(sequence int) { self.Version = sequence }
func (self *Versioned) IncreaseSequence()        { self.Version++ }
func (self *Versioned) FirstSequence() int       { return 1 }
func (self *Versioned) SequenceName() string     { return "version" }

// Partitioned is embedded by handlers whose discriminator is a
// 1-based split index over one logical file stored in chunks.
type Partitioned struct {
	Part int
}

func (self *Partitioned) SupportsSequencing() bool { return true }
func (self *Partitioned) Sequence() int            { return self.Part }
func (self *Partitioned) SetSequence(sequence int) { self.Part = sequence }
func (self *Partitioned) IncreaseSequence()        { self.Part++ }
func (self *Partitioned) FirstSequence() int       { return 1 }
func (self *Partitioned) SequenceName() string     { return "part" }
