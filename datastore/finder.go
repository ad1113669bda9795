// Read side of the datastore: locating files by logical identity and
// resolving the latest stored version.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	errors "github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/imap-mag/magsdc/logging"
	"github.com/imap-mag/magsdc/paths"
)

// NotFoundError indicates no file in the store matches the handler's
// identity. Finder operations raise it in strict mode and return
// empty results in lenient mode.
type NotFoundError struct {
	Folder  string
	Pattern string
}

func (self *NotFoundError) Error() string {
	return fmt.Sprintf("no files found matching %s in folder %s",
		self.Pattern, self.Folder)
}

// Finder performs read only lookups against the datastore tree. It
// never assigns or mutates discriminator values - that is the
// manager's job.
type Finder struct {
	root   string
	logger *logrus.Entry
}

func NewFinder(root string) *Finder {
	return &Finder{
		root:   root,
		logger: logging.GetLogger(logging.DatastoreComponent),
	}
}

type sequencedFile struct {
	path     string
	sequence int
}

// findFilesAndSequences lists the handler's folder and extracts the
// discriminator of every file matching the unsequenced pattern,
// sorted by descending discriminator. Directory listing order is
// irrelevant to the result.
func (self *Finder) findFilesAndSequences(
	handler paths.Sequencer, throw_if_not_found bool) ([]sequencedFile, error) {

	pattern, err := handler.UnsequencedPattern()
	if err != nil {
		return nil, err
	}

	folder, err := handler.FolderStructure()
	if err != nil {
		return nil, err
	}

	directory := filepath.Join(self.root, folder)

	var matches []sequencedFile

	entries, err := os.ReadDir(directory)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, 0)
	}

	sequence_name := handler.SequenceName()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		groups := pattern.FindStringSubmatch(entry.Name())
		if groups == nil {
			continue
		}

		sequence := 0
		for idx, group_name := range pattern.SubexpNames() {
			if group_name == sequence_name {
				fmt.Sscanf(groups[idx], "%d", &sequence)
			}
		}

		matches = append(matches, sequencedFile{
			path:     filepath.Join(directory, entry.Name()),
			sequence: sequence,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].sequence > matches[j].sequence
	})

	if len(matches) == 0 {
		not_found := &NotFoundError{
			Folder:  directory,
			Pattern: pattern.String(),
		}
		if throw_if_not_found {
			return nil, not_found
		}

		self.logger.Debugf("%v", not_found)
		return nil, nil
	}

	return matches, nil
}

// FindMatchingFile resolves the handler to a single stored file. A
// sequencing handler with an unset (zero) discriminator matches any
// stored discriminator and yields the highest one; a set
// discriminator requires an exact match. Non sequencing handlers
// resolve to their fixed filename.
func (self *Finder) FindMatchingFile(
	handler paths.Handler, throw_if_not_found bool) (string, error) {

	defer Instrument("find_matching", handler.Tag())()

	sequencer, ok := handler.(paths.Sequencer)
	if ok && handler.SupportsSequencing() && sequencer.Sequence() == 0 {
		matches, err := self.findFilesAndSequences(
			sequencer, throw_if_not_found)
		if err != nil || matches == nil {
			return "", err
		}
		return matches[0].path, nil
	}

	full_path, err := paths.FullPath(self.root, handler)
	if err != nil {
		return "", err
	}

	_, err = os.Stat(full_path)
	if err == nil {
		return full_path, nil
	}

	if throw_if_not_found {
		return "", &NotFoundError{
			Folder:  filepath.Dir(full_path),
			Pattern: filepath.Base(full_path),
		}
	}

	return "", nil
}

// FindLatestVersion returns the stored file with the maximum
// discriminator sharing the handler's identity, along with that
// discriminator value. The handler itself is not mutated.
func (self *Finder) FindLatestVersion(
	handler paths.Sequencer, throw_if_not_found bool) (string, int, error) {

	defer Instrument("find_latest", handler.Tag())()

	matches, err := self.findFilesAndSequences(handler, throw_if_not_found)
	if err != nil || matches == nil {
		return "", 0, err
	}

	return matches[0].path, matches[0].sequence, nil
}

// FindAllFileParts returns every stored part of a partitioned
// identity in ascending part order.
func (self *Finder) FindAllFileParts(
	handler paths.Sequencer, throw_if_not_found bool) ([]string, error) {

	defer Instrument("find_parts", handler.Tag())()

	matches, err := self.findFilesAndSequences(handler, throw_if_not_found)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(matches))
	for idx := len(matches) - 1; idx >= 0; idx-- {
		result = append(result, matches[idx].path)
	}

	return result, nil
}
