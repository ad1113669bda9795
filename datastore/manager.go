// Write side of the datastore: version aware ingestion.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	errors "github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/imap-mag/magsdc/logging"
	"github.com/imap-mag/magsdc/paths"
	"github.com/imap-mag/magsdc/utils"
)

// FileManager places files into the datastore.
type FileManager interface {
	// AddFile ingests a local file under the identity described by
	// the handler and returns the stored location. The manager owns
	// discriminator assignment: on return, a sequencing handler
	// carries the discriminator the file was stored (or found) under.
	AddFile(source string, handler paths.Handler) (string, error)
}

// Manager ingests files into the datastore tree. Ingests of the same
// logical identity must be serialized by the caller; ingests of
// different identities are independent.
type Manager struct {
	root   string
	finder *Finder
	logger *logrus.Entry
}

func NewManager(root string) *Manager {
	return &Manager{
		root:   root,
		finder: NewFinder(root),
		logger: logging.GetLogger(logging.DatastoreComponent),
	}
}

func (self *Manager) Root() string { return self.root }

func (self *Manager) AddFile(
	source string, handler paths.Handler) (string, error) {

	defer Instrument("add_file", handler.Tag())()

	source_info, err := os.Stat(source)
	if err != nil {
		return "", errors.Wrap(err, 0)
	}

	// Identity problems must surface before the store is touched.
	_, err = paths.FullPath(self.root, handler)
	if err != nil {
		return "", err
	}

	original_hash, err := utils.HashFile(source)
	if err != nil {
		return "", err
	}

	var destination string
	if handler.SupportsSequencing() {
		sequencer, ok := handler.(paths.Sequencer)
		if !ok {
			return "", fmt.Errorf(
				"handler %s declares sequencing but does not implement it",
				handler.Tag())
		}

		existing, err := self.resolveSequence(sequencer, original_hash)
		if err != nil {
			return "", err
		}
		if existing != "" {
			self.logger.Infof(
				"File %s already exists with identical content. Skipping update.",
				existing)
			return existing, nil
		}

		destination, err = paths.FullPath(self.root, handler)
		if err != nil {
			return "", err
		}
	} else {
		destination, err = paths.FullPath(self.root, handler)
		if err != nil {
			return "", err
		}

		existing_hash, err := utils.HashFile(destination)
		if err == nil && existing_hash == original_hash {
			self.logger.Infof(
				"File %s already exists with identical content. Skipping update.",
				destination)
			return destination, nil
		}

		// Overwrite of different content is allowed for singleton
		// conventions - last write wins, no history retained.
	}

	err = os.MkdirAll(filepath.Dir(destination), 0700)
	if err != nil {
		return "", errors.Wrap(err, 0)
	}

	self.logger.Infof("Copying %s to %s (%s).",
		source, destination, humanize.Bytes(uint64(source_info.Size())))

	err = utils.AtomicCopy(source, destination)
	if err != nil {
		return "", err
	}

	return destination, nil
}

// resolveSequence decides the discriminator for an incoming file.
// Returns the existing path when the content is already stored under
// this identity (the duplicate no-op outcome), otherwise "" with the
// handler's sequence set to the slot the file should occupy.
func (self *Manager) resolveSequence(
	handler paths.Sequencer, original_hash string) (string, error) {

	if handler.Sequence() == 0 {
		// Discriminator unset: derive it from the store.
		latest_path, latest, err := self.finder.FindLatestVersion(handler, false)
		if err != nil {
			return "", err
		}

		if latest_path == "" {
			handler.SetSequence(handler.FirstSequence())
			return "", nil
		}

		latest_hash, err := utils.HashFile(latest_path)
		if err != nil {
			return "", err
		}

		if latest_hash == original_hash {
			handler.SetSequence(latest)
			return latest_path, nil
		}

		self.logger.Debugf(
			"Latest %s %d differs from incoming content. Assigning %s %d.",
			handler.SequenceName(), latest, handler.SequenceName(), latest+1)
		handler.SetSequence(latest + 1)
		return "", nil
	}

	// Discriminator fixed by the caller: keep it if free, otherwise
	// walk forward until a free slot or an identical copy is found.
	for {
		destination, err := paths.FullPath(self.root, handler)
		if err != nil {
			return "", err
		}

		_, err = os.Stat(destination)
		if os.IsNotExist(err) {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrap(err, 0)
		}

		existing_hash, err := utils.HashFile(destination)
		if err != nil {
			return "", err
		}
		if existing_hash == original_hash {
			return destination, nil
		}

		previous := destination
		handler.IncreaseSequence()

		updated, err := paths.FullPath(self.root, handler)
		if err != nil {
			return "", err
		}

		// A handler whose filename does not embed the discriminator
		// would loop forever here.
		if updated == previous {
			return "", fmt.Errorf(
				"file %s already exists with different content and the "+
					"%s can not be increased", destination,
				handler.SequenceName())
		}
	}
}
