// A FileManager decorator that keeps the sqlite index in lockstep
// with the datastore tree. Version assignment for sequencing handlers
// is driven by the index rather than a directory scan, so versions
// freed by deletions are reused.
package datastore

import (
	"os"
	"path/filepath"

	"github.com/Velocidex/ordereddict"
	errors "github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/imap-mag/magsdc/logging"
	"github.com/imap-mag/magsdc/paths"
	"github.com/imap-mag/magsdc/utils"
)

type IndexedManager struct {
	manager          *Manager
	index            *FileIndex
	logger           *logrus.Entry
	software_version string
}

func NewIndexedManager(
	manager *Manager, index *FileIndex,
	software_version string) *IndexedManager {
	return &IndexedManager{
		manager:          manager,
		index:            index,
		logger:           logging.GetLogger(logging.IndexComponent),
		software_version: software_version,
	}
}

func (self *IndexedManager) AddFile(
	source string, handler paths.Handler) (string, error) {
	return self.AddFileWithMetadata(source, handler, nil)
}

// AddFileWithMetadata ingests a file and records it in the index. The
// index is consulted first: an identical fingerprint already recorded
// under this identity makes the whole call a no-op.
func (self *IndexedManager) AddFileWithMetadata(
	source string, handler paths.Handler,
	metadata *ordereddict.Dict) (string, error) {

	defer Instrument("add_file_indexed", handler.Tag())()

	original_hash, err := utils.HashFile(source)
	if err != nil {
		return "", err
	}

	if handler.SupportsSequencing() {
		sequencer, ok := handler.(paths.Sequencer)
		if !ok {
			return "", errors.Errorf(
				"handler %s declares sequencing but does not implement it",
				handler.Tag())
		}

		existing, err := self.reserveVersion(sequencer, original_hash)
		if err != nil {
			return "", err
		}
		if existing != "" {
			self.logger.Infof(
				"File %s already recorded with identical content. Skipping update.",
				existing)
			return existing, nil
		}
	}

	destination, err := self.manager.AddFile(source, handler)
	if err != nil {
		return "", err
	}

	placed_hash, err := utils.HashFile(destination)
	if err != nil {
		return "", err
	}

	record, err := self.buildRecord(
		destination, handler, placed_hash, metadata)
	if err != nil {
		return "", err
	}

	err = self.index.Upsert(record)
	if err != nil {
		// Without an index row the file is invisible to consumers, so
		// do not leave it behind.
		remove_err := os.Remove(destination)
		if remove_err != nil {
			self.logger.Errorf(
				"Could not remove %s after index failure: %v",
				destination, remove_err)
		}
		return "", err
	}

	return destination, nil
}

func (self *IndexedManager) buildRecord(
	destination string, handler paths.Handler,
	hash string, metadata *ordereddict.Dict) (*FileRecord, error) {

	info, err := os.Stat(destination)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	relative, err := filepath.Rel(self.manager.Root(), destination)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	version := 0
	sequencer, ok := handler.(paths.Sequencer)
	if ok && handler.SupportsSequencing() {
		version = sequencer.Sequence()
	}

	return &FileRecord{
		Name:            filepath.Base(destination),
		Path:            filepath.ToSlash(relative),
		Descriptor:      handler.IndexDescriptor(),
		ContentDate:     handler.ContentDate(),
		Version:         version,
		Hash:            hash,
		Size:            info.Size(),
		Metadata:        metadata,
		SoftwareVersion: self.software_version,
	}, nil
}

// reserveVersion assigns the handler's discriminator from the index.
// Returns the stored path when the incoming fingerprint is already
// recorded under this identity, otherwise "" with the sequence set to
// the lowest unoccupied version.
func (self *IndexedManager) reserveVersion(
	handler paths.Sequencer, original_hash string) (string, error) {

	like, err := handler.UnsequencedQuery()
	if err != nil {
		return "", err
	}

	records, err := self.index.FilesMatchingName(like)
	if err != nil {
		return "", err
	}

	occupied := make(map[int]bool)
	for _, record := range records {
		if record.Hash == original_hash {
			handler.SetSequence(record.Version)
			return filepath.Join(
				self.manager.Root(), filepath.FromSlash(record.Path)), nil
		}
		occupied[record.Version] = true
	}

	version := handler.FirstSequence()
	if handler.Sequence() != 0 {
		version = handler.Sequence()
	}
	for occupied[version] {
		version++
	}

	handler.SetSequence(version)
	return "", nil
}

func (self *IndexedManager) recordForPath(path string) (*FileRecord, error) {
	relative, err := filepath.Rel(self.manager.Root(), path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	records, err := self.index.FilesMatchingName(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.Path == filepath.ToSlash(relative) {
			return record, nil
		}
	}

	return nil, errors.Errorf("file %s is not recorded in the index", path)
}

// ArchiveFile moves a stored file into the archive folder, recording
// the new location and marking the original record deleted.
func (self *IndexedManager) ArchiveFile(
	path, archive_folder string) (string, error) {

	defer Instrument("archive_file", "")()

	record, err := self.recordForPath(path)
	if err != nil {
		return "", err
	}

	destination := filepath.Join(archive_folder, record.Name)

	err = os.MkdirAll(archive_folder, 0700)
	if err != nil {
		return "", errors.Wrap(err, 0)
	}

	err = utils.AtomicCopy(path, destination)
	if err != nil {
		return "", err
	}

	// Marking first means the subsequent upsert lands on the deleted
	// row and rewrites its path to the archive location.
	err = self.index.MarkDeleted(record)
	if err != nil {
		return "", err
	}

	archived := *record
	archived.ID = 0
	archived.Path = filepath.ToSlash(destination)
	archived.Deleted = true

	err = self.index.Upsert(&archived)
	if err != nil {
		return "", err
	}

	self.logger.Infof("Archived %s to %s.", path, destination)

	return destination, os.Remove(path)
}

// DeleteFile removes a stored file, keeping its index row as a
// deletion record.
func (self *IndexedManager) DeleteFile(path string) error {
	defer Instrument("delete_file", "")()

	record, err := self.recordForPath(path)
	if err != nil {
		return err
	}

	err = self.index.MarkDeleted(record)
	if err != nil {
		return err
	}

	self.logger.Infof("Deleted %s from the datastore.", path)

	return os.Remove(path)
}
