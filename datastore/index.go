// A sqlite secondary index over the datastore. Records are never
// mutated in place - corrections are represented as new versions and
// removals as a deletion marker.
package datastore

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Velocidex/ordereddict"
	errors "github.com/go-errors/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/imap-mag/magsdc/logging"
)

const fileIndexSchema = `
CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    path TEXT NOT NULL,
    descriptor TEXT NOT NULL,
    content_date TIMESTAMP,
    version INTEGER NOT NULL,
    hash TEXT NOT NULL,
    size INTEGER NOT NULL,
    metadata TEXT,
    deleted INTEGER NOT NULL DEFAULT 0,
    creation_date TIMESTAMP,
    software_version TEXT,
    UNIQUE (descriptor, content_date, version, deleted)
);
CREATE INDEX IF NOT EXISTS files_name_idx ON files (name);
`

// FileRecord is one row of the file index: the logical identity plus
// the content fingerprint and an optional free form metadata payload.
type FileRecord struct {
	ID              int64
	Name            string
	Path            string
	Descriptor      string
	ContentDate     time.Time
	Version         int
	Hash            string
	Size            int64
	Metadata        *ordereddict.Dict
	Deleted         bool
	CreationDate    time.Time
	SoftwareVersion string
}

type FileIndex struct {
	db     *sql.DB
	logger *logrus.Entry
}

func NewFileIndex(database_path string) (*FileIndex, error) {
	handle, err := sql.Open("sqlite3", database_path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	_, err = handle.Exec(fileIndexSchema)
	if err != nil {
		handle.Close()
		return nil, errors.Wrap(err, 0)
	}

	return &FileIndex{
		db:     handle,
		logger: logging.GetLogger(logging.IndexComponent),
	}, nil
}

func (self *FileIndex) Close() error {
	return self.db.Close()
}

func marshalMetadata(metadata *ordereddict.Dict) (interface{}, error) {
	if metadata == nil {
		return nil, nil
	}

	serialized, err := json.Marshal(metadata)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return string(serialized), nil
}

// Upsert inserts the record, replacing the row with the same
// (descriptor, content date, version, deletion marker) identity if
// one exists.
func (self *FileIndex) Upsert(record *FileRecord) error {
	metadata, err := marshalMetadata(record.Metadata)
	if err != nil {
		return err
	}

	if record.CreationDate.IsZero() {
		record.CreationDate = time.Now().UTC()
	}

	result, err := self.db.Exec(`
INSERT INTO files (name, path, descriptor, content_date, version, hash,
                   size, metadata, deleted, creation_date, software_version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (descriptor, content_date, version, deleted) DO UPDATE SET
    name = excluded.name,
    path = excluded.path,
    hash = excluded.hash,
    size = excluded.size,
    metadata = excluded.metadata,
    software_version = excluded.software_version`,
		record.Name, record.Path, record.Descriptor, record.ContentDate,
		record.Version, record.Hash, record.Size, metadata,
		record.Deleted, record.CreationDate, record.SoftwareVersion)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	id, err := result.LastInsertId()
	if err == nil {
		record.ID = id
	}

	return nil
}

func (self *FileIndex) scanRecords(rows *sql.Rows) ([]*FileRecord, error) {
	defer rows.Close()

	var result []*FileRecord

	for rows.Next() {
		record := &FileRecord{}

		var metadata sql.NullString
		var content_date, creation_date sql.NullTime
		var software_version sql.NullString

		err := rows.Scan(&record.ID, &record.Name, &record.Path,
			&record.Descriptor, &content_date, &record.Version,
			&record.Hash, &record.Size, &metadata, &record.Deleted,
			&creation_date, &software_version)
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}

		if content_date.Valid {
			record.ContentDate = content_date.Time
		}
		if creation_date.Valid {
			record.CreationDate = creation_date.Time
		}
		if software_version.Valid {
			record.SoftwareVersion = software_version.String
		}

		if metadata.Valid && metadata.String != "" {
			payload := ordereddict.NewDict()
			err := json.Unmarshal([]byte(metadata.String), payload)
			if err == nil {
				record.Metadata = payload
			} else {
				self.logger.Warnf(
					"Discarding unparseable metadata on index row %d: %v",
					record.ID, err)
			}
		}

		result = append(result, record)
	}

	return result, rows.Err()
}

const fileRecordColumns = `
SELECT id, name, path, descriptor, content_date, version, hash, size,
       metadata, deleted, creation_date, software_version
FROM files`

// FilesMatchingName returns live records whose file name matches the
// LIKE pattern (a handler's unsequenced query form).
func (self *FileIndex) FilesMatchingName(like string) ([]*FileRecord, error) {
	rows, err := self.db.Query(
		fileRecordColumns+` WHERE name LIKE ? AND deleted = 0`, like)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return self.scanRecords(rows)
}

// FilesByIdentity returns live records for one (descriptor, content
// date) identity across all versions.
func (self *FileIndex) FilesByIdentity(
	descriptor string, content_date time.Time) ([]*FileRecord, error) {
	rows, err := self.db.Query(
		fileRecordColumns+
			` WHERE descriptor = ? AND content_date = ? AND deleted = 0`,
		descriptor, content_date)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return self.scanRecords(rows)
}

// MarkDeleted flips the deletion marker. The row is retained so the
// identity's history stays queryable.
func (self *FileIndex) MarkDeleted(record *FileRecord) error {
	_, err := self.db.Exec(
		`UPDATE files SET deleted = 1 WHERE id = ?`, record.ID)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	record.Deleted = true
	return nil
}
