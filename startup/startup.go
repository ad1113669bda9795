// Wiring between the config file and the engine components.
package startup

import (
	"github.com/imap-mag/magsdc/config"
	"github.com/imap-mag/magsdc/datastore"
	"github.com/imap-mag/magsdc/logging"
	"github.com/imap-mag/magsdc/paths"
)

// Initialize applies config wide settings: an optional housekeeping
// packet table override replaces the compiled in definitions for the
// lifetime of the process.
func Initialize(config_obj *config.Config) error {
	logger := logging.GetLogger(logging.DatastoreComponent)

	if config_obj.PacketDefinitions != "" {
		table, err := paths.LoadPacketTable(config_obj.PacketDefinitions)
		if err != nil {
			return err
		}
		paths.SetPacketTable(table)

		logger.Infof("Loaded %d packet definitions from %s.",
			len(table.Packets()), config_obj.PacketDefinitions)
	}

	return nil
}

// NewManager builds the plain file manager for the configured
// datastore root.
func NewManager(config_obj *config.Config) *datastore.Manager {
	return datastore.NewManager(config_obj.DatastoreLocation)
}

// NewIndexedManager builds the index backed manager. The caller owns
// the returned index handle and must close it.
func NewIndexedManager(
	config_obj *config.Config) (
	*datastore.IndexedManager, *datastore.FileIndex, error) {

	index, err := datastore.NewFileIndex(config_obj.IndexDatabase)
	if err != nil {
		return nil, nil, err
	}

	manager := datastore.NewIndexedManager(
		NewManager(config_obj), index, config_obj.SoftwareVersion)

	return manager, index, nil
}
