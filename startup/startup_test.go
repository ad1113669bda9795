package startup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"

	"github.com/imap-mag/magsdc/config"
	"github.com/imap-mag/magsdc/paths"
)

func TestInitializePacketOverride(t *testing.T) {
	definitions := filepath.Join(t.TempDir(), "packets.yaml")
	err := os.WriteFile(definitions, []byte(`
- apid: 100
  packet: XYZ_TEST_PACKET
  subsystem: XYZ
`), 0600)
	assert.NoError(t, err)

	config_obj := config.GetDefaultConfig()
	config_obj.PacketDefinitions = definitions

	err = Initialize(config_obj)
	assert.NoError(t, err)

	defer paths.SetPacketTable(nil)

	table := paths.GetPacketTable()
	assert.True(t, table.IsAllowedDescriptor("test-packet"))
	assert.False(t, table.IsAllowedDescriptor("hsk-pw"))
}

func TestInitializeMissingPacketFile(t *testing.T) {
	config_obj := config.GetDefaultConfig()
	config_obj.PacketDefinitions = filepath.Join(t.TempDir(), "missing.yaml")

	err := Initialize(config_obj)
	assert.Error(t, err)
}

func TestNewIndexedManager(t *testing.T) {
	config_obj := &config.Config{
		DatastoreLocation: t.TempDir(),
		IndexDatabase:     filepath.Join(t.TempDir(), "index.db"),
		SoftwareVersion:   "1.0.0",
	}

	manager, index, err := NewIndexedManager(config_obj)
	assert.NoError(t, err)
	assert.NotNil(t, manager)
	defer index.Close()
}
