package paths

import (
	"testing"

	"github.com/alecthomas/assert"
)

func TestPacketToDescriptor(t *testing.T) {
	assert.Equal(t, "hsk-pw", PacketToDescriptor("MAG_HSK_PW"))
	assert.Equal(t, "hsk-sid1", PacketToDescriptor("MAG_HSK_SID1"))
	assert.Equal(t, "x285", PacketToDescriptor("SCID_X285"))
	assert.Equal(t, "app-nhk", PacketToDescriptor("ILO_APP_NHK"))

	// A name with no prefix passes through normalized.
	assert.Equal(t, "noop", PacketToDescriptor("NOOP"))
}

func TestPacketTableLookups(t *testing.T) {
	table := GetPacketTable()

	packet, ok := table.ByApID(1063)
	assert.True(t, ok)
	assert.Equal(t, "MAG_HSK_PW", packet.Packet)
	assert.Equal(t, "MAG", packet.Subsystem)

	packet, ok = table.ByPacketName("MAG_HSK_SID2")
	assert.True(t, ok)
	assert.Equal(t, 1055, packet.ApID)

	_, ok = table.ByApID(9999)
	assert.False(t, ok)
}

func TestPacketTableDescriptorFamilies(t *testing.T) {
	table := GetPacketTable()

	assert.True(t, table.IsAllowedDescriptor("hsk-pw"))
	assert.True(t, table.IsAllowedDescriptor("ehs-autonomy"))
	assert.True(t, table.IsAllowedDescriptor("hsk"))

	// Science descriptors are not packet families.
	assert.False(t, table.IsAllowedDescriptor("norm-mago"))
	assert.False(t, table.IsAllowedDescriptor("burst-magi"))
}

func TestCustomPacketTable(t *testing.T) {
	table := NewPacketTable([]HKPacket{
		{100, "XYZ_TEST_PACKET", "XYZ"},
	})

	assert.True(t, table.IsAllowedDescriptor("test-packet"))
	assert.False(t, table.IsAllowedDescriptor("hsk-pw"))

	packet, ok := table.ByApID(100)
	assert.True(t, ok)
	assert.Equal(t, "XYZ_TEST_PACKET", packet.Packet)
}
