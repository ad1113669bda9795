package paths

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Velocidex/yaml/v2"
	errors "github.com/go-errors/errors"
)

// HKPacket is one row of the closed housekeeping packet table: the
// telemetry ApID, the raw packet name as downlinked, and the owning
// subsystem. Housekeeping descriptors are derived from this table and
// nothing else - a filename is only recognized as housekeeping when
// its descriptor family appears here.
type HKPacket struct {
	ApID      int    `yaml:"apid"`
	Packet    string `yaml:"packet"`
	Subsystem string `yaml:"subsystem"`
}

// PacketTable is loaded once at startup. The compiled in table covers
// the MAG instrument plus the spacecraft and ILO packets the pipeline
// mirrors; deployments can override it from YAML via the config file.
type PacketTable struct {
	packets []HKPacket

	// Alternation of descriptor family prefixes, precomputed for the
	// recognition grammar.
	prefix_alternation string
	prefixes           map[string]bool
}

func NewPacketTable(packets []HKPacket) *PacketTable {
	prefixes := make(map[string]bool)
	for _, packet := range packets {
		descriptor := PacketToDescriptor(packet.Packet)
		family, _, _ := strings.Cut(descriptor, "-")
		if family != "" {
			prefixes[family] = true
		}
	}

	sorted := make([]string, 0, len(prefixes))
	for family := range prefixes {
		sorted = append(sorted, regexp.QuoteMeta(family))
	}
	sort.Strings(sorted)

	return &PacketTable{
		packets:            packets,
		prefix_alternation: strings.Join(sorted, "|"),
		prefixes:           prefixes,
	}
}

func (self *PacketTable) Packets() []HKPacket { return self.packets }

func (self *PacketTable) ByApID(apid int) (HKPacket, bool) {
	for _, packet := range self.packets {
		if packet.ApID == apid {
			return packet, true
		}
	}
	return HKPacket{}, false
}

func (self *PacketTable) ByPacketName(name string) (HKPacket, bool) {
	for _, packet := range self.packets {
		if packet.Packet == name {
			return packet, true
		}
	}
	return HKPacket{}, false
}

// IsAllowedDescriptor reports whether the descriptor belongs to a
// known packet family.
func (self *PacketTable) IsAllowedDescriptor(descriptor string) bool {
	family, _, _ := strings.Cut(descriptor, "-")
	return self.prefixes[family]
}

// PacketToDescriptor converts a raw packet name to the descriptor
// used in folder structures and file names:
//
//  1. lowercase               MAG_HSK_PW -> mag_hsk_pw
//  2. underscores to hyphens  mag_hsk_pw -> mag-hsk-pw
//  3. strip the prefix        mag-hsk-pw -> hsk-pw
func PacketToDescriptor(packet string) string {
	normalized := strings.ReplaceAll(strings.ToLower(packet), "_", "-")
	_, descriptor, found := strings.Cut(normalized, "-")
	if !found {
		return normalized
	}
	return descriptor
}

// LoadPacketTable reads a packet table override from a YAML file.
func LoadPacketTable(filename string) (*PacketTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	var packets []HKPacket
	err = yaml.UnmarshalStrict(data, &packets)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return NewPacketTable(packets), nil
}

var (
	packet_table_mu sync.Mutex
	packet_table    *PacketTable
)

// GetPacketTable returns the active table, defaulting to the compiled
// in definitions.
func GetPacketTable() *PacketTable {
	packet_table_mu.Lock()
	defer packet_table_mu.Unlock()

	if packet_table == nil {
		packet_table = NewPacketTable(defaultHKPackets)
	}
	return packet_table
}

// SetPacketTable installs an override table, typically loaded from
// the config file at startup.
func SetPacketTable(table *PacketTable) {
	packet_table_mu.Lock()
	defer packet_table_mu.Unlock()

	packet_table = table
}

var defaultHKPackets = []HKPacket{
	// MAG SID packets.
	{1028, "MAG_HSK_SID1", "MAG"},
	{1055, "MAG_HSK_SID2", "MAG"},
	{1063, "MAG_HSK_PW", "MAG"},
	{1064, "MAG_HSK_STATUS", "MAG"},
	{1082, "MAG_HSK_SCI", "MAG"},
	{1051, "MAG_HSK_PROCSTAT", "MAG"},
	{1060, "MAG_HSK_SID12", "MAG"},
	{1053, "MAG_HSK_SID15", "MAG"},
	{1054, "MAG_HSK_SID16", "MAG"},
	{1045, "MAG_HSK_SID20", "MAG"},

	// All other MAG housekeeping packets.
	{1071, "MAG_EHS_AUTONOMY", "MAG"},
	{1029, "MAG_EHS_BTFAIL", "MAG"},
	{1079, "MAG_EHS_BUFF", "MAG"},
	{1025, "MAG_EHS_BSW", "MAG"},
	{1034, "MAG_EHS_CRSHREP", "MAG"},
	{1073, "MAG_EHS_ERRDATA", "MAG"},
	{1080, "MAG_EHS_FEE", "MAG"},
	{1072, "MAG_EHS_GENEVNT", "MAG"},
	{1070, "MAG_EHS_HKADC", "MAG"},
	{1022, "MAG_EHS_OSERR", "MAG"},
	{1074, "MAG_EHS_SEMAPH", "MAG"},
	{1026, "MAG_EHS_SWPCKDROP", "MAG"},
	{1067, "MAG_EHS_SWTRAP", "MAG"},
	{1081, "MAG_ELS_CONFLD", "MAG"},
	{1061, "MAG_ELS_ITF", "MAG"},
	{1000, "MAG_HSK_AUTONOMY", "MAG"},
	{1037, "MAG_HSK_HKADCPRMLIM", "MAG"},
	{1033, "MAG_MEM_CHCKREP", "MAG"},
	{1018, "MAG_MEM_DMP", "MAG"},
	{1038, "MAG_MEM_MRAMTSEGREP", "MAG"},
	{1030, "MAG_PROG_BTSUCC", "MAG"},
	{1024, "MAG_PROG_MTRAN", "MAG"},
	{995, "MAG_PROG_NOOP", "MAG"},
	{1062, "MAG_TCA_INVCCSDS", "MAG"},
	{1058, "MAG_TCA_SUCC", "MAG"},
	{1065, "MAG_TCC_FAIL", "MAG"},
	{1066, "MAG_TCC_FAILMEM", "MAG"},
	{1075, "MAG_TCC_FEEFAIL", "MAG"},
	{1078, "MAG_TCC_FILEFAIL", "MAG"},
	{1076, "MAG_TCC_OSFAIL", "MAG"},
	{1077, "MAG_TCC_PARAMFAIL", "MAG"},
	{1069, "MAG_TCC_SPIERR", "MAG"},
	{1059, "MAG_TCC_SUCC", "MAG"},

	// Spacecraft and ILO packets mirrored by the pipeline.
	{645, "SCID_X285", "SC"},
	{677, "ILO_APP_NHK", "ILO"},
}
