package paths

import (
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestHKHandlerLayout(t *testing.T) {
	handler := NewHKHandler("mag", "l1", "hsk-pw", day("20250101"), "csv")

	// Housekeeping starts at version 1, not unset.
	assert.Equal(t, 1, handler.Sequence())

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "hk/mag/l1/hsk-pw/2025/01", folder)

	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l1_hsk-pw_20250101_v001.csv", filename)
}

func TestHKHandlerFromFilename(t *testing.T) {
	handler, ok := HKHandlerFromFilename("imap_mag_l0_hsk-pw_20250101_v001.pkts")
	assert.True(t, ok)
	assert.Equal(t, "mag", handler.Instrument)
	assert.Equal(t, "l0", handler.Level)
	assert.Equal(t, "hsk-pw", handler.Descriptor)
	assert.Equal(t, 1, handler.Version)

	// Descriptors outside the packet table families are not
	// housekeeping, whatever the name looks like.
	_, ok = HKHandlerFromFilename("imap_mag_l0_unknown-pw_20250101_v001.pkts")
	assert.False(t, ok)

	// Science products do not parse as housekeeping either.
	_, ok = HKHandlerFromFilename("imap_mag_l1a_norm-mago_20250502_v000.cdf")
	assert.False(t, ok)
}

func TestHKBinaryHandlerLayout(t *testing.T) {
	handler := NewHKBinaryHandler("mag", "hsk-pw", day("20250101"), "pkts")
	assert.Equal(t, 1, handler.Sequence())
	assert.Equal(t, "part", handler.SequenceName())

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "hk/mag/l0/hsk-pw/2025/01", folder)

	// Parts are unpadded.
	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l0_hsk-pw_20250101_1.pkts", filename)

	handler.SetSequence(12)
	filename, err = handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l0_hsk-pw_20250101_12.pkts", filename)
}

func TestHKBinaryHandlerFromFilename(t *testing.T) {
	handler, ok := HKBinaryHandlerFromFilename(
		"imap_mag_l0_hsk-pw_20250101_2.pkts")
	assert.True(t, ok)
	assert.Equal(t, 2, handler.Part)
	assert.Equal(t, "hsk-pw", handler.Descriptor)

	// The versioned form belongs to the HK handler.
	_, ok = HKBinaryHandlerFromFilename("imap_mag_l0_hsk-pw_20250101_v001.pkts")
	assert.False(t, ok)
}

func TestIALiRTHandlerLayout(t *testing.T) {
	handler := NewIALiRTHandler(day("20250101"))
	assert.False(t, handler.SupportsSequencing())

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "ialirt/2025/01", folder)

	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_ialirt_20250101.csv", filename)

	parsed, ok := IALiRTHandlerFromFilename("imap_ialirt_20250101.csv")
	assert.True(t, ok)
	assert.Equal(t, handler.Date, parsed.Date)
}

func TestQuicklookHandlerLayout(t *testing.T) {
	handler := NewQuicklookHandler(
		"mag-norm", day("20250101"), day("20250107"))
	assert.False(t, handler.SupportsSequencing())
	assert.Equal(t, "quicklook-mag-norm", handler.IndexDescriptor())

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "quicklook/mag-norm/2025/01", folder)

	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_quicklook_mag-norm_20250101_20250107.png", filename)

	parsed, ok := QuicklookHandlerFromFilename(
		"imap_quicklook_mag-norm_20250101_20250107.png")
	assert.True(t, ok)
	assert.Equal(t, "mag-norm", parsed.PlotType)
	assert.Equal(t, day("20250107"), parsed.EndDate)
}

func TestCalibrationLayerHandlerLayout(t *testing.T) {
	data := NewCalibrationLayerHandler(
		"mag", "l1a", "offsets", "data", day("20250502"))
	meta := NewCalibrationLayerHandler(
		"mag", "l1a", "offsets", "meta", day("20250502"))

	// Layers sit alongside the science products they derive from.
	folder, err := data.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "mag/l1a/2025/05/02", folder)

	data_name, err := data.Filename()
	assert.NoError(t, err)
	assert.Equal(t,
		"imap_mag_l1a_offsets-layer-data_20250502_v001.csv", data_name)

	meta_name, err := meta.Filename()
	assert.NoError(t, err)
	assert.Equal(t,
		"imap_mag_l1a_offsets-layer-meta_20250502_v001.json", meta_name)

	parsed, ok := CalibrationLayerHandlerFromFilename(data_name)
	assert.True(t, ok)
	assert.Equal(t, "offsets", parsed.Descriptor)
	assert.Equal(t, "data", parsed.Kind)
	assert.Equal(t, "offsets-layer-data", parsed.IndexDescriptor())

	// The extension is fixed per kind.
	_, ok = CalibrationLayerHandlerFromFilename(
		"imap_mag_l1a_offsets-layer-data_20250502_v001.json")
	assert.False(t, ok)
}

func TestAncillaryHandlerLayout(t *testing.T) {
	handler := NewAncillaryHandler(
		"mag", "l1b-calibration", day("20250101"), day("20251231"), "cdf")

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "ancillary/l1b", folder)

	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t,
		"imap_mag_l1b-calibration_20250101_20251231_v001.cdf", filename)

	// Offsets accumulate over the mission and get a monthly folder.
	offsets := NewAncillaryHandler(
		"mag", "mago-offsets", day("20250502"), day("20250502"), "json")
	folder, err = offsets.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "ancillary/l2-offsets/2025/05", folder)

	// Single day validity drops the end date from the name.
	single := NewAncillaryHandler(
		"mag", "l2-calibration", day("20250101"), time.Time{}, "cdf")
	filename, err = single.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l2-calibration_20250101_v001.cdf", filename)

	unknown := NewAncillaryHandler(
		"mag", "mystery", day("20250101"), day("20250101"), "cdf")
	_, err = unknown.FolderStructure()
	assert.Error(t, err)
}

func TestAncillaryHandlerFromFilename(t *testing.T) {
	handler, ok := AncillaryHandlerFromFilename(
		"imap_mag_l1b-calibration_20250101_20251231_v003.cdf")
	assert.True(t, ok)
	assert.Equal(t, "l1b-calibration", handler.Descriptor)
	assert.Equal(t, day("20250101"), handler.StartDate)
	assert.Equal(t, day("20251231"), handler.EndDate)
	assert.Equal(t, 3, handler.Version)

	// The end date is optional for single day validity.
	handler, ok = AncillaryHandlerFromFilename(
		"imap_mag_mago-offsets_20250502_v001.json")
	assert.True(t, ok)
	assert.True(t, handler.EndDate.IsZero())

	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_mago-offsets_20250502_v001.json", filename)

	_, ok = AncillaryHandlerFromFilename(
		"imap_mag_l1a_norm-mago_20250502_v000.cdf")
	assert.False(t, ok)
}

func TestSpiceHandlerLayout(t *testing.T) {
	handler, ok := SpiceHandlerFromFilename(
		"naif0012.tls", PatternKernelValidator{})
	assert.True(t, ok)
	assert.Equal(t, "lsk", handler.KernelFolder)
	assert.False(t, handler.SupportsSequencing())

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "spice/lsk", folder)

	// The opaque producer name is passed through unchanged.
	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "naif0012.tls", filename)
}

func TestSpiceHandlerVersioned(t *testing.T) {
	handler, ok := SpiceHandlerFromFilename(
		"imap_mag_metakernel_v001.tm", PatternKernelValidator{})
	assert.True(t, ok)
	assert.Equal(t, "mk", handler.KernelFolder)
	assert.True(t, handler.SupportsSequencing())
	assert.Equal(t, 1, handler.Sequence())

	// The version marker lives inside the opaque name, so sequence
	// updates rewrite the name.
	handler.IncreaseSequence()
	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_metakernel_v002.tm", filename)

	pattern, err := handler.UnsequencedPattern()
	assert.NoError(t, err)
	assert.True(t, pattern.MatchString("imap_mag_metakernel_v005.tm"))
	assert.False(t, pattern.MatchString("imap_mag_metakernel_v005.mk"))

	query, err := handler.UnsequencedQuery()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_metakernel_v%.tm", query)
}

func TestSpiceHandlerFolderFromPath(t *testing.T) {
	// Inside the spice tree the folder comes from the path, so files
	// round-trip even when the name shape is unknown to the validator.
	handler, ok := SpiceHandlerFromFilename(
		"/data/spice/sclk/unknown_kernel_v012.tsc", PatternKernelValidator{})
	assert.True(t, ok)
	assert.Equal(t, "sclk", handler.KernelFolder)
	assert.True(t, handler.SupportsSequencing())
	assert.Equal(t, 12, handler.Sequence())

	_, ok = SpiceHandlerFromFilename(
		"/tmp/unknown_kernel.xyz", PatternKernelValidator{})
	assert.False(t, ok)
}
