package paths

import (
	"testing"

	"github.com/alecthomas/assert"
)

func TestFindByPath(t *testing.T) {
	cases := []struct {
		filename string
		tag      string
	}{
		{"imap_mag_l1a_norm-mago_20250502_v000.cdf", "Science"},
		{"imap_mag_l2-pre_burst-magi_20251101_v003.cdf", "Science"},
		{"imap_mag_l0_hsk-pw_20250101_v001.pkts", "HK"},
		{"imap_mag_l0_hsk-pw_20250101_2.pkts", "HKBinary"},
		{"imap_ialirt_20250101.csv", "IALiRT"},
		{"imap_quicklook_mag-norm_20250101_20250107.png", "Quicklook"},
		{"imap_mag_l1b-calibration_20250101_20251231_v003.cdf", "Ancillary"},
		{"imap_mag_mago-offsets_20250502_v001.json", "Ancillary"},
		{"imap_mag_l1a_offsets-layer-data_20250502_v001.csv", "CalibrationLayer"},
		{"imap_mag_l1a_offsets-layer-meta_20250502_v001.json", "CalibrationLayer"},
		{"naif0012.tls", "Spice"},
		{"imap_mag_metakernel_v001.tm", "Spice"},
	}

	for _, testcase := range cases {
		handler, err := FindByPath(testcase.filename, true)
		assert.NoError(t, err, testcase.filename)
		assert.Equal(t, testcase.tag, handler.Tag(), testcase.filename)
	}
}

// Grammars overlapping the standard product shape must win over the
// generic science fallback.
func TestFindByPathPriority(t *testing.T) {
	// A -layer- descriptor with a mode prefix still selects the
	// calibration layer convention.
	handler, err := FindByPath(
		"imap_mag_l1a_norm-layer-data_20250502_v001.csv", true)
	assert.NoError(t, err)
	assert.Equal(t, "CalibrationLayer", handler.Tag())

	// Housekeeping files never reach the science fallback.
	handler, err = FindByPath("imap_mag_l0_hsk-pw_20250101_v001.pkts", true)
	assert.NoError(t, err)
	assert.Equal(t, "HK", handler.Tag())
}

func TestFindByPathNotFound(t *testing.T) {
	_, err := FindByPath("random.txt", true)
	assert.Error(t, err)

	not_found, ok := err.(*NoHandlerFoundError)
	assert.True(t, ok)
	assert.Equal(t, "random.txt", not_found.Path)

	// Lenient mode lets callers skip unrecognized files.
	handler, err := FindByPath("random.txt", false)
	assert.NoError(t, err)
	assert.Nil(t, handler)
}
