package paths

import (
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func day(value string) time.Time {
	result, err := time.Parse("20060102", value)
	if err != nil {
		panic(err)
	}
	return result
}

func TestScienceHandlerLayout(t *testing.T) {
	handler := NewScienceHandler(
		"mag", "l1a", "norm-mago", day("20250502"), "cdf")

	folder, err := handler.FolderStructure()
	assert.NoError(t, err)
	assert.Equal(t, "mag/l1a/2025/05/02", folder)

	// Version starts unset, rendered as v000 until the manager
	// assigns the real revision.
	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l1a_norm-mago_20250502_v000.cdf", filename)

	handler.SetSequence(12)
	filename, err = handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l1a_norm-mago_20250502_v012.cdf", filename)

	full_path, err := FullPath("/data", handler)
	assert.NoError(t, err)
	assert.Equal(t,
		"/data/mag/l1a/2025/05/02/imap_mag_l1a_norm-mago_20250502_v012.cdf",
		full_path)
}

func TestScienceHandlerMissingAttributes(t *testing.T) {
	handler := &ScienceHandler{Instrument: "mag"}

	_, err := handler.Filename()
	assert.Error(t, err)

	missing, ok := err.(*MissingAttributeError)
	assert.True(t, ok)
	assert.Contains(t, missing.Attributes, "level")
	assert.Contains(t, missing.Attributes, "descriptor")
	assert.Contains(t, missing.Attributes, "date")
	assert.Contains(t, missing.Attributes, "extension")
}

func TestScienceHandlerFromFilename(t *testing.T) {
	handler, ok := ScienceHandlerFromFilename(
		"imap_mag_l2-pre_burst-magi_20251101_v003.cdf")
	assert.True(t, ok)
	assert.Equal(t, "mag", handler.Instrument)
	assert.Equal(t, "l2-pre", handler.Level)
	assert.Equal(t, "burst-magi", handler.Descriptor)
	assert.Equal(t, day("20251101"), handler.Date)
	assert.Equal(t, 3, handler.Version)
	assert.Equal(t, "cdf", handler.Extension)

	// Parsing and rendering are inverses.
	filename, err := handler.Filename()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l2-pre_burst-magi_20251101_v003.cdf", filename)

	// Full paths are accepted, only the base name matters.
	_, ok = ScienceHandlerFromFilename(
		"/data/mag/l1a/2025/05/02/imap_mag_l1a_norm-mago_20250502_v000.cdf")
	assert.True(t, ok)

	// Housekeeping descriptors carry no mode prefix and must not be
	// claimed by the standard product grammar.
	_, ok = ScienceHandlerFromFilename("imap_mag_l0_hsk-pw_20250101_v001.pkts")
	assert.False(t, ok)

	_, ok = ScienceHandlerFromFilename("random.txt")
	assert.False(t, ok)
}

func TestScienceHandlerUnsequencedPattern(t *testing.T) {
	handler := NewScienceHandler(
		"mag", "l1a", "norm-mago", day("20250502"), "cdf")

	pattern, err := handler.UnsequencedPattern()
	assert.NoError(t, err)

	assert.True(t, pattern.MatchString(
		"imap_mag_l1a_norm-mago_20250502_v000.cdf"))
	assert.True(t, pattern.MatchString(
		"imap_mag_l1a_norm-mago_20250502_v123.cdf"))

	// Other identities do not match.
	assert.False(t, pattern.MatchString(
		"imap_mag_l1a_norm-magi_20250502_v000.cdf"))
	assert.False(t, pattern.MatchString(
		"imap_mag_l1a_norm-mago_20250503_v000.cdf"))
	assert.False(t, pattern.MatchString(
		"imap_mag_l1a_norm-mago_20250502_v000.json"))

	query, err := handler.UnsequencedQuery()
	assert.NoError(t, err)
	assert.Equal(t, "imap_mag_l1a_norm-mago_20250502_v%.cdf", query)
}
