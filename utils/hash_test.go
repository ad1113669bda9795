package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
)

func TestHashFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data.bin")
	err := os.WriteFile(filename, []byte("hello"), 0600)
	assert.NoError(t, err)

	hash, err := HashFile(filename)
	assert.NoError(t, err)
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		hash)

	// Identical content hashes identically regardless of name.
	other := filepath.Join(t.TempDir(), "other.bin")
	err = os.WriteFile(other, []byte("hello"), 0600)
	assert.NoError(t, err)

	other_hash, err := HashFile(other)
	assert.NoError(t, err)
	assert.Equal(t, hash, other_hash)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
