package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	errors "github.com/go-errors/errors"
)

// HashFile returns the hex encoded sha256 of the file content. The
// fingerprint is only ever compared for equality - it is not used as
// a lookup key.
func HashFile(filename string) (string, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return "", errors.Wrap(err, 0)
	}
	defer fd.Close()

	hasher := sha256.New()
	_, err = io.Copy(hasher, fd)
	if err != nil {
		return "", errors.Wrap(err, 0)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
