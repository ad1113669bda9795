package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	errors "github.com/go-errors/errors"
)

// AtomicCopy copies src into dest without ever exposing a partially
// written file. The content is staged in a temporary file in the
// destination directory and renamed into place, so concurrent readers
// either see the old file or the complete new one.
func AtomicCopy(src, dest string) error {
	sfi, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if !sfi.Mode().IsRegular() {
		return fmt.Errorf(
			"AtomicCopy: non-regular source file %s (%q)",
			sfi.Name(), sfi.Mode().String())
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-"+filepath.Base(dest)+"-")
	if err != nil {
		return errors.Wrap(err, 0)
	}
	tmp_name := tmp.Name()

	// On any failure remove the staging file - the store must be
	// left in its prior state.
	_, err = io.Copy(tmp, in)
	if err == nil {
		err = tmp.Sync()
	}

	close_err := tmp.Close()
	if err == nil {
		err = close_err
	}

	if err == nil {
		err = os.Chmod(tmp_name, sfi.Mode().Perm())
	}

	if err == nil {
		err = os.Rename(tmp_name, dest)
	}

	if err != nil {
		os.Remove(tmp_name)
		return errors.Wrap(err, 0)
	}

	return nil
}
