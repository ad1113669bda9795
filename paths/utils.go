package paths

import (
	"path/filepath"
	"strconv"
	"strings"
)

// baseName strips any leading directories, accepting both / and the
// native separator.
func baseName(filename string) string {
	return filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
}

// atoiOrZero is only used on regexp groups already known to be
// digits.
func atoiOrZero(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}
