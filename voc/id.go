package voc

import (
	"fmt"
	"strconv"
	"strings"
)

// Returns the id of the n-th image of a year, e.g. "2024_000001".
func FormatID(year, n int) string {
	return fmt.Sprintf("%d_%06d", year, n)
}

// Parses an id of the form <year>_<6 digits>.
func ParseID(id string) (year, n int, err error) {
	yearStr, numStr, ok := strings.Cut(id, "_")
	if !ok || len(numStr) < 6 {
		return 0, 0, fmt.Errorf("invalid image id %q", id)
	}
	if year, err = strconv.Atoi(yearStr); err != nil {
		return 0, 0, fmt.Errorf("invalid image id %q: %w", id, err)
	}
	if n, err = strconv.Atoi(numStr); err != nil {
		return 0, 0, fmt.Errorf("invalid image id %q: %w", id, err)
	}
	return year, n, nil
}

// Splits a filename at its first dot.
// The extension keeps the dot and is empty if there is none.
func SplitName(filename string) (id, ext string) {
	if i := strings.IndexByte(filename, '.'); i >= 0 {
		return filename[:i], filename[i:]
	}
	return filename, ""
}
