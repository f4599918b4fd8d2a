package history

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID extracts the entry id from a listing line "{id}\t{preview}".
// A line without a tab is parsed whole, ignoring surrounding whitespace.
func ParseID(line string) (uint64, error) {
	prefix, _, found := strings.Cut(line, "\t")
	if !found {
		prefix = strings.TrimSpace(prefix)
	}
	if prefix == "" {
		return 0, fmt.Errorf("%w: input not prefixed with id", ErrInvalidID)
	}
	id, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: converting id %q", ErrInvalidID, prefix)
	}
	return id, nil
}
