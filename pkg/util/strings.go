package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses s as a base-10 int, ignoring surrounding spaces.
// Blank or malformed input yields def.
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
