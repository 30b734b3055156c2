package util

import (
	"fmt"
	"strings"
)

// ParseSeasonLabel reads a season label such as "2016-17", "2016-2017" or
// "2016" and returns the starting year.
func ParseSeasonLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty season label")
	}
	head, tail, hasTail := strings.Cut(s, "-")
	start := ParseIntDefault(head, -1)
	if start < 0 || len(head) != 4 {
		return 0, fmt.Errorf("invalid season label %q", s)
	}
	if !hasTail {
		return start, nil
	}
	end := ParseIntDefault(tail, -1)
	switch {
	case len(tail) == 2 && end == (start+1)%100:
	case len(tail) == 4 && end == start+1:
	default:
		return 0, fmt.Errorf("invalid season label %q", s)
	}
	return start, nil
}

// SeasonLabel formats the label for the season starting in year, e.g. 2016 -> "2016-17".
func SeasonLabel(year int) string {
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}
