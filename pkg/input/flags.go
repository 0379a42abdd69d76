package input

import (
	"slices"
	"strings"
)

// StringSliceFlag is a flag.Value collecting repeated or comma-separated
// entries. Blank entries and exact repeats are dropped, order is kept.
type StringSliceFlag []string

func (s *StringSliceFlag) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *StringSliceFlag) Set(value string) error {
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" || slices.Contains(*s, entry) {
			continue
		}
		*s = append(*s, entry)
	}
	return nil
}
