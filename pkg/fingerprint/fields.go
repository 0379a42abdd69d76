package fingerprint

import (
	"strconv"
	"strings"
)

// Lookup walks a dotted path ("hardware.colorDepth") through Raw.
func (r *Record) Lookup(path string) (any, bool) {
	if r == nil || r.Raw == nil {
		return nil, false
	}
	var cur any = r.Raw
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// StringAt returns the string at path. ok is false when the value is
// missing, null or not a string.
func (r *Record) StringAt(path string) (string, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// NumberAt returns the number at path.
func (r *Record) NumberAt(path string) (float64, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}

// Display renders the value at path for a report line. Missing values
// render as "N/A".
func (r *Record) Display(path string) string {
	v, ok := r.Lookup(path)
	if !ok {
		return "N/A"
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return "N/A"
	}
}
