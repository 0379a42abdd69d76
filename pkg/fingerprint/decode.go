package fingerprint

import (
	"errors"
	"fmt"
	"math"

	"github.com/botprobe/botprobe/pkg/jsonutil"
)

// ErrNotObject is returned when the probe output is valid JSON but not an object.
var ErrNotObject = errors.New("fingerprint: top-level value is not an object")

// Decode parses probe output or a hand-edited record. Missing keys, nulls
// and mistyped scorer fields decode as absent; duplicate names and invalid
// UTF-8 are tolerated. It fails only on malformed JSON or a non-object top
// level.
func Decode(data []byte) (*Record, error) {
	var v any
	if err := jsonutil.UnmarshalLenient(data, &v); err != nil {
		return nil, fmt.Errorf("fingerprint: decode: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return FromMap(m), nil
}

// FromMap builds a Record from an in-process structured value. It never fails.
// The map is retained as Record.Raw and must not be modified afterwards.
func FromMap(m map[string]any) *Record {
	r := &Record{Raw: m}
	if m == nil {
		return r
	}

	if wd, ok := m["webdriver"].(map[string]any); ok {
		r.WebDriver = &WebDriver{Present: truthy(wd["present"])}
	}

	if auto, ok := m["automation"].(map[string]any); ok {
		r.Automation = make(map[string]*bool, len(auto))
		for name, v := range auto {
			r.Automation[name] = truthy(v)
		}
	}

	if pl, ok := m["plugins"].(map[string]any); ok {
		r.Plugins = &Plugins{Count: number(pl["count"])}
	}

	if hw, ok := m["hardware"].(map[string]any); ok {
		r.Hardware = &Hardware{
			HardwareConcurrency: number(hw["hardwareConcurrency"]),
			MaxTouchPoints:      number(hw["maxTouchPoints"]),
		}
	}

	if c, ok := m["canvas"].(string); ok {
		r.Canvas = &c
	}

	return r
}

// truthy maps a probe value to a flag using script truthiness.
// nil stays nil so the caller can tell "not reported" from false.
func truthy(v any) *bool {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return &x
	case float64:
		return Bool(x != 0 && !math.IsNaN(x))
	case int:
		return Bool(x != 0)
	case string:
		return Bool(x != "")
	case []any:
		return Bool(true)
	case map[string]any:
		return Bool(true)
	default:
		return nil
	}
}

// number keeps any finite JSON number as reported, fractions and huge
// magnitudes included, so the rules compare the value the page returned.
// Non-numbers are absent.
func number(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
