package fingerprint

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/botprobe/botprobe/pkg/jsonutil"
)

// ID returns a stable 128-bit hex digest of the record. Records with the
// same probe output share an ID regardless of map ordering.
func (r *Record) ID() string {
	var v any = map[string]any{}
	switch {
	case r == nil:
	case r.Raw != nil:
		v = r.Raw
	default:
		v = r
	}
	data, err := jsonutil.Canonical(v)
	if err != nil {
		data = nil
	}
	h1, h2 := murmur3.Sum128(data)
	return fmt.Sprintf("%016x%016x", h1, h2)
}
