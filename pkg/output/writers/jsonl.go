// Package writers provides output writers for the event stream.
package writers

import (
	"io"
	"sync"

	"github.com/botprobe/botprobe/pkg/jsonutil"
	"github.com/botprobe/botprobe/pkg/output/dispatcher"
	"github.com/botprobe/botprobe/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*JSONLWriter)(nil)

// JSONLWriter writes events as newline-delimited JSON (JSONL).
// Each line parses on its own, so jq and streaming consumers can follow
// a run while it is in progress.
type JSONLWriter struct {
	w       io.Writer
	mu      sync.Mutex
	opts    JSONLOptions
	encoder *jsonutil.Encoder
}

// JSONLOptions configures the JSONL writer behavior.
type JSONLOptions struct {
	// OnlySites drops start and complete events.
	OnlySites bool

	// Pretty enables indented JSON output.
	// Not JSONL compliant, useful for debugging.
	Pretty bool
}

// NewJSONLWriter creates a new JSONL writer that writes to w.
// The writer is safe for concurrent use.
func NewJSONLWriter(w io.Writer, opts JSONLOptions) *JSONLWriter {
	encoder := jsonutil.NewStreamEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return &JSONLWriter{
		w:       w,
		opts:    opts,
		encoder: encoder,
	}
}

// Write writes an event as a single JSON line.
func (jw *JSONLWriter) Write(event events.Event) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return jw.encoder.Encode(event)
}

// Flush is a no-op: every event is written immediately.
func (jw *JSONLWriter) Flush() error {
	return nil
}

// Close closes the underlying writer if it implements io.Closer.
func (jw *JSONLWriter) Close() error {
	if closer, ok := jw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SupportsEvent reports whether the event type is written.
func (jw *JSONLWriter) SupportsEvent(t events.EventType) bool {
	if jw.opts.OnlySites {
		return t == events.EventTypeSite || t == events.EventTypeSiteError
	}
	return true
}
