// Package dispatcher fans run events out to writers and hooks. Writers
// persist the event stream (JSONL); hooks feed live integrations such as
// the run log, Prometheus and OpenTelemetry.
package dispatcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/botprobe/botprobe/pkg/output/events"
)

// Writer persists events.
type Writer interface {
	Write(event events.Event) error
	Flush() error
	Close() error

	// SupportsEvent filters the event types written.
	SupportsEvent(eventType events.EventType) bool
}

// Hook reacts to events. Hooks implementing io.Closer are closed with the
// dispatcher.
type Hook interface {
	OnEvent(ctx context.Context, event events.Event) error

	// EventTypes lists the handled types; empty means all.
	EventTypes() []events.EventType
}

// Config configures a Dispatcher.
type Config struct {
	// Logger receives writer and hook failures at debug level.
	Logger *slog.Logger
}

// Dispatcher delivers each event synchronously, writers first, in
// registration order. It is safe for concurrent use.
type Dispatcher struct {
	mu      sync.RWMutex
	writers []Writer
	hooks   []Hook
	closed  bool
	logger  *slog.Logger
}

// New creates an empty dispatcher.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// RegisterWriter adds w.
func (d *Dispatcher) RegisterWriter(w Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writers = append(d.writers, w)
}

// RegisterHook adds h.
func (d *Dispatcher) RegisterHook(h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
}

// Dispatch delivers event to every interested writer and hook. Failures are
// logged and never stop delivery to the rest, so the returned error is
// always nil; the signature matches runner.Dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, event events.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil
	}

	typ := event.EventType()
	for _, w := range d.writers {
		if !w.SupportsEvent(typ) {
			continue
		}
		if err := w.Write(event); err != nil {
			d.logger.Debug("event writer failed", "event", typ, "error", err)
		}
	}
	for _, h := range d.hooks {
		if types := h.EventTypes(); len(types) > 0 && !slices.Contains(types, typ) {
			continue
		}
		if err := h.OnEvent(ctx, event); err != nil {
			d.logger.Debug("event hook failed", "event", typ, "error", err)
		}
	}
	return nil
}

// Close flushes and closes the writers, then closes hooks that are
// io.Closers. Later Dispatch calls are dropped. Close is idempotent.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, w := range d.writers {
		errs = append(errs, w.Flush(), w.Close())
	}
	for _, h := range d.hooks {
		if c, ok := h.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
