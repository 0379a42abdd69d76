package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botprobe/botprobe/pkg/output/events"
)

type mockWriter struct {
	mu        sync.Mutex
	events    []events.Event
	supported map[events.EventType]bool
	writeErr  error
	flushed   int
	closed    bool
}

func (w *mockWriter) Write(e events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, e)
	return w.writeErr
}

func (w *mockWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushed++
	return nil
}

func (w *mockWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *mockWriter) SupportsEvent(t events.EventType) bool {
	if w.supported == nil {
		return true
	}
	return w.supported[t]
}

type mockHook struct {
	types  []events.EventType
	err    error
	count  atomic.Int32
	closed atomic.Bool
}

func (h *mockHook) OnEvent(_ context.Context, _ events.Event) error {
	h.count.Add(1)
	return h.err
}

func (h *mockHook) EventTypes() []events.EventType { return h.types }

func (h *mockHook) Close() error {
	h.closed.Store(true)
	return nil
}

func siteEvent() events.Event {
	return &events.SiteEvent{BaseEvent: events.NewBase(events.EventTypeSite, "run")}
}

func TestDispatch_RoutesToWritersAndHooks(t *testing.T) {
	d := New(Config{})
	all := &mockWriter{}
	startOnly := &mockWriter{supported: map[events.EventType]bool{events.EventTypeStart: true}}
	d.RegisterWriter(all)
	d.RegisterWriter(startOnly)

	anyHook := &mockHook{}
	completeHook := &mockHook{types: []events.EventType{events.EventTypeComplete}}
	d.RegisterHook(anyHook)
	d.RegisterHook(completeHook)

	require.NoError(t, d.Dispatch(context.Background(), siteEvent()))

	assert.Len(t, all.events, 1)
	assert.Empty(t, startOnly.events)
	assert.EqualValues(t, 1, anyHook.count.Load())
	assert.EqualValues(t, 0, completeHook.count.Load())
}

func TestDispatch_FailuresDoNotStopOthers(t *testing.T) {
	d := New(Config{})
	bad := &mockWriter{writeErr: errors.New("disk full")}
	good := &mockWriter{}
	d.RegisterWriter(bad)
	d.RegisterWriter(good)

	failing := &mockHook{err: errors.New("collector down")}
	ok := &mockHook{}
	d.RegisterHook(failing)
	d.RegisterHook(ok)

	require.NoError(t, d.Dispatch(context.Background(), siteEvent()))
	assert.Len(t, good.events, 1)
	assert.EqualValues(t, 1, ok.count.Load())
}

func TestClose_ClosesWritersAndHooks(t *testing.T) {
	d := New(Config{})
	w := &mockWriter{}
	h := &mockHook{}
	d.RegisterWriter(w)
	d.RegisterHook(h)

	require.NoError(t, d.Close())
	assert.True(t, w.closed)
	assert.Equal(t, 1, w.flushed)
	assert.True(t, h.closed.Load())

	// idempotent, and dispatch after close is dropped
	require.NoError(t, d.Close())
	require.NoError(t, d.Dispatch(context.Background(), siteEvent()))
	assert.Empty(t, w.events)
	assert.EqualValues(t, 0, h.count.Load())
}

func TestDispatch_Concurrent(t *testing.T) {
	d := New(Config{})
	h := &mockHook{}
	d.RegisterHook(h)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), siteEvent())
		}()
	}
	wg.Wait()
	require.NoError(t, d.Close())
	assert.EqualValues(t, 50, h.count.Load())
}
