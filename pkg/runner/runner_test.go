package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/fingerprint"
	"github.com/botprobe/botprobe/pkg/output/events"
	"github.com/botprobe/botprobe/pkg/scoring"
)

var (
	humanRecord = map[string]any{
		"webdriver": map[string]any{"present": false},
		"plugins":   map[string]any{"count": float64(5)},
		"hardware":  map[string]any{"hardwareConcurrency": float64(8), "maxTouchPoints": float64(0)},
		"canvas":    "data:image/png;base64,iVBORw0KGgo",
	}
	botRecord = map[string]any{
		"webdriver":  map[string]any{"present": true},
		"automation": map[string]any{"selenium": true},
		"plugins":    map[string]any{"count": float64(0)},
		"hardware":   map[string]any{"hardwareConcurrency": float64(1), "maxTouchPoints": float64(0)},
		"canvas":     "error",
	}
)

// fakeCollector returns a scripted outcome per target name.
type fakeCollector struct {
	records map[string]map[string]any
	errs    map[string]error
	hook    func(target browser.Target)
	visited []string
}

func (f *fakeCollector) Collect(ctx context.Context, target browser.Target) (*browser.Capture, error) {
	f.visited = append(f.visited, target.Name)
	if f.hook != nil {
		f.hook(target)
	}
	if err := f.errs[target.Name]; err != nil {
		return nil, err
	}
	rec, ok := f.records[target.Name]
	if !ok {
		return nil, fmt.Errorf("%w: no script for %s", browser.ErrNavigate, target.Name)
	}
	return &browser.Capture{
		Target:     target,
		Record:     fingerprint.FromMap(rec),
		FinalURL:   target.URL,
		LoadTime:   1500 * time.Millisecond,
		CapturedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
	ctxErr []error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	d.ctxErr = append(d.ctxErr, ctx.Err())
	return nil
}

func (d *recordingDispatcher) types() []events.EventType {
	var out []events.EventType
	for _, e := range d.events {
		out = append(out, e.EventType())
	}
	return out
}

func (d *recordingDispatcher) complete(t *testing.T) *events.CompleteEvent {
	t.Helper()
	require.NotEmpty(t, d.events)
	c, ok := d.events[len(d.events)-1].(*events.CompleteEvent)
	require.True(t, ok, "last event must be complete")
	return c
}

func targets(names ...string) []browser.Target {
	out := make([]browser.Target, len(names))
	for i, n := range names {
		out[i] = browser.Target{Name: n, URL: "https://" + n + ".example/"}
	}
	return out
}

func newTestRunner(c browser.Collector) (*Runner, *recordingDispatcher) {
	r := New(c)
	d := &recordingDispatcher{}
	r.Dispatcher = d
	r.newID = func() string { return "run-1" }
	return r, d
}

func TestRun_AllSitesAnalyzed(t *testing.T) {
	c := &fakeCollector{records: map[string]map[string]any{"human": humanRecord, "bot": botRecord}}
	r, d := newTestRunner(c)

	var progress []Progress
	var before []string
	r.OnSite = func(p Progress) { progress = append(progress, p) }
	r.BeforeSite = func(i, total int, t browser.Target) { before = append(before, t.Name) }

	run, err := r.Run(context.Background(), targets("human", "bot"))
	require.NoError(t, err)
	require.Len(t, run.Sites, 2)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, []string{"human", "bot"}, c.visited)
	assert.Equal(t, 1, run.Sites[0].Score)
	assert.Equal(t, scoring.LevelLow, run.Sites[0].Level)
	assert.Equal(t, 10, run.Sites[1].Score)
	assert.Equal(t, scoring.LevelHigh, run.Sites[1].Level)
	assert.Empty(t, run.Failures)
	assert.False(t, run.Interrupted)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	assert.Equal(t, Stats{Total: 2, Completed: 2, Successful: 2}, r.Stats)

	assert.Equal(t, []events.EventType{
		events.EventTypeStart, events.EventTypeSite, events.EventTypeSite, events.EventTypeComplete,
	}, d.types())

	start := d.events[0].(*events.StartEvent)
	assert.Len(t, start.Targets, 2)

	site := d.events[2].(*events.SiteEvent)
	assert.Equal(t, "bot", site.Site)
	assert.Equal(t, 10, site.Score)
	assert.Equal(t, "high", site.Level)
	assert.Equal(t, int64(1500), site.LoadTimeMs)
	assert.Len(t, site.FingerprintID, 32)
	assert.Equal(t, []string{"webdriver", "automation", "plugins", "hardware_concurrency", "touch_points", "canvas"}, site.Fired())

	done := d.complete(t)
	assert.True(t, done.Success)
	assert.Equal(t, 2, done.Analyzed)
	assert.Equal(t, map[string]int{"low": 1, "medium": 0, "high": 1}, done.Levels)
	assert.Equal(t, defaults.ExitSuccess, done.ExitCode)

	assert.Equal(t, []string{"human", "bot"}, before)
	require.Len(t, progress, 2)
	assert.NotNil(t, progress[1].Result)
	assert.Equal(t, 1, progress[1].Index)
	assert.Equal(t, 2, progress[1].Total)
}

func TestRun_FailedSiteIsSkipped(t *testing.T) {
	c := &fakeCollector{
		records: map[string]map[string]any{"a": humanRecord, "c": botRecord},
		errs:    map[string]error{"b": fmt.Errorf("%w: %w", browser.ErrNavigate, browser.ErrTimeout)},
	}
	r, d := newTestRunner(c)

	run, err := r.Run(context.Background(), targets("a", "b", "c"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, c.visited)
	require.Len(t, run.Sites, 2)
	require.Len(t, run.Failures, 1)
	assert.Equal(t, "b", run.Failures[0].Name)
	assert.Equal(t, "timeout", run.Failures[0].Kind)
	assert.Equal(t, Stats{Total: 3, Completed: 3, Successful: 2, Failed: 1}, r.Stats)

	assert.Equal(t, []events.EventType{
		events.EventTypeStart, events.EventTypeSite, events.EventTypeSiteError, events.EventTypeSite, events.EventTypeComplete,
	}, d.types())
	siteErr := d.events[2].(*events.SiteErrorEvent)
	assert.Equal(t, "timeout", siteErr.Kind)
	assert.Contains(t, siteErr.Message, "timed out")
	assert.Equal(t, 1, d.complete(t).Failed)
}

func TestRun_NoSiteAnalyzed(t *testing.T) {
	c := &fakeCollector{errs: map[string]error{"a": browser.ErrNoBrowser}}
	r, d := newTestRunner(c)

	run, err := r.Run(context.Background(), targets("a"))
	require.ErrorIs(t, err, ErrNoSiteAnalyzed)
	require.NotNil(t, run)
	assert.False(t, run.Succeeded())
	assert.Equal(t, "launch", run.Failures[0].Kind)

	done := d.complete(t)
	assert.False(t, done.Success)
	assert.Equal(t, defaults.ExitNoResults, done.ExitCode)
	assert.Equal(t, "no site analyzed successfully", done.ExitReason)
}

func TestRun_NoTargets(t *testing.T) {
	r, d := newTestRunner(&fakeCollector{})
	run, err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.Nil(t, run)
	assert.Empty(t, d.events)
}

func TestRun_InterruptStopsBetweenSites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &fakeCollector{records: map[string]map[string]any{"a": humanRecord, "b": botRecord}}
	c.hook = func(browser.Target) { cancel() }
	r, d := newTestRunner(c)

	run, err := r.Run(ctx, targets("a", "b"))
	require.ErrorIs(t, err, ErrInterrupted)

	assert.Equal(t, []string{"a"}, c.visited)
	assert.True(t, run.Interrupted)
	assert.Len(t, run.Sites, 1, "the site in flight when cancelled is kept")

	done := d.complete(t)
	assert.True(t, done.Interrupted)
	assert.Equal(t, defaults.ExitInterrupted, done.ExitCode)
	assert.NoError(t, d.ctxErr[len(d.ctxErr)-1], "complete must be dispatched on a live context")
}

func TestRun_CancelledCollectIsNotAFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &fakeCollector{errs: map[string]error{"a": fmt.Errorf("%w: %w", browser.ErrNavigate, context.Canceled)}}
	c.hook = func(browser.Target) { cancel() }
	r, _ := newTestRunner(c)

	run, err := r.Run(ctx, targets("a", "b"))
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Empty(t, run.Failures)
	assert.Empty(t, run.Sites)
	assert.Equal(t, []string{"a"}, c.visited)
}

func TestRun_LimiterWaitHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &fakeCollector{records: map[string]map[string]any{"a": humanRecord, "b": humanRecord}}
	r, _ := newTestRunner(c)
	// One token, refilled once an hour: the second wait can only end by cancel.
	r.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	c.hook = func(browser.Target) {
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
	}

	run, err := r.Run(ctx, targets("a", "b"))
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, []string{"a"}, c.visited)
	assert.Len(t, run.Sites, 1)
}

func TestRun_WithoutDispatcher(t *testing.T) {
	r := New(&fakeCollector{records: map[string]map[string]any{"a": botRecord}})
	run, err := r.Run(context.Background(), targets("a"))
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-5))

	l := NewLimiter(120)
	require.NotNil(t, l)
	assert.InDelta(t, 2.0, float64(l.Limit()), 1e-9)
	assert.Equal(t, 1, l.Burst())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, defaults.ExitSuccess},
		{ErrInterrupted, defaults.ExitInterrupted},
		{fmt.Errorf("wrapped: %w", ErrNoSiteAnalyzed), defaults.ExitNoResults},
		{ErrNoTargets, defaults.ExitUserError},
		{errors.New("boom"), defaults.ExitInternalError},
	}
	for _, tt := range tests {
		code, reason := ExitCode(tt.err)
		assert.Equal(t, tt.code, code, "%v", tt.err)
		assert.NotEmpty(t, reason)
	}
}

type stampingCollector struct {
	fakeCollector
	stamp string
}

func (s *stampingCollector) SetStamp(stamp string) { s.stamp = stamp }

func TestRun_StampsCollectorWithRunClock(t *testing.T) {
	c := &stampingCollector{fakeCollector: fakeCollector{records: map[string]map[string]any{"a": humanRecord}}}
	r, _ := newTestRunner(c)
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	r.Clock = func() time.Time { return fixed }

	run, err := r.Run(context.Background(), targets("a"))
	require.NoError(t, err)
	assert.Equal(t, "20260304_050607", c.stamp)
	assert.Equal(t, run.Stamp(), c.stamp)
	assert.Equal(t, time.Duration(0), run.Duration())
}

func TestRun_ZeroValueRunner(t *testing.T) {
	r := &Runner{Collector: &fakeCollector{records: map[string]map[string]any{"a": humanRecord}}}
	run, err := r.Run(context.Background(), targets("a"))
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
}
