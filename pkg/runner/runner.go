// Package runner drives one analysis batch: visit each target in order,
// score what was collected and publish progress as events.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/output/events"
	"github.com/botprobe/botprobe/pkg/report"
)

// Dispatcher receives run events. *dispatcher.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, event events.Event) error
}

// Progress describes one finished site. Exactly one of Result and Err is set.
type Progress struct {
	Index  int
	Total  int
	Target browser.Target
	Result *report.SiteResult
	Err    error
}

// Stats tracks execution statistics
type Stats struct {
	Total      int
	Completed  int
	Successful int
	Failed     int
}

// Runner visits targets one at a time. Sites never overlap: each Collect
// owns a whole browser session.
type Runner struct {
	Collector  browser.Collector
	Dispatcher Dispatcher
	Limiter    *rate.Limiter
	Mode       report.Mode
	Logger     *slog.Logger

	// BeforeSite is called before each visit, OnSite after it.
	BeforeSite func(index, total int, target browser.Target)
	OnSite     func(Progress)

	// Clock stamps the run; time.Now when nil.
	Clock func() time.Time

	Stats Stats

	newID func() string
}

// stamper is implemented by collectors that name files after the run.
type stamper interface {
	SetStamp(stamp string)
}

// New creates a runner around collector.
func New(collector browser.Collector) *Runner {
	return &Runner{
		Collector: collector,
		Clock:     time.Now,
		newID:     uuid.NewString,
	}
}

// NewLimiter spaces site visits to at most perMinute per minute.
// Zero or negative means unlimited and returns nil.
func NewLimiter(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), 1)
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *Runner) runID() string {
	if r.newID != nil {
		return r.newID()
	}
	return uuid.NewString()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run analyzes targets in order and returns the batch outcome.
//
// A failing site is recorded and skipped. Cancelling ctx stops the batch
// after the current site; the partial run is returned with
// ErrInterrupted. If the batch finished but nothing was analyzed the error
// is ErrNoSiteAnalyzed. The returned run is nil only for ErrNoTargets.
func (r *Runner) Run(ctx context.Context, targets []browser.Target) (*report.Run, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	log := r.logger()

	run := &report.Run{
		ID:        r.runID(),
		StartedAt: r.now(),
		Mode:      r.Mode,
	}
	r.Stats = Stats{Total: len(targets)}
	if s, ok := r.Collector.(stamper); ok {
		s.SetStamp(run.Stamp())
	}
	log = log.With("run_id", run.ID)

	start := &events.StartEvent{
		BaseEvent: events.NewBase(events.EventTypeStart, run.ID),
		Headless:  r.Mode.Headless,
		Stealth:   r.Mode.Stealth,
	}
	for _, t := range targets {
		start.Targets = append(start.Targets, events.TargetInfo{Name: t.Name, URL: t.URL})
	}
	r.dispatch(ctx, start)
	log.Info("analysis started", "sites", len(targets), "headless", r.Mode.Headless, "stealth", r.Mode.Stealth)

	for i, target := range targets {
		if ctx.Err() != nil {
			run.Interrupted = true
			break
		}
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				run.Interrupted = true
				break
			}
		}

		log.Info("analyzing site", "site", target.Name, "url", target.URL, "index", i+1, "total", len(targets))
		if r.BeforeSite != nil {
			r.BeforeSite(i, len(targets), target)
		}
		capture, err := r.Collector.Collect(ctx, target)
		r.Stats.Completed++

		if err != nil {
			if ctx.Err() != nil {
				// The page was cut short by the interrupt, not by the site.
				run.Interrupted = true
				break
			}
			r.Stats.Failed++
			r.fail(ctx, run, i, len(targets), target, err)
			continue
		}

		r.Stats.Successful++
		res := report.NewSiteResult(capture)
		run.Sites = append(run.Sites, res)
		log.Info("site analyzed", "site", res.Name, "score", res.Score, "level", res.Level.String(), "fired", res.Fired())
		r.dispatch(ctx, siteEvent(run.ID, &res))
		r.progress(Progress{Index: i, Total: len(targets), Target: target, Result: &run.Sites[len(run.Sites)-1]})
	}

	run.FinishedAt = r.now()

	var err error
	switch {
	case run.Interrupted:
		err = ErrInterrupted
	case !run.Succeeded():
		err = ErrNoSiteAnalyzed
	}

	// Hooks still need the summary after an interrupt.
	r.dispatch(context.WithoutCancel(ctx), completeEvent(run, err))
	log.Info("analysis finished",
		"analyzed", len(run.Sites),
		"failed", len(run.Failures),
		"interrupted", run.Interrupted,
		"duration", run.Duration().Round(time.Millisecond))
	return run, err
}

func (r *Runner) fail(ctx context.Context, run *report.Run, i, total int, target browser.Target, err error) {
	kind := browser.Kind(err)
	run.Failures = append(run.Failures, report.Failure{
		Name:  target.Name,
		URL:   target.URL,
		Kind:  kind,
		Error: err.Error(),
	})
	r.logger().Error("site failed", "run_id", run.ID, "site", target.Name, "url", target.URL, "kind", kind, "error", err)
	r.dispatch(ctx, &events.SiteErrorEvent{
		BaseEvent: events.NewBase(events.EventTypeSiteError, run.ID),
		Site:      target.Name,
		URL:       target.URL,
		Kind:      kind,
		Message:   err.Error(),
	})
	r.progress(Progress{Index: i, Total: total, Target: target, Err: err})
}

func (r *Runner) dispatch(ctx context.Context, e events.Event) {
	if r.Dispatcher == nil {
		return
	}
	if err := r.Dispatcher.Dispatch(ctx, e); err != nil {
		r.logger().Debug("event dispatch failed", "type", e.EventType(), "error", err)
	}
}

func (r *Runner) progress(p Progress) {
	if r.OnSite != nil {
		r.OnSite(p)
	}
}

func siteEvent(runID string, res *report.SiteResult) *events.SiteEvent {
	e := &events.SiteEvent{
		BaseEvent:     events.NewBase(events.EventTypeSite, runID),
		Site:          res.Name,
		URL:           res.URL,
		FinalURL:      res.FinalURL,
		Score:         res.Score,
		Level:         res.Level.String(),
		FingerprintID: res.Fingerprint.ID(),
		LoadTimeMs:    res.LoadTime.Milliseconds(),
		Screenshot:    res.Screenshot,
	}
	for _, s := range res.Signals {
		e.Rules = append(e.Rules, events.RuleResult{Name: s.Name, Weight: s.Weight, Fired: s.Fired})
	}
	return e
}

func completeEvent(run *report.Run, err error) *events.CompleteEvent {
	code, reason := ExitCode(err)
	levels := make(map[string]int)
	for level, n := range run.LevelCounts() {
		levels[level.String()] = n
	}
	return &events.CompleteEvent{
		BaseEvent:   events.NewBase(events.EventTypeComplete, run.ID),
		Success:     err == nil,
		Interrupted: run.Interrupted,
		Analyzed:    len(run.Sites),
		Failed:      len(run.Failures),
		Levels:      levels,
		DurationSec: run.Duration().Seconds(),
		ExitCode:    code,
		ExitReason:  reason,
	}
}

// ExitCode maps a Run error to the process exit code and a short reason.
func ExitCode(err error) (int, string) {
	switch {
	case err == nil:
		return defaults.ExitSuccess, "ok"
	case errors.Is(err, ErrInterrupted):
		return defaults.ExitInterrupted, "interrupted"
	case errors.Is(err, ErrNoSiteAnalyzed):
		return defaults.ExitNoResults, "no site analyzed successfully"
	case errors.Is(err, ErrNoTargets):
		return defaults.ExitUserError, "no targets"
	default:
		return defaults.ExitInternalError, "internal error"
	}
}
