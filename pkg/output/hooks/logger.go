package hooks

import (
	"context"
	"log/slog"

	"github.com/botprobe/botprobe/pkg/output/dispatcher"
	"github.com/botprobe/botprobe/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*LogHook)(nil)

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// LogHook writes one structured log line per event.
type LogHook struct {
	logger *slog.Logger
}

// NewLogHook creates a log hook. A nil logger uses slog.Default().
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{logger: orDefault(logger)}
}

// OnEvent logs the event.
func (h *LogHook) OnEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.StartEvent:
		h.logger.InfoContext(ctx, "analysis started",
			"run_id", e.RunID(), "sites", len(e.Targets), "headless", e.Headless, "stealth", e.Stealth)
	case *events.SiteEvent:
		h.logger.InfoContext(ctx, "site analyzed",
			"run_id", e.RunID(), "site", e.Site, "score", e.Score, "level", e.Level,
			"signals", e.Fired(), "load_ms", e.LoadTimeMs)
	case *events.SiteErrorEvent:
		h.logger.WarnContext(ctx, "site skipped",
			"run_id", e.RunID(), "site", e.Site, "url", e.URL, "kind", e.Kind, "error", e.Message)
	case *events.CompleteEvent:
		h.logger.InfoContext(ctx, "analysis complete",
			"run_id", e.RunID(), "analyzed", e.Analyzed, "failed", e.Failed,
			"interrupted", e.Interrupted, "duration_sec", e.DurationSec, "exit_code", e.ExitCode)
	}
	return nil
}

// EventTypes returns nil: the log hook receives all events.
func (h *LogHook) EventTypes() []events.EventType {
	return nil
}
