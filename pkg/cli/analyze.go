package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/config"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/logging"
	"github.com/botprobe/botprobe/pkg/output/dispatcher"
	"github.com/botprobe/botprobe/pkg/output/hooks"
	"github.com/botprobe/botprobe/pkg/output/writers"
	"github.com/botprobe/botprobe/pkg/report"
	"github.com/botprobe/botprobe/pkg/runner"
	"github.com/botprobe/botprobe/pkg/ui"
)

// AnalyzeOptions configures one analysis batch.
type AnalyzeOptions struct {
	// Config is validated by RunAnalyze. Nil uses config.Default.
	Config *config.Config

	// Collector overrides the Chrome collector built from Config.
	Collector browser.Collector

	// JSON prints the JSON export instead of the text report.
	JSON bool

	// EventsFile receives the event stream as JSONL; "-" is stdout.
	EventsFile string

	// LogConsole mirrors the run log; nil keeps it in the log file only.
	LogConsole io.Writer

	// Logger replaces the run log entirely.
	Logger *slog.Logger
}

// AnalyzeResult is what a batch produced.
type AnalyzeResult struct {
	Run   *report.Run
	Paths report.Paths
}

// RunAnalyze visits every configured target, scores it, prints the report
// to w and saves the requested formats. The error is the runner's verdict
// (runner.ErrNoSiteAnalyzed, runner.ErrInterrupted) joined with any save
// failure; map it with runner.ExitCode.
func RunAnalyze(ctx context.Context, opts *AnalyzeOptions, w io.Writer) (*AnalyzeResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		console := opts.LogConsole
		if console == nil {
			console = io.Discard
		}
		l, closer, err := logging.Init(logging.Config{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   filepath.Join(cfg.OutputDir, defaults.LogFileName),
			Stderr: console,
		})
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		logger = l
	}

	disp, err := newDispatcher(cfg, opts.EventsFile, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := disp.Close(); err != nil {
			logger.Warn("closing outputs", "error", err)
		}
	}()

	collector := opts.Collector
	if collector == nil {
		collector = browser.NewChromeCollector(cfg.BrowserConfig(logger))
	}

	r := runner.New(collector)
	r.Dispatcher = disp
	r.Limiter = runner.NewLimiter(float64(cfg.Rate))
	r.Mode = report.Mode{Headless: cfg.Headless, Stealth: cfg.Stealth}
	r.Logger = logger

	spin := ui.NewStatusSpinner()
	r.BeforeSite = func(i, total int, t browser.Target) {
		spin.Start(fmt.Sprintf("[%d/%d] %s %s", i+1, total, t.Name, ui.URLStyle.Render(t.URL)))
	}
	r.OnSite = func(p runner.Progress) {
		spin.Stop()
		if p.Err != nil {
			ui.PrintSiteFailure(p.Index, p.Total, p.Target.Name, browser.Kind(p.Err), p.Err)
			return
		}
		ui.PrintSiteResult(p.Index, p.Total, p.Result)
	}

	run, runErr := r.Run(ctx, cfg.BrowserTargets())
	spin.Stop()
	if run == nil {
		return nil, runErr
	}
	result := &AnalyzeResult{Run: run}

	if !run.Succeeded() {
		if errors.Is(runErr, runner.ErrInterrupted) {
			ui.PrintWarning("interrupted before any site was analyzed")
		} else {
			ui.PrintError("no site analyzed successfully")
		}
		return result, runErr
	}

	if err := printReport(w, run, opts.JSON); err != nil {
		return result, errors.Join(runErr, err)
	}
	ui.PrintSummary(run)

	paths, saveErr := report.Save(cfg.OutputDir, run, cfg.Formats)
	result.Paths = paths
	for _, p := range paths.All() {
		ui.PrintSuccess("saved " + p)
	}
	if saveErr != nil {
		logger.Error("saving reports", "error", saveErr)
		return result, errors.Join(runErr, saveErr)
	}
	return result, runErr
}

func printReport(w io.Writer, run *report.Run, asJSON bool) error {
	if asJSON {
		return report.WriteJSON(w, run)
	}
	text, err := report.RenderText(run)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// newDispatcher wires the always-on log hook plus the telemetry and event
// outputs enabled in cfg.
func newDispatcher(cfg *config.Config, eventsFile string, logger *slog.Logger) (*dispatcher.Dispatcher, error) {
	d := dispatcher.New(dispatcher.Config{Logger: logger})
	d.RegisterHook(hooks.NewLogHook(logger))

	if cfg.MetricsPort > 0 {
		prom, err := hooks.NewPrometheusHook(hooks.PrometheusOptions{Port: cfg.MetricsPort, Logger: logger})
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.RegisterHook(prom)
		ui.PrintInfo("metrics at " + prom.MetricsAddr())
	}

	if cfg.OTelEndpoint != "" {
		tracer, err := hooks.NewOTelHook(hooks.OTelOptions{Endpoint: cfg.OTelEndpoint, Insecure: cfg.OTelInsecure})
		if err != nil {
			// Tracing is optional; the batch runs without it.
			ui.PrintWarning("tracing disabled: " + err.Error())
			logger.Warn("otel exporter", "endpoint", cfg.OTelEndpoint, "error", err)
		} else {
			d.RegisterHook(tracer)
			ui.PrintInfo(fmt.Sprintf("tracing as %s to %s", tracer.ServiceName(), tracer.Endpoint()))
		}
	}

	if eventsFile != "" {
		var out io.Writer = struct{ io.Writer }{os.Stdout}
		if eventsFile != "-" {
			f, err := os.Create(eventsFile)
			if err != nil {
				_ = d.Close()
				return nil, fmt.Errorf("create events file: %w", err)
			}
			out = f
		}
		d.RegisterWriter(writers.NewJSONLWriter(out, writers.JSONLOptions{}))
	}
	return d, nil
}
