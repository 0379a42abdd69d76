package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/botprobe/botprobe/pkg/config"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/health"
	"github.com/botprobe/botprobe/pkg/ui"
)

// SelfCheckOptions configures the pre-flight probe.
type SelfCheckOptions struct {
	// Config supplies the output dir, browser settings and network targets.
	// Nil uses config.Default.
	Config *config.Config

	Quick     bool // skip both network and browser launch
	NoNetwork bool
	NoBrowser bool

	// SaveReport writes the JSON report to Output, or
	// defaults.HealthReportPath when Output is empty.
	SaveReport bool
	Output     string

	Logger *slog.Logger
}

// RunSelfCheck runs the health battery and prints one line per check.
// It returns ErrSelfCheck when any check is in error state.
func RunSelfCheck(ctx context.Context, opts *SelfCheckOptions, w io.Writer) (*health.Report, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var targets []string
	for _, t := range cfg.Targets {
		targets = append(targets, t.URL)
	}

	checker := health.NewDefaultChecker(health.Options{
		OutputDir:      cfg.OutputDir,
		Targets:        targets,
		Browser:        cfg.BrowserConfig(logger),
		ValidateConfig: cfg.Validate,
		SkipNetwork:    opts.Quick || opts.NoNetwork,
		SkipBrowser:    opts.Quick || opts.NoBrowser,
		Logger:         logger,
	})
	checker.OnResult(func(r health.Result) {
		fmt.Fprintf(w, "  %s %-16s %s\n", statusIcon(r.Status), r.Name, r.Detail)
	})

	rep, err := checker.Run(ctx)
	if err != nil {
		return nil, err
	}

	s := rep.Summary
	fmt.Fprintf(w, "\n  %d checks: %d passed, %d warnings, %d errors, %d skipped\n",
		s.TotalChecks, s.Passed, s.Warnings, s.Errors, s.Skipped)

	if opts.SaveReport {
		path := opts.Output
		if path == "" {
			path = defaults.HealthReportPath
		}
		if err := rep.Save(path); err != nil {
			return rep, err
		}
		ui.PrintSuccess("self-check report saved to " + path)
	}

	if !rep.Success {
		return rep, fmt.Errorf("%w: %d check(s) in error", ErrSelfCheck, s.Errors)
	}
	return rep, nil
}

func statusIcon(s health.Status) string {
	switch s {
	case health.StatusOK:
		return ui.SuccessStyle.Render(ui.Icon("✓", "[+]"))
	case health.StatusWarning:
		return ui.WarningStyle.Render(ui.Icon("!", "[!]"))
	case health.StatusError:
		return ui.FailStyle.Render(ui.Icon("✗", "[X]"))
	default:
		return ui.DividerStyle.Render(ui.Icon("-", "[-]"))
	}
}
