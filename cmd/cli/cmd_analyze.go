package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/botprobe/botprobe/pkg/cli"
	"github.com/botprobe/botprobe/pkg/config"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/input"
	"github.com/botprobe/botprobe/pkg/report"
	"github.com/botprobe/botprobe/pkg/ui"
)

type analyzeFlags struct {
	targets TargetFlags
	output  OutputFlags

	configPath string
	outputDir  string
	formats    input.StringSliceFlag
	pdf        bool
	jsonOut    bool
	events     string

	stealth      bool
	headed       bool
	noScreenshot bool
	chrome       string
	proxy        string
	locale       string
	timezone     string
	timeout      time.Duration
	settle       time.Duration
	rate         int

	metricsPort  int
	otelEndpoint string
	otelInsecure bool

	logLevel  string
	logFormat string
	verbose   bool
}

func newAnalyzeFlagSet() (*flag.FlagSet, *analyzeFlags) {
	f := &analyzeFlags{}
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)

	f.targets.Register(fs)
	f.output.Register(fs)
	fs.StringVar(&f.configPath, "config", "", "YAML config file; flags override it")

	// Output
	fs.StringVar(&f.outputDir, "o", defaults.OutputDir, "Output directory for reports, screenshots and the run log")
	fs.Var(&f.formats, "formats", "Report formats: txt,json,pdf (default txt,json)")
	fs.BoolVar(&f.pdf, "pdf", false, "Also write a PDF report")
	fs.BoolVar(&f.jsonOut, "json", false, "Print the JSON export instead of the text report")
	fs.StringVar(&f.events, "events", "", "Write the event stream as JSONL to this file (- for stdout)")

	// Browser
	fs.BoolVar(&f.stealth, "stealth", false, "Hide common automation markers")
	fs.BoolVar(&f.headed, "headed", false, "Show the browser window")
	fs.BoolVar(&f.noScreenshot, "no-screenshot", false, "Skip page screenshots")
	fs.StringVar(&f.chrome, "chrome", "", "Chrome/Chromium executable (default: autodetect)")
	fs.StringVar(&f.proxy, "proxy", "", "Proxy URL for the browser")
	fs.StringVar(&f.locale, "locale", defaults.Locale, "Browser locale")
	fs.StringVar(&f.timezone, "timezone", defaults.Timezone, "Browser timezone (IANA name)")
	fs.DurationVar(&f.timeout, "timeout", duration.BrowserPage, "Page load timeout")
	fs.DurationVar(&f.settle, "settle", duration.BrowserSettle, "Wait after load before probing")
	fs.IntVar(&f.rate, "rate", 0, "Max site visits per minute (0 = unlimited)")

	// Telemetry
	fs.IntVar(&f.metricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port (0 = off)")
	fs.StringVar(&f.otelEndpoint, "otel-endpoint", "", "Export traces to this OTLP gRPC endpoint (host:port)")
	fs.BoolVar(&f.otelInsecure, "otel-insecure", false, "Use a plaintext OTLP connection")

	// Logging
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text, json")
	fs.BoolVar(&f.verbose, "v", false, "Mirror the run log to stderr")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: botprobe analyze [flags]")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Without targets the built-in bot-detection test sites are analyzed.")
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}
	return fs, f
}

// loadConfig reads the config file, then overrides it with the flags the
// user set explicitly.
func (f *analyzeFlags) loadConfig(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.OutputDir = f.outputDir
		case "formats":
			cfg.Formats = append([]string(nil), f.formats...)
		case "stealth":
			cfg.Stealth = f.stealth
		case "headed":
			cfg.Headless = !f.headed
		case "no-screenshot":
			cfg.Screenshot = !f.noScreenshot
		case "chrome":
			cfg.ExecPath = f.chrome
		case "proxy":
			cfg.Proxy = f.proxy
		case "locale":
			cfg.Locale = f.locale
		case "timezone":
			cfg.Timezone = f.timezone
		case "timeout":
			cfg.PageTimeout = f.timeout
		case "settle":
			cfg.SettleDelay = f.settle
		case "rate":
			cfg.Rate = f.rate
		case "metrics-port":
			cfg.MetricsPort = f.metricsPort
		case "otel-endpoint":
			cfg.OTelEndpoint = f.otelEndpoint
		case "otel-insecure":
			cfg.OTelInsecure = f.otelInsecure
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "log-format":
			cfg.LogFormat = f.logFormat
		}
	})
	if f.pdf && !cfg.HasFormat(report.FormatPDF) {
		cfg.Formats = append(cfg.Formats, report.FormatPDF)
	}

	if f.targets.Given() {
		if err := cfg.AddTargets(f.targets.TargetSource()); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runAnalyze(args []string, stdout io.Writer) int {
	fs, f := newAnalyzeFlagSet()
	if err := fs.Parse(args); err != nil {
		return flagExitCode(err)
	}
	f.output.Apply()

	cfg, err := f.loadConfig(fs)
	if err != nil {
		return reportError(err)
	}
	if err := cfg.Validate(); err != nil {
		return reportError(err)
	}

	ui.PrintBanner()
	printAnalyzeConfig(cfg)

	ctx, cancel := cli.SignalContext(duration.GracePeriod)
	defer cancel()

	opts := &cli.AnalyzeOptions{
		Config:     cfg,
		JSON:       f.jsonOut,
		EventsFile: f.events,
	}
	if f.verbose {
		opts.LogConsole = os.Stderr
	}
	return reportError(cli.NewRunner(stdout).Run(ctx, cli.CommandAnalyze, opts))
}

func printAnalyzeConfig(cfg *config.Config) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	ui.PrintSection("Configuration")
	ui.PrintConfig(map[string]string{
		"Sites":    fmt.Sprintf("%d", len(cfg.Targets)),
		"Headless": onOff(cfg.Headless),
		"Stealth":  onOff(cfg.Stealth),
		"Output":   cfg.OutputDir,
		"Timeout":  cfg.PageTimeout.String(),
		"Formats":  fmt.Sprintf("%v", cfg.Formats),
	})
}
