package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/botprobe/botprobe/pkg/cli"
	"github.com/botprobe/botprobe/pkg/config"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/ui"
)

func runSelfCheck(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("selfcheck", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	outputDir := fs.String("o", "", "Output directory to probe (default from config)")
	chrome := fs.String("chrome", "", "Chrome/Chromium executable (default: autodetect)")
	quick := fs.Bool("quick", false, "Skip the network and browser checks")
	noNetwork := fs.Bool("no-network", false, "Skip the network check")
	noBrowser := fs.Bool("no-browser", false, "Skip the browser launch check")
	saveReport := fs.Bool("save-report", false, "Write the JSON health report")
	reportPath := fs.String("output", defaults.HealthReportPath, "Health report path")
	var out OutputFlags
	out.Register(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: botprobe selfcheck [flags]")
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return flagExitCode(err)
	}
	out.Apply()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return reportError(err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *chrome != "" {
		cfg.ExecPath = *chrome
	}

	ui.PrintBanner()
	ui.PrintSection("Self-check")

	ctx, cancel := cli.SignalContext(duration.GracePeriod)
	defer cancel()

	opts := &cli.SelfCheckOptions{
		Config:     cfg,
		Quick:      *quick,
		NoNetwork:  *noNetwork,
		NoBrowser:  *noBrowser,
		SaveReport: *saveReport,
		Output:     *reportPath,
	}
	return reportError(cli.NewRunner(stdout).Run(ctx, cli.CommandSelfCheck, opts))
}
