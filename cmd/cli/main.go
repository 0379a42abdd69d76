// Command botprobe loads bot-detection test pages in an instrumented Chrome,
// fingerprints the browser and scores how automated it looks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/botprobe/botprobe/pkg/cli"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		return runAnalyze(nil, stdout)
	}

	name := args[0]
	// Bare flags run the default command.
	if len(name) > 1 && name[0] == '-' {
		if _, ok := cli.Lookup(name); !ok {
			return runAnalyze(args, stdout)
		}
	}

	cmd, ok := cli.Lookup(name)
	if !ok {
		ui.PrintError(fmt.Sprintf("unknown command %q", name))
		printUsage(os.Stderr)
		return defaults.ExitUserError
	}

	rest := args[1:]
	switch cmd {
	case cli.CommandAnalyze:
		return runAnalyze(rest, stdout)
	case cli.CommandScore:
		return runScore(rest, stdout)
	case cli.CommandSelfCheck:
		return runSelfCheck(rest, stdout)
	case cli.CommandVersion:
		return reportError(cli.NewRunner(stdout).Run(context.Background(), cmd, nil))
	case cli.CommandHelp:
		printUsage(stdout)
		return defaults.ExitSuccess
	}
	return defaults.ExitUserError
}

// flagExitCode maps a flag parse error. -h is not an error.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return defaults.ExitSuccess
	}
	return defaults.ExitUserError
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `botprobe %s - browser fingerprint bot-risk scorer

Usage:
  botprobe [analyze] [flags]     Visit test sites and score the browser fingerprint
  botprobe score [-f file]       Score a saved fingerprint export or raw record
  botprobe selfcheck [flags]     Check runtime, output dir, network and browser
  botprobe version               Print version information
  botprobe help                  Show this help

Aliases: run = analyze, health/check = selfcheck

Examples:
  botprobe
  botprobe analyze -u https://bot.sannysoft.com/ -stealth -pdf
  botprobe analyze -l sites.txt -rate 10 -metrics-port 9090
  botprobe score -f assets/bot_analysis/fingerprint_20260102_150405.json
  botprobe selfcheck -quick

Run "botprobe <command> -h" for the flags of a command.
`, defaults.Version)
}
