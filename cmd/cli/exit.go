package main

import (
	"errors"

	"github.com/botprobe/botprobe/pkg/cli"
	"github.com/botprobe/botprobe/pkg/config"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/input"
	"github.com/botprobe/botprobe/pkg/logging"
	"github.com/botprobe/botprobe/pkg/runner"
	"github.com/botprobe/botprobe/pkg/ui"
)

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return defaults.ExitSuccess
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrMissingRequired),
		errors.Is(err, input.ErrNoTargets),
		errors.Is(err, logging.ErrLevel),
		errors.Is(err, cli.ErrBadOptions),
		errors.Is(err, cli.ErrUnknownCommand):
		return defaults.ExitUserError
	case errors.Is(err, cli.ErrSelfCheck):
		return defaults.ExitNoResults
	}
	code, _ := runner.ExitCode(err)
	return code
}

// reportError prints err unless it is a run verdict the UI already showed,
// and returns its exit code.
func reportError(err error) int {
	code := exitCode(err)
	if err != nil && !errors.Is(err, runner.ErrNoSiteAnalyzed) &&
		!errors.Is(err, runner.ErrInterrupted) && !errors.Is(err, cli.ErrSelfCheck) {
		ui.PrintError(err.Error())
	}
	return code
}
