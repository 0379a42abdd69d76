// Package cli implements the botprobe subcommands. cmd/cli parses flags
// into the option structs here and maps returned errors to exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Command represents a CLI command.
type Command string

const (
	CommandAnalyze   Command = "analyze"
	CommandScore     Command = "score"
	CommandSelfCheck Command = "selfcheck"
	CommandVersion   Command = "version"
	CommandHelp      Command = "help"
)

// Sentinel errors returned by the commands.
var (
	ErrUnknownCommand = errors.New("cli: unknown command")
	ErrBadOptions     = errors.New("cli: wrong options for command")
	ErrSelfCheck      = errors.New("cli: self-check failed")
)

// aliases maps alternate spellings to commands.
var aliases = map[string]Command{
	"run":    CommandAnalyze,
	"health": CommandSelfCheck,
	"check":  CommandSelfCheck,
	"-v":     CommandVersion,
	"-h":     CommandHelp,
	"--help": CommandHelp,
	"--version": CommandVersion,
}

// Commands returns the list of available commands.
func Commands() []Command {
	return []Command{
		CommandAnalyze,
		CommandScore,
		CommandSelfCheck,
		CommandVersion,
		CommandHelp,
	}
}

// Lookup resolves a command name or alias.
func Lookup(name string) (Command, bool) {
	for _, c := range Commands() {
		if string(c) == name {
			return c, true
		}
	}
	c, ok := aliases[name]
	return c, ok
}

// Runner executes commands against one output writer.
type Runner struct {
	writer io.Writer
}

// NewRunner creates a runner writing command output to w (stdout if nil).
func NewRunner(w io.Writer) *Runner {
	if w == nil {
		w = os.Stdout
	}
	return &Runner{writer: w}
}

// Run executes cmd. opts must be the matching *XOptions.
func (r *Runner) Run(ctx context.Context, cmd Command, opts any) error {
	switch cmd {
	case CommandAnalyze:
		o, ok := opts.(*AnalyzeOptions)
		if !ok || o == nil {
			return fmt.Errorf("%w: %s", ErrBadOptions, cmd)
		}
		_, err := RunAnalyze(ctx, o, r.writer)
		return err
	case CommandScore:
		o, ok := opts.(*ScoreOptions)
		if !ok || o == nil {
			return fmt.Errorf("%w: %s", ErrBadOptions, cmd)
		}
		_, err := RunScore(o, r.writer)
		return err
	case CommandSelfCheck:
		o, ok := opts.(*SelfCheckOptions)
		if !ok || o == nil {
			return fmt.Errorf("%w: %s", ErrBadOptions, cmd)
		}
		_, err := RunSelfCheck(ctx, o, r.writer)
		return err
	case CommandVersion:
		return RunVersion(r.writer)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}
