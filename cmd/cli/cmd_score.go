package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/botprobe/botprobe/pkg/cli"
)

func runScore(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	file := fs.String("f", "", "Fingerprint export or raw record (default: stdin)")
	jsonOut := fs.Bool("json", false, "Print results as JSON")
	var out OutputFlags
	out.Register(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: botprobe score [-f file | file] [flags]")
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return flagExitCode(err)
	}
	out.Apply()

	path := *file
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	opts := &cli.ScoreOptions{File: path, JSON: *jsonOut}
	if path == "" || path == "-" {
		opts.Input = os.Stdin
	}
	return reportError(cli.NewRunner(stdout).Run(context.Background(), cli.CommandScore, opts))
}
