package main

import (
	"flag"
	"os"

	"github.com/botprobe/botprobe/pkg/input"
	"github.com/botprobe/botprobe/pkg/ui"
)

// TargetFlags holds the target selection flags shared by analyze and selfcheck.
type TargetFlags struct {
	Targets  input.StringSliceFlag
	ListFile string
	Stdin    bool
}

// Register binds the target flags to fs.
func (tf *TargetFlags) Register(fs *flag.FlagSet) {
	fs.Var(&tf.Targets, "u", "Target URL(s), comma-separated or repeated; name=url sets the site name")
	fs.Var(&tf.Targets, "target", "Target URL(s) (alias of -u)")
	fs.StringVar(&tf.ListFile, "l", "", "File with one target per line")
	fs.BoolVar(&tf.Stdin, "stdin", false, "Read targets from stdin")
}

// Given reports whether any target source was set.
func (tf *TargetFlags) Given() bool {
	return len(tf.Targets) > 0 || tf.ListFile != "" || tf.Stdin
}

// TargetSource creates an input.TargetSource from the flags.
func (tf *TargetFlags) TargetSource() *input.TargetSource {
	src := &input.TargetSource{
		URLs:     tf.Targets,
		ListFile: tf.ListFile,
	}
	if tf.Stdin {
		src.Stdin = input.StdinIfPiped()
	}
	return src
}

// OutputFlags holds terminal output flags.
type OutputFlags struct {
	NoColor bool
	Silent  bool
}

// Register binds the output flags to fs.
func (of *OutputFlags) Register(fs *flag.FlagSet) {
	fs.BoolVar(&of.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&of.Silent, "silent", false, "Only print the report and errors")
}

// Apply sets the UI state. NO_COLOR in the environment also disables color.
func (of *OutputFlags) Apply() {
	if of.NoColor || os.Getenv("NO_COLOR") != "" {
		ui.SetNoColor(true)
	}
	ui.SetSilent(of.Silent)
}
