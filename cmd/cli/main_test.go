package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botprobe/botprobe/pkg/cli"
	"github.com/botprobe/botprobe/pkg/config"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/input"
	"github.com/botprobe/botprobe/pkg/report"
	"github.com/botprobe/botprobe/pkg/runner"
	"github.com/botprobe/botprobe/pkg/ui"
)

func init() {
	ui.SetNoColor(true)
	ui.SetOutput(io.Discard)
}

func TestRun_Version(t *testing.T) {
	for _, arg := range []string{"version", "--version", "-v"} {
		var buf bytes.Buffer
		code := run([]string{arg}, &buf)
		assert.Equal(t, defaults.ExitSuccess, code, arg)
		assert.Contains(t, buf.String(), "botprobe "+defaults.Version, arg)
	}
}

func TestRun_Help(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, defaults.ExitSuccess, run([]string{"help"}, &buf))
	assert.Contains(t, buf.String(), "botprobe score")
	assert.Contains(t, buf.String(), "botprobe selfcheck")
}

func TestRun_UnknownCommand(t *testing.T) {
	assert.Equal(t, defaults.ExitUserError, run([]string{"frobnicate"}, io.Discard))
}

func TestRun_AnalyzeRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative rate", []string{"analyze", "-rate", "-1"}},
		{"unknown format", []string{"analyze", "-formats", "docx"}},
		{"bad log level", []string{"run", "-log-level", "loud"}},
		{"bad timezone", []string{"analyze", "-timezone", "Mars/Olympus"}},
		{"unknown flag", []string{"analyze", "-nope"}},
		{"missing config", []string{"analyze", "-config", filepath.Join(t.TempDir(), "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := silenceFlags(t)
			defer restore()
			assert.NotEqual(t, defaults.ExitSuccess, run(tt.args, io.Discard))
		})
	}
}

func TestRun_AnalyzeInvalidConfigIsUserError(t *testing.T) {
	assert.Equal(t, defaults.ExitUserError, run([]string{"analyze", "-rate", "-1"}, io.Discard))
}

func TestAnalyzeFlags_OverrideOnlyWhenSet(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "botprobe.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
output_dir: from-file
stealth: true
rate: 5
targets:
  - name: sannysoft
    url: https://bot.sannysoft.com/
`), 0o644))

	fs, f := newAnalyzeFlagSet()
	require.NoError(t, fs.Parse([]string{
		"-config", cfgPath,
		"-timeout", "12s",
		"-headed",
		"-pdf",
		"-u", "https://pixelscan.net/",
	}))
	cfg, err := f.loadConfig(fs)
	require.NoError(t, err)

	// file values survive when the flag was not given
	assert.Equal(t, "from-file", cfg.OutputDir)
	assert.True(t, cfg.Stealth)
	assert.Equal(t, 5, cfg.Rate)

	assert.Equal(t, 12*time.Second, cfg.PageTimeout)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.HasFormat(report.FormatPDF))
	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "pixelscan", cfg.Targets[1].Name)
}

func TestAnalyzeFlags_Defaults(t *testing.T) {
	fs, f := newAnalyzeFlagSet()
	require.NoError(t, fs.Parse(nil))
	cfg, err := f.loadConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, defaults.OutputDir, cfg.OutputDir)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.Screenshot)
	assert.Empty(t, cfg.Targets)
	assert.False(t, cfg.HasFormat(report.FormatPDF))
}

func TestRun_Score(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"webdriver": {"present": true}, "plugins": {"count": 3}, "hardware": {"hardwareConcurrency": 8, "maxTouchPoints": 2}, "canvas": "data:image/png;base64,AAAA"}`), 0o644))

	var buf bytes.Buffer
	code := run([]string{"score", path}, &buf)
	assert.Equal(t, defaults.ExitSuccess, code)
	assert.Contains(t, buf.String(), "3/10")
	assert.Contains(t, buf.String(), "webdriver(+3)")
}

func TestRun_ScoreMissingFile(t *testing.T) {
	code := run([]string{"score", "-f", filepath.Join(t.TempDir(), "missing.json")}, io.Discard)
	assert.NotEqual(t, defaults.ExitSuccess, code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, defaults.ExitSuccess},
		{fmt.Errorf("load: %w", config.ErrInvalidConfig), defaults.ExitUserError},
		{input.ErrNoTargets, defaults.ExitUserError},
		{cli.ErrBadOptions, defaults.ExitUserError},
		{cli.ErrSelfCheck, defaults.ExitNoResults},
		{runner.ErrNoSiteAnalyzed, defaults.ExitNoResults},
		{runner.ErrInterrupted, defaults.ExitInterrupted},
		{errors.New("disk on fire"), defaults.ExitInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}

	assert.Equal(t, defaults.ExitUserError, flagExitCode(assert.AnError))
	assert.Equal(t, defaults.ExitSuccess, flagExitCode(flag.ErrHelp))
}

// silenceFlags routes flag usage output away from the test log.
func silenceFlags(t *testing.T) func() {
	t.Helper()
	prev := os.Stderr
	devnull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	os.Stderr = devnull
	return func() {
		os.Stderr = prev
		devnull.Close()
	}
}
