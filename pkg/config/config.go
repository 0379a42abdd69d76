// Package config holds the analyzer run configuration: a YAML file
// overridden by command-line flags, validated against pkg/defaults.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/input"
	"github.com/botprobe/botprobe/pkg/logging"
	"github.com/botprobe/botprobe/pkg/report"
)

// Target is a named site to analyze.
type Target struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds all analyzer configuration.
type Config struct {
	Targets []Target `yaml:"targets"`

	// Output
	OutputDir  string   `yaml:"output_dir"`
	Formats    []string `yaml:"formats"`
	Screenshot bool     `yaml:"screenshot"`

	// Browser
	Headless    bool          `yaml:"headless"`
	Stealth     bool          `yaml:"stealth"`
	ExecPath    string        `yaml:"exec_path"`
	Proxy       string        `yaml:"proxy"`
	UserAgent   string        `yaml:"user_agent"`
	Locale      string        `yaml:"locale"`
	Timezone    string        `yaml:"timezone"`
	PageTimeout time.Duration `yaml:"page_timeout"`
	SettleDelay time.Duration `yaml:"settle_delay"`

	// Pacing, visits per minute; 0 is unlimited
	Rate int `yaml:"rate"`

	// Telemetry
	MetricsPort  int    `yaml:"metrics_port"`
	OTelEndpoint string `yaml:"otel_endpoint"`
	OTelInsecure bool   `yaml:"otel_insecure"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file or flags are given.
// Targets stay empty until Validate fills in the built-in sites.
func Default() *Config {
	return &Config{
		OutputDir:   defaults.OutputDir,
		Formats:     []string{report.FormatText, report.FormatJSON},
		Screenshot:  true,
		Headless:    true,
		UserAgent:   defaults.UserAgent,
		Locale:      defaults.Locale,
		Timezone:    defaults.Timezone,
		PageTimeout: duration.BrowserPage,
		SettleDelay: duration.BrowserSettle,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads a YAML config file on top of Default. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// AddTargets appends targets gathered from flags, a list file or stdin.
func (c *Config) AddTargets(src *input.TargetSource) error {
	targets, err := src.GetTargets()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for _, t := range targets {
		c.Targets = append(c.Targets, Target{Name: t.Name, URL: t.URL})
	}
	return nil
}

// Validate fills defaults for unset fields and rejects invalid values.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		for _, s := range defaults.Sites {
			c.Targets = append(c.Targets, Target{Name: s.Name, URL: s.URL})
		}
	}

	names := make(map[string]bool, len(c.Targets))
	for i := range c.Targets {
		t := &c.Targets[i]
		if strings.TrimSpace(t.URL) == "" {
			return fmt.Errorf("%w: targets[%d].url", ErrMissingRequired, i)
		}
		u, err := url.Parse(t.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: target %q is not an http(s) URL", ErrInvalidConfig, t.URL)
		}
		if t.Name == "" {
			t.Name = input.SiteName(u.Hostname())
		}
		if names[t.Name] {
			return fmt.Errorf("%w: duplicate target name %q", ErrInvalidConfig, t.Name)
		}
		names[t.Name] = true
	}

	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{report.FormatText, report.FormatJSON}
	}
	for i, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case report.FormatText, report.FormatJSON, report.FormatPDF:
			c.Formats[i] = f
		default:
			return fmt.Errorf("%w: unknown report format %q", ErrInvalidConfig, f)
		}
	}

	if c.PageTimeout < 0 || c.SettleDelay < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if c.PageTimeout == 0 {
		c.PageTimeout = duration.BrowserPage
	}
	if c.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidConfig)
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("%w: metrics port %d out of range", ErrInvalidConfig, c.MetricsPort)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
		}
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("%w: proxy %q: %v", ErrInvalidConfig, c.Proxy, err)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// HasFormat reports whether the report format f was requested.
func (c *Config) HasFormat(f string) bool {
	for _, x := range c.Formats {
		if x == f {
			return true
		}
	}
	return false
}

// BrowserTargets converts the configured targets for the collector.
func (c *Config) BrowserTargets() []browser.Target {
	out := make([]browser.Target, len(c.Targets))
	for i, t := range c.Targets {
		out[i] = browser.Target{Name: t.Name, URL: t.URL}
	}
	return out
}

// BrowserConfig builds the collector configuration.
func (c *Config) BrowserConfig(logger *slog.Logger) *browser.Config {
	bc := browser.DefaultConfig()
	bc.Headless = c.Headless
	bc.Stealth = c.Stealth
	bc.ExecPath = c.ExecPath
	bc.Proxy = c.Proxy
	if c.UserAgent != "" {
		bc.UserAgent = c.UserAgent
	}
	bc.Locale = c.Locale
	bc.Timezone = c.Timezone
	bc.PageTimeout = c.PageTimeout
	bc.SettleDelay = c.SettleDelay
	bc.Screenshot.Enabled = c.Screenshot
	bc.Screenshot.Dir = c.OutputDir
	bc.Logger = logger
	return bc
}
