// Package browser drives a Chrome instance to collect page fingerprints
package browser

import (
	"log/slog"
	"time"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/fingerprint"
	"github.com/botprobe/botprobe/pkg/screenshot"
)

// Config configures the browser session opened for each site
type Config struct {
	Headless bool // Run without a visible window
	Stealth  bool // Hide automation markers

	ExecPath  string // Chrome binary; empty uses PATH lookup
	Proxy     string // Proxy server URL
	UserAgent string
	Locale    string // e.g. "tr-TR"
	Timezone  string // IANA name, e.g. "Europe/Istanbul"

	ViewportWidth  int
	ViewportHeight int

	PageTimeout time.Duration // Navigation timeout
	SettleDelay time.Duration // Wait after load before probing

	Screenshot screenshot.Config

	// ExtraFlags are passed to Chrome as --name=value
	ExtraFlags map[string]any

	Logger *slog.Logger
}

// DefaultConfig returns the fixed desktop profile used for analysis runs
func DefaultConfig() *Config {
	return &Config{
		Headless:       true,
		UserAgent:      defaults.UserAgent,
		Locale:         defaults.Locale,
		Timezone:       defaults.Timezone,
		ViewportWidth:  defaults.ViewportWidth,
		ViewportHeight: defaults.ViewportHeight,
		PageTimeout:    duration.BrowserPage,
		SettleDelay:    duration.BrowserSettle,
		Screenshot:     screenshot.DefaultConfig(),
	}
}

func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	cp := *c
	d := DefaultConfig()
	if cp.UserAgent == "" {
		cp.UserAgent = d.UserAgent
	}
	if cp.ViewportWidth <= 0 || cp.ViewportHeight <= 0 {
		cp.ViewportWidth, cp.ViewportHeight = d.ViewportWidth, d.ViewportHeight
	}
	if cp.PageTimeout <= 0 {
		cp.PageTimeout = d.PageTimeout
	}
	if cp.SettleDelay < 0 {
		cp.SettleDelay = 0
	}
	return &cp
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Target is one site to analyze
type Target struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Capture is what one successful site visit produced
type Capture struct {
	Target     Target
	Record     *fingerprint.Record
	Screenshot string // file path, empty when disabled or failed
	FinalURL   string
	LoadTime   time.Duration
	CapturedAt time.Time
}
