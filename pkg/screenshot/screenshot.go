// Package screenshot builds and stores page screenshots for analysis runs
package screenshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/botprobe/botprobe/pkg/defaults"
)

// Config configures screenshot capture
type Config struct {
	Enabled  bool   // Capture at all
	Dir      string // Output directory
	FullPage bool   // Capture the full scrollable page
	Quality  int    // JPEG quality (1-100); 100 selects PNG
	Format   Format // Output format
}

// Format represents output format
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultConfig returns full-page PNG capture into the default output directory
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Dir:      defaults.OutputDir,
		FullPage: true,
		Quality:  100,
		Format:   FormatPNG,
	}
}

// normalize fills zero values
func (c Config) normalize() Config {
	if c.Dir == "" {
		c.Dir = defaults.OutputDir
	}
	if c.Format == "" {
		c.Format = FormatPNG
	}
	if c.Format == FormatPNG || c.Quality <= 0 || c.Quality > 100 {
		c.Quality = 100
	}
	return c
}

// Path returns <dir>/<site>_<timestamp><ext>
func (c Config) Path(site, timestamp string) string {
	c = c.normalize()
	return filepath.Join(c.Dir, sanitizeFilename(site)+"_"+timestamp+GetExtension(c.Format))
}

// Action returns the chromedp action that captures the current page into buf
func (c Config) Action(buf *[]byte) chromedp.Action {
	c = c.normalize()
	if c.FullPage {
		// quality 100 captures PNG, anything lower captures JPEG
		return chromedp.FullScreenshot(buf, c.Quality)
	}
	return chromedp.CaptureScreenshot(buf)
}

// Save writes data to path, creating parent directories
func Save(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("screenshot: empty image for %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("screenshot: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("screenshot: write: %w", err)
	}
	return nil
}

// GetExtension returns the file extension for a format
func GetExtension(format Format) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	default:
		return ".png"
	}
}

func sanitizeFilename(name string) string {
	s := strings.TrimPrefix(name, "https://")
	s = strings.TrimPrefix(s, "http://")

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"?", "_",
		"&", "_",
		"=", "_",
		"#", "_",
		" ", "_",
	)
	s = strings.Trim(replacer.Replace(s), "_")

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "site"
	}
	return s
}
