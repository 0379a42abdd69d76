// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all runtime configuration defaults.
//
// Usage:
//
//	cfg.OutputDir = defaults.OutputDir
//	opts = append(opts, chromedp.WindowSize(defaults.ViewportWidth, defaults.ViewportHeight))
//
// DO NOT use hardcoded values like `OutputDir: "assets"` anywhere.
// Instead, reference the appropriate constant from this package.
package defaults

// Version is the current botprobe version
const Version = "1.2.0"

// ToolName is used for service names, user agents and metric prefixes
const ToolName = "botprobe"

// ============================================================================
// OUTPUT LOCATIONS
// ============================================================================
//
// Use these for report, export, screenshot and log destinations.
// ============================================================================

const (
	// OutputDir is where reports, exports and screenshots are written
	OutputDir = "assets/bot_analysis"

	// HealthReportPath is the default self-check report location
	HealthReportPath = "assets/health_check_report.json"

	// LogFileName is the run log created inside OutputDir
	LogFileName = "botprobe.log"

	// TimestampLayout names output files (20260102_150405)
	TimestampLayout = "20060102_150405"
)

// ============================================================================
// BROWSER EMULATION
// ============================================================================
//
// The collector presents a fixed desktop profile so runs are comparable.
// ============================================================================

const (
	// ViewportWidth is the emulated window width
	ViewportWidth = 1920

	// ViewportHeight is the emulated window height
	ViewportHeight = 1080

	// UserAgent is the desktop Chrome UA presented to targets
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Locale is the emulated browser locale
	Locale = "tr-TR"

	// Timezone is the emulated IANA timezone
	Timezone = "Europe/Istanbul"
)

// ============================================================================
// PRE-FLIGHT
// ============================================================================

const (
	// MinGoVersion is the oldest runtime the self-check accepts
	MinGoVersion = "go1.22"

	// NetworkProbeURL is checked when no targets are configured
	NetworkProbeURL = "https://www.google.com"
)

// ============================================================================
// TELEMETRY
// ============================================================================

const (
	// MetricsPath is the Prometheus scrape path
	MetricsPath = "/metrics"

	// OTelEndpoint is the default OTLP gRPC collector address
	OTelEndpoint = "localhost:4317"
)

// Site is a named analysis target.
type Site struct {
	Name string
	URL  string
}

// Sites are the public bot-detection test pages analyzed when no targets
// are given.
var Sites = []Site{
	{Name: "sannysoft", URL: "https://bot.sannysoft.com/"},
	{Name: "pixelscan", URL: "https://pixelscan.net/"},
	{Name: "areyouheadless", URL: "https://arh.antoinevastel.com/bots/areyouheadless"},
	{Name: "deviceinfo", URL: "https://deviceandbrowserinfo.com/are_you_a_bot"},
}
