// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.BrowserPage)
//	chromedp.Sleep(duration.BrowserSettle)
//
// DO NOT use hardcoded time.Duration values like `30 * time.Second` anywhere.
// Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// HTTP CLIENT TIMEOUTS
// ============================================================================

// HTTPProbing is for reachability checks and the metrics server read timeout (5s)
const HTTPProbing = 5 * time.Second

// ============================================================================
// BROWSER/HEADLESS TIMEOUTS
// ============================================================================
//
// Use these for chromedp operations.
// ============================================================================

const (
	// BrowserPage is for page load timeout (30s)
	BrowserPage = 30 * time.Second

	// BrowserSettle is the wait after load before probing (3s)
	BrowserSettle = 3 * time.Second

	// BrowserLaunch bounds the self-check launch probe (20s)
	BrowserLaunch = 20 * time.Second

	// BrowserShutdown bounds graceful browser teardown before a force kill (5s)
	BrowserShutdown = 5 * time.Second
)

// ============================================================================
// SHUTDOWN / TELEMETRY
// ============================================================================

const (
	// GracePeriod is how long a second interrupt is awaited (10s)
	GracePeriod = 10 * time.Second

	// ExporterShutdown bounds metrics server / tracer shutdown (5s)
	ExporterShutdown = 5 * time.Second

	// ExporterConnect bounds OTLP exporter creation (10s)
	ExporterConnect = 10 * time.Second

	// MetricsWrite is the metrics server write timeout (10s)
	MetricsWrite = 10 * time.Second
)
