package runner

import "errors"

// Sentinel errors for runner failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrNoTargets indicates Run was called with an empty batch.
	ErrNoTargets = errors.New("runner: no targets")

	// ErrNoSiteAnalyzed indicates every site of the batch failed,
	// leaving nothing to report.
	ErrNoSiteAnalyzed = errors.New("runner: no site analyzed successfully")

	// ErrInterrupted indicates the run was cancelled before every site
	// was visited.
	ErrInterrupted = errors.New("runner: interrupted")
)
