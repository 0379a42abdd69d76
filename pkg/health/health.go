// Package health runs pre-flight checks before an analysis run
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/botprobe/botprobe/pkg/jsonutil"
)

// Common errors
var (
	ErrNoChecks = errors.New("health: no checks registered")
)

// Status represents the outcome of one check
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Result represents a single check result
type Result struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Detail    string        `json:"detail"`
	Latency   time.Duration `json:"latency,format:units"`
	CheckedAt time.Time     `json:"checked_at"`
}

// IsBlocking reports whether the result fails the self-check
func (r *Result) IsBlocking() bool {
	return r.Status == StatusError
}

// Probe runs one check and returns its status and a human-readable detail
type Probe func(ctx context.Context) (Status, string)

// Check is a named probe
type Check struct {
	Name  string
	Probe Probe
	// Group lets options skip related checks ("network", "browser")
	Group string
}

// Summary counts results by status
type Summary struct {
	TotalChecks int `json:"total_checks"`
	Passed      int `json:"passed"`
	Warnings    int `json:"warnings"`
	Errors      int `json:"errors"`
	Skipped     int `json:"skipped"`
}

// Report is the aggregated outcome of a self-check
type Report struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Summary   Summary   `json:"summary"`
	Results   []Result  `json:"results"`
}

// Errors returns the results in error state
func (r *Report) Errors() []Result {
	return r.filter(StatusError)
}

// Warnings returns the results in warning state
func (r *Report) Warnings() []Result {
	return r.filter(StatusWarning)
}

func (r *Report) filter(s Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}

// Save writes the report as indented JSON, creating parent directories
func (r *Report) Save(path string) error {
	data, err := jsonutil.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("health: encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("health: create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("health: write report: %w", err)
	}
	return nil
}

// summarize computes counts and the overall verdict: success iff no check
// is in error state. Warnings and skips never block.
func summarize(results []Result) (Summary, bool) {
	s := Summary{TotalChecks: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.Passed++
		case StatusWarning:
			s.Warnings++
		case StatusError:
			s.Errors++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s, s.Errors == 0
}

// Checker runs registered checks
type Checker struct {
	checks     []Check
	skip       map[string]bool
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
	mu         sync.Mutex
	onResult   func(Result)
}

// NewChecker creates an empty checker. Use AddCheck or NewDefaultChecker.
func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		skip:   make(map[string]bool),
		logger: logger,
		now:    time.Now,
	}
}

// AddCheck registers a check
func (c *Checker) AddCheck(check Check) error {
	if check.Name == "" {
		return errors.New("health: check name is required")
	}
	if check.Probe == nil {
		return fmt.Errorf("health: check %s has no probe", check.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
	return nil
}

// SkipGroup marks a check group as skipped
func (c *Checker) SkipGroup(group string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skip[group] = true
}

// OnResult sets a callback invoked after each check, in run order
func (c *Checker) OnResult(fn func(Result)) {
	c.onResult = fn
}

// Checks returns the names of registered checks in order
func (c *Checker) Checks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.checks))
	for i, ch := range c.checks {
		names[i] = ch.Name
	}
	return names
}

// Run executes every check in registration order and aggregates results.
// Checks are independent: one failing never prevents the rest from running.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	c.mu.Lock()
	checks := make([]Check, len(c.checks))
	copy(checks, c.checks)
	skip := make(map[string]bool, len(c.skip))
	for k, v := range c.skip {
		skip[k] = v
	}
	c.mu.Unlock()

	if len(checks) == 0 {
		return nil, ErrNoChecks
	}

	report := &Report{Timestamp: c.now()}
	for _, check := range checks {
		res := c.runOne(ctx, check, skip[check.Group])
		report.Results = append(report.Results, res)
		if c.onResult != nil {
			c.onResult(res)
		}
	}
	report.Summary, report.Success = summarize(report.Results)
	return report, nil
}

func (c *Checker) runOne(ctx context.Context, check Check, skipped bool) Result {
	res := Result{Name: check.Name, CheckedAt: c.now()}
	if skipped {
		res.Status = StatusSkipped
		res.Detail = "skipped"
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Status = StatusError
		res.Detail = fmt.Sprintf("not run: %v", err)
		return res
	}

	start := time.Now()
	func() {
		defer func() {
			if p := recover(); p != nil {
				res.Status = StatusError
				res.Detail = fmt.Sprintf("check panicked: %v", p)
			}
		}()
		res.Status, res.Detail = check.Probe(ctx)
	}()
	res.Latency = time.Since(start)

	c.logger.Debug("health check", "check", res.Name, "status", res.Status, "detail", res.Detail, "latency", res.Latency)
	return res
}
