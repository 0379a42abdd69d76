package report

import (
	"time"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/fingerprint"
	"github.com/botprobe/botprobe/pkg/scoring"
)

// Mode records how the browser was driven for a run.
type Mode struct {
	Headless bool `json:"headless"`
	Stealth  bool `json:"stealth"`
}

// SiteResult is one successfully analyzed site.
type SiteResult struct {
	Name        string
	URL         string
	FinalURL    string
	Timestamp   time.Time
	Screenshot  string
	LoadTime    time.Duration
	Fingerprint *fingerprint.Record
	Score       int
	Level       scoring.Level
	Signals     []scoring.Signal
}

// NewSiteResult scores a capture.
func NewSiteResult(c *browser.Capture) SiteResult {
	res := scoring.Evaluate(c.Record)
	return SiteResult{
		Name:        c.Target.Name,
		URL:         c.Target.URL,
		FinalURL:    c.FinalURL,
		Timestamp:   c.CapturedAt,
		Screenshot:  c.Screenshot,
		LoadTime:    c.LoadTime,
		Fingerprint: c.Record,
		Score:       res.Score,
		Level:       res.Level,
		Signals:     res.Signals,
	}
}

// Fired returns the names of the rules that contributed to the score.
func (s SiteResult) Fired() []string {
	return scoring.Result{Score: s.Score, Level: s.Level, Signals: s.Signals}.Fired()
}

// Failure is a site that was skipped.
type Failure struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Run is the outcome of one batch.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Mode        Mode
	Sites       []SiteResult
	Failures    []Failure
	Interrupted bool
}

// Stamp is the timestamp used in output file names.
func (r *Run) Stamp() string {
	return r.StartedAt.Format(defaults.TimestampLayout)
}

// Succeeded reports whether at least one site was analyzed.
func (r *Run) Succeeded() bool {
	return len(r.Sites) > 0
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// LevelCounts counts analyzed sites per risk level.
func (r *Run) LevelCounts() map[scoring.Level]int {
	counts := map[scoring.Level]int{
		scoring.LevelLow:    0,
		scoring.LevelMedium: 0,
		scoring.LevelHigh:   0,
	}
	for _, s := range r.Sites {
		counts[s.Level]++
	}
	return counts
}
