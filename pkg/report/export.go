package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/botprobe/botprobe/pkg/fingerprint"
	"github.com/botprobe/botprobe/pkg/jsonutil"
	"github.com/botprobe/botprobe/pkg/scoring"
)

// ErrMalformedExport is returned when some top-level entries look like
// export sites and others do not.
var ErrMalformedExport = errors.New("report: malformed export")

// SiteExport is one site entry of the JSON export.
type SiteExport struct {
	URL           string         `json:"url"`
	FinalURL      string         `json:"final_url,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Screenshot    string         `json:"screenshot,omitempty"`
	LoadTimeMs    int64          `json:"load_time_ms"`
	FingerprintID string         `json:"fingerprint_id"`
	Fingerprint   map[string]any `json:"fingerprint"`
	RiskScore     int            `json:"risk_score"`
	RiskLevel     scoring.Level  `json:"risk_level"`
	Signals       []string       `json:"signals"`
}

// Export builds the site-keyed export of run.
func Export(run *Run) map[string]SiteExport {
	out := make(map[string]SiteExport, len(run.Sites))
	for _, s := range run.Sites {
		fired := s.Fired()
		if fired == nil {
			fired = []string{}
		}
		out[s.Name] = SiteExport{
			URL:           s.URL,
			FinalURL:      s.FinalURL,
			Timestamp:     s.Timestamp,
			Screenshot:    s.Screenshot,
			LoadTimeMs:    s.LoadTime.Milliseconds(),
			FingerprintID: s.Fingerprint.ID(),
			Fingerprint:   rawMap(s.Fingerprint),
			RiskScore:     s.Score,
			RiskLevel:     s.Level,
			Signals:       fired,
		}
	}
	return out
}

// rawMap returns the full probe output, or the typed fields re-encoded
// when the record was built without one.
func rawMap(r *fingerprint.Record) map[string]any {
	if r == nil {
		return map[string]any{}
	}
	if r.Raw != nil {
		return r.Raw
	}
	m := map[string]any{}
	if data, err := jsonutil.Marshal(r); err == nil {
		_ = jsonutil.Unmarshal(data, &m)
	}
	return m
}

// WriteJSON writes the run export as indented JSON with sites in name order.
func WriteJSON(w io.Writer, run *Run) error {
	data, err := jsonutil.MarshalIndent(Export(run), "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ParseExport reads fingerprints for offline scoring. data is an export
// when every top-level value is an object with a "fingerprint" object
// member; the site names are then free-form. Any other object, including
// {}, is a single raw fingerprint returned under the key "fingerprint".
// Duplicate names and invalid UTF-8 are tolerated.
func ParseExport(data []byte) (map[string]*fingerprint.Record, error) {
	var v any
	if err := jsonutil.UnmarshalLenient(data, &v); err != nil {
		return nil, fmt.Errorf("report: invalid JSON: %w", err)
	}
	top, ok := v.(map[string]any)
	if !ok {
		return nil, fingerprint.ErrNotObject
	}

	sites := make(map[string]*fingerprint.Record, len(top))
	for name, entry := range top {
		if fp, ok := exportedFingerprint(entry); ok {
			sites[name] = fingerprint.FromMap(fp)
		}
	}
	switch {
	case len(sites) == 0:
		return map[string]*fingerprint.Record{"fingerprint": fingerprint.FromMap(top)}, nil
	case len(sites) < len(top):
		return nil, fmt.Errorf("%w: %d of %d entries lack a fingerprint object",
			ErrMalformedExport, len(top)-len(sites), len(top))
	}
	return sites, nil
}

// exportedFingerprint returns entry["fingerprint"] when entry is a site
// entry of an export.
func exportedFingerprint(entry any) (map[string]any, bool) {
	site, ok := entry.(map[string]any)
	if !ok {
		return nil, false
	}
	fp, ok := site["fingerprint"].(map[string]any)
	return fp, ok
}

// SortedNames returns the keys of m in order.
func SortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
