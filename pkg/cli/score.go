package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/botprobe/botprobe/pkg/jsonutil"
	"github.com/botprobe/botprobe/pkg/report"
	"github.com/botprobe/botprobe/pkg/scoring"
	"github.com/botprobe/botprobe/pkg/ui"
)

// ScoreOptions configures offline scoring of saved fingerprints.
type ScoreOptions struct {
	// File is a raw fingerprint or a fingerprint_data export. Empty or "-"
	// reads Input.
	File  string
	Input io.Reader

	// JSON prints machine-readable results instead of text lines.
	JSON bool
}

// Scored is one rescored fingerprint.
type Scored struct {
	Name          string           `json:"name"`
	FingerprintID string           `json:"fingerprint_id"`
	Score         int              `json:"score"`
	Level         scoring.Level    `json:"level"`
	Signals       []scoring.Signal `json:"signals"`
}

// RunScore scores every fingerprint in the input, sorted by name.
func RunScore(opts *ScoreOptions, w io.Writer) ([]Scored, error) {
	data, err := readScoreInput(opts)
	if err != nil {
		return nil, err
	}
	records, err := report.ParseExport(data)
	if err != nil {
		return nil, err
	}

	results := make([]Scored, 0, len(records))
	for _, name := range report.SortedNames(records) {
		rec := records[name]
		res := scoring.Evaluate(rec)
		results = append(results, Scored{
			Name:          name,
			FingerprintID: rec.ID(),
			Score:         res.Score,
			Level:         res.Level,
			Signals:       res.Signals,
		})
	}

	if opts.JSON {
		out, err := jsonutil.MarshalIndent(results, "", "  ")
		if err != nil {
			return nil, err
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return results, err
	}

	for _, s := range results {
		var fired []string
		for _, sig := range s.Signals {
			if sig.Fired {
				fired = append(fired, fmt.Sprintf("%s(+%d)", sig.Name, sig.Weight))
			}
		}
		if len(fired) == 0 {
			fired = []string{"none"}
		}
		fmt.Fprintf(w, "%s: %d/%d %s  fired: %s\n",
			s.Name, s.Score, scoring.MaxScore, ui.RiskBadge(s.Level), strings.Join(fired, ", "))
	}
	return results, nil
}

func readScoreInput(opts *ScoreOptions) ([]byte, error) {
	if opts.File != "" && opts.File != "-" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("read fingerprint file: %w", err)
		}
		return data, nil
	}
	if opts.Input == nil {
		return nil, fmt.Errorf("%w: no fingerprint file given", ErrBadOptions)
	}
	data, err := io.ReadAll(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("read fingerprint input: %w", err)
	}
	return data, nil
}
