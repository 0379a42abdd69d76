package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Output formats accepted by Save.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Paths are the files one Save call wrote, empty when not requested.
type Paths struct {
	Text string
	JSON string
	PDF  string
}

// All returns the written paths in write order.
func (p Paths) All() []string {
	var out []string
	for _, s := range []string{p.Text, p.JSON, p.PDF} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FileName returns the output file name for a format and run timestamp.
func FileName(format, stamp string) string {
	switch format {
	case FormatText:
		return "analysis_report_" + stamp + ".txt"
	case FormatJSON:
		return "fingerprint_data_" + stamp + ".json"
	case FormatPDF:
		return "analysis_report_" + stamp + ".pdf"
	}
	return ""
}

// Save writes the requested formats for run into dir.
func Save(dir string, run *Run, formats []string) (Paths, error) {
	var paths Paths
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("create output dir: %w", err)
	}
	stamp := run.Stamp()

	for _, format := range formats {
		path := filepath.Join(dir, FileName(format, stamp))
		switch format {
		case FormatText:
			text, err := RenderText(run)
			if err != nil {
				return paths, err
			}
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				return paths, fmt.Errorf("write text report: %w", err)
			}
			paths.Text = path
		case FormatJSON:
			if err := writeJSONFile(path, run); err != nil {
				return paths, err
			}
			paths.JSON = path
		case FormatPDF:
			if err := WritePDF(path, run); err != nil {
				return paths, err
			}
			paths.PDF = path
		default:
			return paths, fmt.Errorf("report: unknown format %q", format)
		}
	}
	return paths, nil
}

func writeJSONFile(path string, run *Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	if err := WriteJSON(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
