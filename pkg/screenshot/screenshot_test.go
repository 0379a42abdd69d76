package screenshot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if !config.Enabled {
		t.Error("expected screenshots enabled by default")
	}
	if !config.FullPage {
		t.Error("expected full-page capture by default")
	}
	if config.Format != FormatPNG {
		t.Errorf("expected Format PNG, got %s", config.Format)
	}
	if config.Quality != 100 {
		t.Errorf("expected Quality 100, got %d", config.Quality)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		site   string
		want   string
	}{
		{"png", Config{Dir: "out"}, "sannysoft", filepath.Join("out", "sannysoft_20250101_120000.png")},
		{"jpeg", Config{Dir: "out", Format: FormatJPEG}, "pixelscan", filepath.Join("out", "pixelscan_20250101_120000.jpg")},
		{"unsafe name", Config{Dir: "out"}, "https://a.b/c?d=e", filepath.Join("out", "a.b_c_d_e_20250101_120000.png")},
		{"empty name", Config{Dir: "out"}, "", filepath.Join("out", "site_20250101_120000.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Path(tt.site, "20250101_120000"); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	c := Config{Format: FormatJPEG, Quality: 0}.normalize()
	if c.Quality != 100 {
		t.Errorf("invalid quality should reset to 100, got %d", c.Quality)
	}
	c = Config{Format: FormatJPEG, Quality: 70}.normalize()
	if c.Quality != 70 {
		t.Errorf("valid JPEG quality should be kept, got %d", c.Quality)
	}
	c = Config{Format: FormatPNG, Quality: 70}.normalize()
	if c.Quality != 100 {
		t.Errorf("PNG always uses quality 100, got %d", c.Quality)
	}
	if c.Dir == "" {
		t.Error("normalize should fill Dir")
	}
}

func TestAction(t *testing.T) {
	var buf []byte
	if DefaultConfig().Action(&buf) == nil {
		t.Error("full-page action is nil")
	}
	if (Config{}).Action(&buf) == nil {
		t.Error("viewport action is nil")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "shot.png")

	if err := Save(path, []byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) != 4 {
		t.Errorf("expected 4 bytes, got %d", len(data))
	}

	if err := Save(filepath.Join(dir, "empty.png"), nil); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestGetExtension(t *testing.T) {
	if GetExtension(FormatPNG) != ".png" || GetExtension(FormatJPEG) != ".jpg" || GetExtension("") != ".png" {
		t.Error("unexpected extension mapping")
	}
}
