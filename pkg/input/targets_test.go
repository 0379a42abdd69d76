package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTargetSource_FromURLs(t *testing.T) {
	ts := &TargetSource{
		URLs: []string{"https://bot.sannysoft.com/", "pixelscan.net", "https://bot.sannysoft.com/"},
	}

	targets, err := ts.GetTargets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d: %v", len(targets), targets)
	}
	if targets[0].Name != "sannysoft" {
		t.Errorf("expected name sannysoft, got %q", targets[0].Name)
	}
	if targets[1].URL != "https://pixelscan.net" {
		t.Errorf("expected scheme to be added, got %q", targets[1].URL)
	}
}

func TestTargetSource_FromFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "targets.txt")
	content := "https://a.com\nlocal=http://127.0.0.1:8080/page\n# comment\n\nhttps://c.co.uk/x"
	if err := os.WriteFile(tmpFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	targets, err := (&TargetSource{ListFile: tmpFile}).GetTargets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}
	want := []string{"a", "local", "c"}
	for i, name := range want {
		if targets[i].Name != name {
			t.Errorf("target %d name = %q, want %q", i, targets[i].Name, name)
		}
	}
}

func TestTargetSource_MissingFile(t *testing.T) {
	_, err := (&TargetSource{ListFile: filepath.Join(t.TempDir(), "nope.txt")}).GetTargets()
	if err == nil {
		t.Error("expected error for missing list file")
	}
}

func TestTargetSource_Stdin(t *testing.T) {
	ts := &TargetSource{Stdin: strings.NewReader("https://a.com/1\nhttps://a.com/2\n")}
	targets, err := ts.GetTargets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].Name != "a" || targets[1].Name != "a_2" {
		t.Errorf("duplicate names must be suffixed, got %q and %q", targets[0].Name, targets[1].Name)
	}
}

func TestTargetSource_Empty(t *testing.T) {
	ts := &TargetSource{Stdin: strings.NewReader("# only a comment\n\n")}
	if _, err := ts.GetTargets(); !errors.Is(err, ErrNoTargets) {
		t.Errorf("expected ErrNoTargets, got %v", err)
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		entry    string
		wantName string
		wantURL  string
		wantErr  bool
	}{
		{"https://arh.antoinevastel.com/bots/areyouheadless", "antoinevastel", "https://arh.antoinevastel.com/bots/areyouheadless", false},
		{"deviceinfo=https://deviceandbrowserinfo.com/are_you_a_bot", "deviceinfo", "https://deviceandbrowserinfo.com/are_you_a_bot", false},
		{"https://example.com/?q=a=b", "example", "https://example.com/?q=a=b", false},
		{"localhost:9222", "localhost", "https://localhost:9222", false},
		{"https://", "", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTarget(tt.entry)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTarget(%q) expected error", tt.entry)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTarget(%q) error = %v", tt.entry, err)
			continue
		}
		if got.Name != tt.wantName || got.URL != tt.wantURL {
			t.Errorf("ParseTarget(%q) = %+v, want {%s %s}", tt.entry, got, tt.wantName, tt.wantURL)
		}
	}
}

func TestSiteName(t *testing.T) {
	tests := map[string]string{
		"bot.sannysoft.com":         "sannysoft",
		"pixelscan.net":             "pixelscan",
		"www.example.co.uk":         "example",
		"127.0.0.1":                 "127_0_0_1",
		"localhost":                 "localhost",
		"deviceandbrowserinfo.com.": "deviceandbrowserinfo",
	}
	for host, want := range tests {
		if got := SiteName(host); got != want {
			t.Errorf("SiteName(%q) = %q, want %q", host, got, want)
		}
	}
}
