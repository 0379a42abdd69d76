package defaults_test

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/ui"
)

// TestVersionConsistency ensures all version references match defaults.Version
func TestVersionConsistency(t *testing.T) {
	if ui.Version != defaults.Version {
		t.Errorf("ui.Version (%s) != defaults.Version (%s)", ui.Version, defaults.Version)
	}

	semverPattern := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9]+)?$`)
	if !semverPattern.MatchString(defaults.Version) {
		t.Errorf("defaults.Version (%s) is not valid semver", defaults.Version)
	}
}

func TestSitesAreValidURLs(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range defaults.Sites {
		if s.Name == "" {
			t.Errorf("site %q has no name", s.URL)
		}
		if seen[s.Name] {
			t.Errorf("duplicate site name %q", s.Name)
		}
		seen[s.Name] = true

		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			t.Errorf("site %s has invalid URL %q", s.Name, s.URL)
		}
	}
	if len(defaults.Sites) != 4 {
		t.Errorf("expected 4 default sites, got %d", len(defaults.Sites))
	}
}

func TestViewportIsDesktop(t *testing.T) {
	if defaults.ViewportWidth < defaults.ViewportHeight {
		t.Errorf("viewport %dx%d is not landscape", defaults.ViewportWidth, defaults.ViewportHeight)
	}
}
