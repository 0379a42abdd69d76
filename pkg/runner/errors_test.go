package runner

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Wrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNoTargets", ErrNoTargets, "runner: no targets"},
		{"ErrNoSiteAnalyzed", ErrNoSiteAnalyzed, "runner: no site analyzed successfully"},
		{"ErrInterrupted", ErrInterrupted, "runner: interrupted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.msg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, got, tt.msg)
			}

			wrapped := fmt.Errorf("analyze: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is must work through wrapping for %s", tt.name)
			}
		})
	}
}
