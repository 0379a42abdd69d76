package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner holds spinner animation frames
type Spinner struct {
	Frames   []string
	Interval time.Duration
}

var (
	dotsSpinner = Spinner{
		Frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		Interval: 80 * time.Millisecond,
	}
	lineSpinner = Spinner{
		Frames:   []string{"-", "\\", "|", "/"},
		Interval: 100 * time.Millisecond,
	}
)

// DefaultSpinner returns a braille-dot spinner on Unicode terminals,
// ASCII line spinner otherwise.
func DefaultSpinner() Spinner {
	if UnicodeTerminal() {
		return dotsSpinner
	}
	return lineSpinner
}

// StatusSpinner animates one status line while a site loads.
// On a non-terminal it prints the status once and never redraws, so
// redirected output carries no escape codes.
type StatusSpinner struct {
	w           io.Writer
	interactive bool
	spinner     Spinner

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewStatusSpinner creates a spinner on the current UI output.
func NewStatusSpinner() *StatusSpinner {
	return &StatusSpinner{
		w:           writer(),
		interactive: StderrIsTerminal() && !IsNoColor(),
		spinner:     DefaultSpinner(),
	}
}

// Start shows message until Stop. Calling Start while running replaces
// the running line.
func (s *StatusSpinner) Start(message string) {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.interactive {
		fmt.Fprintf(s.w, "  %s %s\n", SpinnerStyle.Render("*"), message)
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.loop(message, s.done)
}

// Stop clears the status line.
func (s *StatusSpinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprint(s.w, "\r\033[K")
}

func (s *StatusSpinner) loop(message string, done <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.spinner.Interval)
	defer ticker.Stop()

	start := time.Now()
	frame := 0
	for {
		fmt.Fprintf(s.w, "\r\033[K  %s %s %s",
			SpinnerStyle.Render(s.spinner.Frames[frame%len(s.spinner.Frames)]),
			message,
			DividerStyle.Render(fmt.Sprintf("(%ds)", int(time.Since(start).Seconds()))))
		frame++

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
