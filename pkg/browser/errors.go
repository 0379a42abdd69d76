package browser

import (
	"context"
	"errors"
	"fmt"
)

// Collector failure kinds. Collect wraps one of these so callers can
// branch with errors.Is.
var (
	ErrLaunch     = errors.New("browser: launch failed")
	ErrNavigate   = errors.New("browser: navigation failed")
	ErrEvaluate   = errors.New("browser: probe evaluation failed")
	ErrTimeout    = errors.New("browser: timed out")
	ErrNoBrowser  = errors.New("browser: chrome not found")
	ErrScreenshot = errors.New("browser: screenshot failed")
)

// wrap tags err with kind, promoting deadline errors to ErrTimeout
func wrap(kind error, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %w", kind, ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Kind returns a short label for the failure class of err
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrLaunch), errors.Is(err, ErrNoBrowser):
		return "launch"
	case errors.Is(err, ErrNavigate):
		return "navigate"
	case errors.Is(err, ErrEvaluate):
		return "evaluate"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
