package scoring

import "fmt"

// Level is the three-tier risk label derived from a score.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

// Level boundaries: scores below MediumThreshold are low, scores at or
// above HighThreshold are high.
const (
	MediumThreshold = 4
	HighThreshold   = 7
)

// LevelFor maps a score to its level.
func LevelFor(score int) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// String returns the lowercase level name used in exports.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Label returns the display label used in reports.
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a level name.
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = LevelLow
	case "medium":
		*l = LevelMedium
	case "high":
		*l = LevelHigh
	default:
		return fmt.Errorf("scoring: unknown level %q", b)
	}
	return nil
}
