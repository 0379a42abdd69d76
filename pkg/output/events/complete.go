package events

// CompleteEvent is emitted when a run finishes, including interrupted runs.
type CompleteEvent struct {
	BaseEvent
	Success     bool           `json:"success"`
	Interrupted bool           `json:"interrupted"`
	Analyzed    int            `json:"analyzed"`
	Failed      int            `json:"failed"`
	Levels      map[string]int `json:"levels"`
	DurationSec float64        `json:"duration_sec"`
	ExitCode    int            `json:"exit_code"`
	ExitReason  string         `json:"exit_reason"`
}
