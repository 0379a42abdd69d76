package events

// StartEvent is emitted before the first site is visited.
type StartEvent struct {
	BaseEvent
	Targets  []TargetInfo `json:"targets"`
	Headless bool         `json:"headless"`
	Stealth  bool         `json:"stealth"`
}

// TargetInfo names one site of the batch.
type TargetInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
