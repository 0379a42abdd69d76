package events

// SiteEvent is emitted after a site was analyzed and scored.
type SiteEvent struct {
	BaseEvent
	Site          string       `json:"site"`
	URL           string       `json:"url"`
	FinalURL      string       `json:"final_url,omitempty"`
	Score         int          `json:"score"`
	Level         string       `json:"level"`
	Rules         []RuleResult `json:"rules"`
	FingerprintID string       `json:"fingerprint_id"`
	LoadTimeMs    int64        `json:"load_time_ms"`
	Screenshot    string       `json:"screenshot,omitempty"`
}

// RuleResult is one scoring rule outcome.
type RuleResult struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Fired  bool   `json:"fired"`
}

// Fired returns the names of the rules that fired.
func (e *SiteEvent) Fired() []string {
	var out []string
	for _, r := range e.Rules {
		if r.Fired {
			out = append(out, r.Name)
		}
	}
	return out
}

// SiteErrorEvent is emitted when a site is skipped.
type SiteErrorEvent struct {
	BaseEvent
	Site    string `json:"site"`
	URL     string `json:"url"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
