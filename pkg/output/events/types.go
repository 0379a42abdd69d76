// Package events defines the event types emitted during an analysis run.
// All events are designed for JSON serialization.
//
// BaseEvent is embedded in every specific event type.
package events

import "time"

// EventType represents the type of output event.
type EventType string

const (
	// EventTypeStart indicates a run has started.
	EventTypeStart EventType = "start"
	// EventTypeSite indicates a site was analyzed and scored.
	EventTypeSite EventType = "site"
	// EventTypeSiteError indicates a site was skipped after a failure.
	EventTypeSiteError EventType = "site_error"
	// EventTypeComplete indicates a run has finished.
	EventTypeComplete EventType = "complete"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
	RunID() string
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	Type EventType `json:"type"`
	Time time.Time `json:"timestamp"`
	Run  string    `json:"run_id"`
}

// NewBase returns a BaseEvent stamped with the current time.
func NewBase(t EventType, runID string) BaseEvent {
	return BaseEvent{Type: t, Time: time.Now(), Run: runID}
}

// EventType returns the type of this event.
func (e BaseEvent) EventType() EventType { return e.Type }

// Timestamp returns when this event occurred.
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// RunID returns the run this event belongs to.
func (e BaseEvent) RunID() string { return e.Run }
