package models

import "time"

// Event types written to the audit log.
const (
	EventModeChange  = "MODE_CHANGE"
	EventDisplaySet  = "DISPLAY_SET"
	EventClockUpdate = "CLOCK_UPDATE"
	EventError       = "ERROR"
)

// DeviceEvent is a single log entry.
type DeviceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // MODE_CHANGE | DISPLAY_SET | CLOCK_UPDATE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
