package models

import (
	"fmt"
	"time"
)

// DisplayPayload is the pair of two-digit fields a frame carries.
type DisplayPayload struct {
	A int `json:"a"` // first pair, or hour
	B int `json:"b"` // second pair, or minute
}

// ClockReading is a wall-clock sample. It is recomputed on every access.
type ClockReading struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// ReadingAt samples t in its own location.
func ReadingAt(t time.Time) ClockReading {
	h, m, s := t.Clock()
	return ClockReading{Hour: h, Minute: m, Second: s}
}

// String formats the reading as HH:MM:SS.
func (r ClockReading) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hour, r.Minute, r.Second)
}
