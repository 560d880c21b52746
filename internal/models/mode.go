package models

// Mode is the operating mode of the display bridge.
type Mode int

const (
	ModeTuning Mode = iota // display shows a user-chosen 4-digit value
	ModeClock              // display mirrors the current hour and minute
)

// String returns the name reported to the UI.
func (m Mode) String() string {
	switch m {
	case ModeClock:
		return "Clock"
	default:
		return "Tuning"
	}
}

// ModeState holds the current mode. It starts in ModeTuning and is never persisted.
//
// ModeState does no locking; whoever owns it must serialise Current and Toggle.
type ModeState struct {
	mode Mode
}

func (s *ModeState) Current() Mode {
	return s.mode
}

// Toggle flips Tuning<->Clock and returns the new mode.
func (s *ModeState) Toggle() Mode {
	if s.mode == ModeClock {
		s.mode = ModeTuning
	} else {
		s.mode = ModeClock
	}
	return s.mode
}
