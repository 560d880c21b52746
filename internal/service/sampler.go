package service

import "display_bridge/internal/models"

// ClockSampler decides, once per minute, whether the clock needs a new frame.
type ClockSampler struct {
	lastMinute int
	set        bool
}

// MaybeEmit returns {hour, minute} when now.Minute differs from the last emitted minute
// (always on the first call). Repeated calls within the same minute return false.
func (s *ClockSampler) MaybeEmit(now models.ClockReading) (models.DisplayPayload, bool) {
	if s.set && now.Minute == s.lastMinute {
		return models.DisplayPayload{}, false
	}
	s.lastMinute = now.Minute
	s.set = true
	return models.DisplayPayload{A: now.Hour, B: now.Minute}, true
}

// Reset forgets the last emitted minute so the next sample always emits.
func (s *ClockSampler) Reset() {
	s.set = false
}
