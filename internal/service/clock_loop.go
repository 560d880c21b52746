package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"display_bridge/internal/hardware"
	"display_bridge/internal/logger"
	"display_bridge/internal/metrics"
	"display_bridge/internal/models"
)

const (
	heartbeatEvery = 7                     // clock ticks between LED pulses
	heartbeatPulse = 50 * time.Millisecond // LED on-time per pulse
)

// ClockLoopService mirrors the wall clock onto the display while the mode is Clock.
type ClockLoopService struct {
	display   *DisplayService
	sampler   ClockSampler
	heartbeat hardware.Indicator
	log       *logger.Logger

	// touched only from the loop goroutine
	seenEntry uint64
	ticks     int
}

func NewClockLoopService(d *DisplayService, heartbeat hardware.Indicator, log *logger.Logger) *ClockLoopService {
	if heartbeat == nil {
		heartbeat = hardware.Noop{}
	}
	return &ClockLoopService{display: d, heartbeat: heartbeat, log: log}
}

// Run ticks at the given interval until ctx is canceled. The mode is checked once per tick.
func (s *ClockLoopService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx, s.display.clock.Now())
		}
	}
}

// tick takes one sample. Every switch into Clock mode resets the sampler so the time shows at
// once instead of waiting for the next minute boundary.
func (s *ClockLoopService) tick(ctx context.Context, now time.Time) {
	d := s.display

	d.mu.Lock()
	if d.mode.Current() != models.ModeClock {
		d.mu.Unlock()
		return
	}
	if d.clockEntries != s.seenEntry {
		s.sampler.Reset()
		s.ticks = 0
		s.seenEntry = d.clockEntries
	}
	reading := models.ReadingAt(now)
	payload, ok := s.sampler.MaybeEmit(reading)
	var (
		frame []byte
		err   error
	)
	if ok {
		frame, err = d.emit(payload, metrics.SourceClock)
	}
	d.mu.Unlock()

	metrics.ClockTicks.Inc()
	if ok {
		if err != nil && !errors.Is(err, errFrameWrite) {
			// hour/minute from time.Clock are always in range
			if s.log != nil {
				s.log.Errorw("clock_encode_failed", "reading", reading.String(), "err", err)
			}
		} else {
			d.afterEmit(ctx, models.EventClockUpdate, fmt.Sprintf("clock %02d:%02d", payload.A, payload.B), frame, err)
		}
	}

	s.ticks++
	if s.ticks >= heartbeatEvery {
		s.ticks = 0
		if err := s.heartbeat.Pulse(heartbeatPulse); err != nil && s.log != nil {
			s.log.Warnw("heartbeat_failed", "err", err)
		}
	}
}
