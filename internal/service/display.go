package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"display_bridge/internal/display"
	"display_bridge/internal/logger"
	"display_bridge/internal/metrics"
	"display_bridge/internal/models"
	"display_bridge/internal/repository"
	"display_bridge/internal/timesource"

	"github.com/google/uuid"
)

var (
	ErrMissingParameter = errors.New("missing parameter: num")
	ErrWrongMode        = errors.New("invalid operation in current mode")

	errFrameWrite = errors.New("frame write failed")
)

// DisplayService owns the mode and the link to the display peer.
//
// mu is held across every mode read-modify-write and every frame write, so the request path
// and the clock loop never interleave frames and a toggle cannot land between a mode check
// and the write it gates.
type DisplayService struct {
	mu   sync.Mutex
	mode models.ModeState
	link display.Link
	// clockEntries counts switches into Clock mode. The clock loop resets its sampler when it
	// sees a new value, however short the visit to Tuning was.
	clockEntries uint64

	watchMu  sync.Mutex
	watchers map[chan models.Mode]struct{}

	clock     timesource.Clock
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewDisplayService(link display.Link, clock timesource.Clock, eventRepo repository.EventRepo, log *logger.Logger) *DisplayService {
	return &DisplayService{link: link, clock: clock, eventRepo: eventRepo, log: log}
}

// SetDigits shows a 4-digit value. Only allowed in Tuning mode; the mode is checked before
// the input is looked at.
func (s *DisplayService) SetDigits(ctx context.Context, p DigitParams) error {
	s.mu.Lock()
	if s.mode.Current() != models.ModeTuning {
		s.mu.Unlock()
		return ErrWrongMode
	}
	if !p.Present {
		s.mu.Unlock()
		return ErrMissingParameter
	}
	payload, err := display.ParseDigits(p.Num)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	frame, err := s.emit(payload, metrics.SourceTuning)
	s.mu.Unlock()

	if err != nil && !errors.Is(err, errFrameWrite) {
		return err
	}
	s.afterEmit(ctx, models.EventDisplaySet, "display set to "+p.Num, frame, err)
	return nil
}

// SwitchMode toggles Tuning<->Clock and returns the new mode.
func (s *DisplayService) SwitchMode(ctx context.Context) models.Mode {
	s.mu.Lock()
	m := s.mode.Toggle()
	if m == models.ModeClock {
		s.clockEntries++
	}
	s.mu.Unlock()

	s.notify(m)
	metrics.ModeSwitches.WithLabelValues(m.String()).Inc()
	if s.log != nil {
		s.log.Infow("mode_switched", "mode", m.String())
	}
	s.record(ctx, models.DeviceEvent{
		Type:        models.EventModeChange,
		Description: "mode switched to " + m.String(),
		Metadata:    map[string]any{"mode": m.String()},
	})
	return m
}

func (s *DisplayService) CurrentMode() models.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode.Current()
}

// GetTime samples the wall clock. It does not touch the mode or the display.
func (s *DisplayService) GetTime(ctx context.Context) models.ClockReading {
	return models.ReadingAt(s.clock.Now())
}

// emit encodes p and writes it to the link. Caller holds s.mu.
// A failed write is reported wrapped in errFrameWrite together with the frame.
func (s *DisplayService) emit(p models.DisplayPayload, source string) ([]byte, error) {
	frame, err := display.Encode(p)
	if err != nil {
		return nil, err
	}
	if err := s.link.WriteFrame(frame); err != nil {
		metrics.FrameWriteErrors.Inc()
		return frame, fmt.Errorf("%w: %v", errFrameWrite, err)
	}
	metrics.FramesWritten.WithLabelValues(source).Inc()
	return frame, nil
}

// afterEmit logs and records the outcome of an emit. Delivery is fire-and-forget, so a
// write failure is recorded but never handed back to the caller.
func (s *DisplayService) afterEmit(ctx context.Context, typ, desc string, frame []byte, writeErr error) {
	if writeErr != nil {
		if s.log != nil {
			s.log.Errorw("display_frame_write_failed", "frame", string(frame), "err", writeErr)
		}
		s.record(ctx, models.DeviceEvent{
			Type:        models.EventError,
			Description: "frame write failed",
			Metadata:    map[string]any{"frame": string(frame), "err": writeErr.Error()},
		})
		return
	}
	if s.log != nil {
		s.log.Debugw("display_frame_written", "frame", string(frame))
	}
	s.record(ctx, models.DeviceEvent{
		Type:        typ,
		Description: desc,
		Metadata:    map[string]any{"frame": string(frame)},
	})
}

// record appends to the audit log. Failures are logged and otherwise ignored.
func (s *DisplayService) record(ctx context.Context, ev models.DeviceEvent) {
	if s.eventRepo == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()
	if err := s.eventRepo.Append(ctx, ev); err != nil && s.log != nil {
		s.log.Warnw("event_append_failed", "type", ev.Type, "err", err)
	}
}

// Watch returns a channel that receives the new mode after every switch. Slow readers only
// miss intermediate modes, never the latest one. Call cancel to stop watching.
func (s *DisplayService) Watch() (<-chan models.Mode, func()) {
	ch := make(chan models.Mode, 1)
	s.watchMu.Lock()
	if s.watchers == nil {
		s.watchers = make(map[chan models.Mode]struct{})
	}
	s.watchers[ch] = struct{}{}
	s.watchMu.Unlock()

	return ch, func() {
		s.watchMu.Lock()
		delete(s.watchers, ch)
		s.watchMu.Unlock()
	}
}

func (s *DisplayService) notify(m models.Mode) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- m
	}
}
