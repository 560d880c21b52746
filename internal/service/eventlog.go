package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"display_bridge/internal/logger"
	"display_bridge/internal/models"
	"display_bridge/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrUnknownEventType = errors.New("unknown event type")
)

var knownEventTypes = map[string]bool{
	models.EventModeChange:  true,
	models.EventDisplaySet:  true,
	models.EventClockUpdate: true,
	models.EventError:       true,
}

type EventLogService struct {
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewEventLogService(eventRepo repository.EventRepo, log *logger.Logger) *EventLogService {
	return &EventLogService{eventRepo: eventRepo, log: log, now: time.Now}
}

// RunRetention deletes events older than keep, once at start and then every interval, until
// ctx is canceled. Clock mode alone appends one row a minute.
func (s *EventLogService) RunRetention(ctx context.Context, keep, interval time.Duration) {
	if keep <= 0 || interval <= 0 {
		return
	}
	s.prune(ctx, keep)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.prune(ctx, keep)
		}
	}
}

func (s *EventLogService) prune(ctx context.Context, keep time.Duration) {
	cutoff := s.now().UTC().Add(-keep)
	n, err := s.eventRepo.DeleteBefore(ctx, cutoff)
	if s.log == nil {
		return
	}
	if err != nil {
		s.log.Warnw("event_prune_failed", "cutoff", cutoff, "err", err)
		return
	}
	if n > 0 {
		s.log.Infow("events_pruned", "count", n, "cutoff", cutoff)
	}
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.DeviceEvent, error) {
	from, to, typ, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// normalizeFilter converts bounds to UTC, upper-cases the type and validates both.
func normalizeFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	typ := strings.ToUpper(strings.TrimSpace(f.Type))
	if typ != "" && !knownEventTypes[typ] {
		return time.Time{}, time.Time{}, "", fmt.Errorf("%w: %q", ErrUnknownEventType, typ)
	}
	return from, to, typ, nil
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
