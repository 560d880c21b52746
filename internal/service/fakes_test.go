package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"display_bridge/internal/models"
)

// fakeEventRepo records appends and serves List from a canned response.
type fakeEventRepo struct {
	mu      sync.Mutex
	appends []models.DeviceEvent

	events    []models.DeviceEvent
	listErr   error
	appendErr error

	calls   int
	gotFrom time.Time
	gotTo   time.Time
	gotType string

	cutoffs   []time.Time
	deleted   int64
	deleteErr error
}

func (f *fakeEventRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.deleteErr
}

func (f *fakeEventRepo) pruneCutoffs() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.cutoffs...)
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.DeviceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.DeviceEvent, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.listErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appends))
	for _, e := range f.appends {
		out = append(out, e.Type)
	}
	return out
}

// recordingLink captures frames written to the display peer.
type recordingLink struct {
	mu     sync.Mutex
	frames []string
	err    error
}

func (l *recordingLink) WriteFrame(frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.frames = append(l.frames, string(frame))
	return nil
}

func (l *recordingLink) Close() error { return nil }

func (l *recordingLink) written() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.frames...)
}

// fixedClock always returns t.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Location() *time.Location { return c.t.Location() }

// countingIndicator counts heartbeat pulses.
type countingIndicator struct {
	pulses int
	err    error
}

func (c *countingIndicator) Pulse(time.Duration) error {
	c.pulses++
	return c.err
}

var errLinkDown = errors.New("link down")

func at(h, m, s int) time.Time {
	return time.Date(2025, 5, 17, h, m, s, 0, time.UTC)
}
