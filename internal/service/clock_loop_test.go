package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"display_bridge/internal/models"
)

func newTestLoop() (*ClockLoopService, *DisplayService, *recordingLink, *countingIndicator) {
	link := &recordingLink{}
	led := &countingIndicator{}
	d := NewDisplayService(link, &fixedClock{t: at(0, 0, 0)}, &fakeEventRepo{}, nil)
	return NewClockLoopService(d, led, nil), d, link, led
}

func TestClockLoop_SuppressedInTuning(t *testing.T) {
	loop, _, link, led := newTestLoop()
	for i := 0; i < 20; i++ {
		loop.tick(context.Background(), at(9, i, 0))
	}
	if len(link.written()) != 0 || led.pulses != 0 {
		t.Fatalf("tuning mode: frames=%q pulses=%d", link.written(), led.pulses)
	}
}

func TestClockLoop_EmitsOncePerMinute(t *testing.T) {
	loop, d, link, _ := newTestLoop()
	ctx := context.Background()
	d.SwitchMode(ctx)

	for s := 55; s < 60; s++ {
		loop.tick(ctx, at(7, 41, s))
	}
	for s := 0; s < 5; s++ {
		loop.tick(ctx, at(7, 42, s))
	}
	want := []string{"$D0741\n", "$D0742\n"}
	got := link.written()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("frames=%q, want %q", got, want)
	}
}

func TestClockLoop_ReenteringClockShowsTimeImmediately(t *testing.T) {
	loop, d, link, _ := newTestLoop()
	ctx := context.Background()

	d.SwitchMode(ctx) // Clock
	loop.tick(ctx, at(10, 15, 0))
	d.SwitchMode(ctx) // Tuning
	loop.tick(ctx, at(10, 15, 1))
	if err := d.SetDigits(ctx, DigitParams{Num: "4321", Present: true}); err != nil {
		t.Fatalf("SetDigits: %v", err)
	}
	d.SwitchMode(ctx) // Clock again, same minute
	loop.tick(ctx, at(10, 15, 2))

	want := []string{"$D1015\n", "$D4321\n", "$D1015\n"}
	got := link.written()
	if len(got) != len(want) {
		t.Fatalf("frames=%q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames=%q, want %q", got, want)
		}
	}
}

// Clock -> Tuning -> set -> Clock between two ticks must still put the time back up.
func TestClockLoop_ReentryWithoutTickInTuning(t *testing.T) {
	loop, d, link, _ := newTestLoop()
	ctx := context.Background()

	d.SwitchMode(ctx) // Clock
	loop.tick(ctx, at(10, 15, 0))
	d.SwitchMode(ctx) // Tuning
	if err := d.SetDigits(ctx, DigitParams{Num: "4321", Present: true}); err != nil {
		t.Fatalf("SetDigits: %v", err)
	}
	d.SwitchMode(ctx) // Clock
	loop.tick(ctx, at(10, 15, 1))
	loop.tick(ctx, at(10, 15, 2))

	want := []string{"$D1015\n", "$D4321\n", "$D1015\n"}
	got := link.written()
	if len(got) != len(want) {
		t.Fatalf("frames=%q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames=%q, want %q", got, want)
		}
	}
}

func TestClockLoop_Heartbeat(t *testing.T) {
	loop, d, _, led := newTestLoop()
	ctx := context.Background()
	d.SwitchMode(ctx)
	for s := 0; s < 2*heartbeatEvery; s++ {
		loop.tick(ctx, at(1, 0, s))
	}
	if led.pulses != 2 {
		t.Fatalf("pulses=%d, want 2", led.pulses)
	}
}

func TestClockLoop_RunStopsOnCancel(t *testing.T) {
	loop, d, link, _ := newTestLoop()
	d.SwitchMode(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.Run(ctx, 5*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(link.written()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	if got := link.written(); len(got) != 1 || got[0] != "$D0000\n" {
		t.Fatalf("frames=%q, want one $D0000", got)
	}
}

// The request path and the clock loop share the link; frames must never interleave and
// SetDigits must never succeed while the mode is Clock.
func TestClockLoop_ConcurrentWithRequests(t *testing.T) {
	loop, d, link, _ := newTestLoop()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			loop.tick(ctx, at(i/60%24, i%60, 0))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = d.SetDigits(ctx, DigitParams{Num: "1111", Present: true})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			d.SwitchMode(ctx)
		}
	}()
	wg.Wait()

	for _, f := range link.written() {
		if len(f) != 7 || f[:2] != "$D" || f[6] != '\n' {
			t.Fatalf("malformed frame %q", f)
		}
	}
	if d.CurrentMode() != models.ModeTuning {
		t.Fatalf("50 toggles should end in Tuning, got %v", d.CurrentMode())
	}
}
