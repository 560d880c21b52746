package hardware

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type recordingPin struct {
	*gpiotest.Pin
	levels []gpio.Level
	err    error
}

func (r *recordingPin) Out(l gpio.Level) error {
	if r.err != nil {
		return r.err
	}
	r.levels = append(r.levels, l)
	return r.Pin.Out(l)
}

func TestLED_PulseActiveLow(t *testing.T) {
	p := &recordingPin{Pin: &gpiotest.Pin{N: "LED"}}
	l, err := NewLED(p, true)
	if err != nil {
		t.Fatalf("NewLED: %v", err)
	}
	if err := l.Pulse(time.Millisecond); err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	// off (high), on (low), off (high)
	want := []gpio.Level{gpio.High, gpio.Low, gpio.High}
	if len(p.levels) != len(want) {
		t.Fatalf("levels=%v, want %v", p.levels, want)
	}
	for i := range want {
		if p.levels[i] != want[i] {
			t.Fatalf("levels=%v, want %v", p.levels, want)
		}
	}
}

func TestLED_PulseActiveHigh(t *testing.T) {
	p := &recordingPin{Pin: &gpiotest.Pin{N: "LED"}}
	l, err := NewLED(p, false)
	if err != nil {
		t.Fatalf("NewLED: %v", err)
	}
	_ = l.Pulse(0)
	if len(p.levels) != 3 || p.levels[1] != gpio.High || p.levels[2] != gpio.Low {
		t.Fatalf("levels=%v", p.levels)
	}
}

func TestNewLED_PinError(t *testing.T) {
	p := &recordingPin{Pin: &gpiotest.Pin{N: "LED"}, err: errors.New("busy")}
	if _, err := NewLED(p, false); err == nil {
		t.Fatal("expected error")
	}
}
