// Package hardware drives the board's status LED.
package hardware

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Indicator is a visual heartbeat.
type Indicator interface {
	Pulse(d time.Duration) error
}

// Noop is used when no LED pin is configured.
type Noop struct{}

func (Noop) Pulse(time.Duration) error { return nil }

// LED is a single GPIO-driven LED.
type LED struct {
	pin       gpio.PinOut
	activeLow bool
}

// OpenLED initialises periph.io and claims the named pin, leaving the LED off.
func OpenLED(name string, activeLow bool) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph.io: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	return NewLED(p, activeLow)
}

// NewLED wraps an already resolved pin.
func NewLED(pin gpio.PinOut, activeLow bool) (*LED, error) {
	l := &LED{pin: pin, activeLow: activeLow}
	if err := l.set(false); err != nil {
		return nil, fmt.Errorf("turn off led %s: %w", pin, err)
	}
	return l, nil
}

// Pulse turns the LED on for d, then off again.
func (l *LED) Pulse(d time.Duration) error {
	if err := l.set(true); err != nil {
		return err
	}
	time.Sleep(d)
	return l.set(false)
}

func (l *LED) set(on bool) error {
	level := gpio.Level(on)
	if l.activeLow {
		level = !level
	}
	return l.pin.Out(level)
}
