// Package timesource supplies wall-clock time to the display bridge and reports whether the
// host clock has been synchronised by chronyd.
package timesource

import (
	"fmt"
	"time"
)

// Clock returns the current time in the display's time zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// Local is the system clock viewed in a fixed zone.
type Local struct {
	loc *time.Location
}

// NewLocal loads the IANA zone name. An empty name means the host's local zone.
func NewLocal(zone string) (*Local, error) {
	if zone == "" {
		return &Local{loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return &Local{loc: loc}, nil
}

func (l *Local) Now() time.Time { return time.Now().In(l.loc) }

func (l *Local) Location() *time.Location { return l.loc }
