package timesource

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/facebookincubator/ntp/protocol/chrony"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"display_bridge/internal/metrics"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name        string
		in          chrony.Tracking
		wantSynced  bool
		wantStratum int
	}{
		{"synced stratum 2", chrony.Tracking{Stratum: 2}, true, 2},
		{"stratum zero", chrony.Tracking{Stratum: 0}, false, 0},
		{"stratum 16", chrony.Tracking{Stratum: 16}, false, 16},
		{"leap unsynchronised", chrony.Tracking{Stratum: 3, LeapStatus: 3}, false, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			synced, stratum := evaluate(tc.in)
			if synced != tc.wantSynced || stratum != tc.wantStratum {
				t.Fatalf("got (%v, %d), want (%v, %d)", synced, stratum, tc.wantSynced, tc.wantStratum)
			}
		})
	}
}

func TestChronyMonitor_Poll(t *testing.T) {
	m := NewChronyMonitor("localhost:323", nil)

	m.query = func(context.Context) (chrony.Tracking, error) {
		return chrony.Tracking{Stratum: 1}, nil
	}
	m.poll(context.Background())
	if st := m.Status(); !st.Synced || st.Stratum != 1 || st.Checked.IsZero() {
		t.Fatalf("unexpected status after good poll: %+v", st)
	}
	if v := testutil.ToFloat64(metrics.ClockSynced); v != 1 {
		t.Fatalf("synced gauge=%v, want 1", v)
	}

	m.query = func(context.Context) (chrony.Tracking, error) {
		return chrony.Tracking{}, errors.New("connection refused")
	}
	m.poll(context.Background())
	if st := m.Status(); st.Synced {
		t.Fatalf("expected unsynced after failed poll: %+v", st)
	}
	if v := testutil.ToFloat64(metrics.ClockSynced); v != 0 {
		t.Fatalf("synced gauge=%v, want 0", v)
	}
}

func TestChronyMonitor_RunStopsOnCancel(t *testing.T) {
	m := NewChronyMonitor("localhost:323", nil)
	m.query = func(context.Context) (chrony.Tracking, error) { return chrony.Tracking{Stratum: 2}, nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewLocal(t *testing.T) {
	l, err := NewLocal("Europe/Berlin")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if l.Location().String() != "Europe/Berlin" {
		t.Fatalf("location=%s", l.Location())
	}
	if l.Now().Location() != l.Location() {
		t.Fatalf("Now not in configured zone")
	}
	if _, err := NewLocal("Not/AZone"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}
