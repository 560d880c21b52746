package timesource

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"display_bridge/internal/logger"
	"display_bridge/internal/metrics"

	"github.com/facebookincubator/ntp/protocol/chrony"
)

const (
	dialTimeout  = time.Second
	readDeadline = 5 * time.Second

	leapUnsynchronised = 3
	maxStratum         = 16
)

// SyncStatus is the last tracking result from chronyd.
type SyncStatus struct {
	Synced  bool
	Stratum int
	Checked time.Time
}

// ChronyMonitor polls chronyd's command port for tracking data.
type ChronyMonitor struct {
	addr string
	log  *logger.Logger

	mu     sync.RWMutex
	status SyncStatus

	// query is replaced in tests.
	query func(ctx context.Context) (chrony.Tracking, error)
}

// NewChronyMonitor returns a monitor for chronyd at addr (usually "localhost:323").
func NewChronyMonitor(addr string, log *logger.Logger) *ChronyMonitor {
	m := &ChronyMonitor{addr: addr, log: log}
	m.query = m.queryTracking
	return m
}

// Status returns the last known sync state.
func (m *ChronyMonitor) Status() SyncStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Run polls every interval until ctx is canceled. Errors mark the clock unsynchronised.
func (m *ChronyMonitor) Run(ctx context.Context, interval time.Duration) {
	m.poll(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.poll(ctx)
		}
	}
}

func (m *ChronyMonitor) poll(ctx context.Context) {
	st := SyncStatus{Checked: time.Now().UTC()}
	tr, err := m.query(ctx)
	if err != nil {
		if m.log != nil {
			m.log.Warnw("chrony_tracking_failed", "addr", m.addr, "err", err)
		}
	} else {
		st.Synced, st.Stratum = evaluate(tr)
	}

	m.mu.Lock()
	prev := m.status
	m.status = st
	m.mu.Unlock()

	if st.Synced {
		metrics.ClockSynced.Set(1)
	} else {
		metrics.ClockSynced.Set(0)
	}
	if prev.Synced != st.Synced && m.log != nil {
		m.log.Infow("clock_sync_changed", "synced", st.Synced, "stratum", st.Stratum)
	}
}

func (m *ChronyMonitor) queryTracking(ctx context.Context) (chrony.Tracking, error) {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "udp", m.addr)
	if err != nil {
		return chrony.Tracking{}, fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return chrony.Tracking{}, fmt.Errorf("set read deadline: %w", err)
	}

	c := chrony.Client{Sequence: 1, Connection: conn}
	res, err := c.Communicate(chrony.NewTrackingPacket())
	if err != nil {
		return chrony.Tracking{}, fmt.Errorf("get tracking info: communicate: %w", err)
	}
	tracking, ok := res.(*chrony.ReplyTracking)
	if !ok {
		return chrony.Tracking{}, fmt.Errorf("tracking reply was of unexpected type %T", res)
	}
	return tracking.Tracking, nil
}

// evaluate reports whether chronyd considers the clock synchronised.
func evaluate(t chrony.Tracking) (bool, int) {
	stratum := int(t.Stratum)
	synced := int(t.LeapStatus) != leapUnsynchronised && stratum > 0 && stratum < maxStratum
	return synced, stratum
}
