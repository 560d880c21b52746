// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame sources.
const (
	SourceTuning = "tuning"
	SourceClock  = "clock"
)

var (
	FramesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "display_frames_written_total",
		Help: "frames written to the display peer, by source",
	}, []string{"source"})

	FrameWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "display_frame_write_errors_total",
		Help: "frames the serial link failed to accept",
	})

	ModeSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "display_mode_switches_total",
		Help: "mode toggles, by the mode switched to",
	}, []string{"mode"})

	ClockTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "display_clock_ticks_total",
		Help: "background ticks taken while in clock mode",
	})

	ClockSynced = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "display_clock_synced",
		Help: "1 if chronyd reports a synchronised clock",
	})
)
