package service

import (
	"context"

	"display_bridge/internal/models"
	"display_bridge/internal/timesource"
)

const (
	syncSourceChrony = "chrony"
	syncSourceNone   = "none"
)

type MonitoringService struct {
	display Display
	clock   timesource.Clock
	sync    SyncSource
}

func NewMonitoringService(d Display, clock timesource.Clock, sync SyncSource) *MonitoringService {
	return &MonitoringService{display: d, clock: clock, sync: sync}
}

// GetStatus returns the current mode, wall-clock time and sync state.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.Status, error) {
	st := models.Status{
		Mode:       s.display.CurrentMode().String(),
		Time:       s.display.GetTime(ctx).String(),
		Timezone:   s.clock.Location().String(),
		SyncSource: syncSourceNone,
	}
	if s.sync != nil {
		sync := s.sync.Status()
		st.SyncSource = syncSourceChrony
		st.ClockSynced = sync.Synced
		st.Stratum = sync.Stratum
	}
	return st, nil
}
