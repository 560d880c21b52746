package service

import (
	"context"
	"time"

	"display_bridge/internal/display"
	"display_bridge/internal/hardware"
	"display_bridge/internal/logger"
	"display_bridge/internal/models"
	"display_bridge/internal/repository"
	"display_bridge/internal/timesource"
)

// Authorization issues and checks operator tokens for /api/v1.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Display is the request-side gate in front of the display peer.
type Display interface {
	SetDigits(ctx context.Context, p DigitParams) error
	SwitchMode(ctx context.Context) models.Mode
	CurrentMode() models.Mode
	GetTime(ctx context.Context) models.ClockReading
	// Watch delivers the new mode after each switch until cancel is called.
	Watch() (<-chan models.Mode, func())
}

// Monitoring exposes the read-only status snapshot.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.Status, error)
}

// EventLog exposes the audit log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DeviceEvent, error)
}

// EventRetention trims the audit log. Stop it by cancelling ctx.
type EventRetention interface {
	RunRetention(ctx context.Context, keep, interval time.Duration)
}

// ClockLoop runs the background clock path. Stop it by cancelling ctx.
type ClockLoop interface {
	Run(ctx context.Context, tick time.Duration)
}

// SyncSource reports whether the host clock is synchronised. *timesource.ChronyMonitor implements it.
type SyncSource interface {
	Status() timesource.SyncStatus
}

type Service struct {
	Display
	Monitoring
	EventLog
	EventRetention
	ClockLoop
	Authorization
}

// Deps carries the hardware and config the services need beyond the repositories.
type Deps struct {
	Link       display.Link
	Clock      timesource.Clock
	Sync       SyncSource // nil when no sync monitor is configured
	Heartbeat  hardware.Indicator
	SigningKey string
	TokenTTL   time.Duration
	Log        *logger.Logger
}

// NewService wires the repositories and hardware into the concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Heartbeat == nil {
		deps.Heartbeat = hardware.Noop{}
	}
	disp := NewDisplayService(deps.Link, deps.Clock, repos.EventRepo, deps.Log.Named("display"))
	events := NewEventLogService(repos.EventRepo, deps.Log.Named("events"))
	return &Service{
		Display:        disp,
		Monitoring:     NewMonitoringService(disp, deps.Clock, deps.Sync),
		EventLog:       events,
		EventRetention: events,
		ClockLoop:      NewClockLoopService(disp, deps.Heartbeat, deps.Log.Named("clock")),
		Authorization:  NewAuthService(repos.Operators, deps.SigningKey, deps.TokenTTL),
	}
}
