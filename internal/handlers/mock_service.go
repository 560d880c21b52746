package handlers

import (
	"context"
	"net/http"
	"time"

	"display_bridge/internal/models"
	"display_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockDisplay struct {
	setErr    error
	lastSet   service.DigitParams
	setCalls  int
	mode      models.Mode
	reading   models.ClockReading
	switchHit int
	modes     chan models.Mode
}

func (m *mockDisplay) SetDigits(ctx context.Context, p service.DigitParams) error {
	m.setCalls++
	m.lastSet = p
	return m.setErr
}
func (m *mockDisplay) SwitchMode(ctx context.Context) models.Mode {
	m.switchHit++
	if m.mode == models.ModeClock {
		m.mode = models.ModeTuning
	} else {
		m.mode = models.ModeClock
	}
	return m.mode
}
func (m *mockDisplay) CurrentMode() models.Mode { return m.mode }
func (m *mockDisplay) Watch() (<-chan models.Mode, func()) {
	if m.modes == nil {
		m.modes = make(chan models.Mode, 1)
	}
	return m.modes, func() {}
}
func (m *mockDisplay) GetTime(ctx context.Context) models.ClockReading {
	return m.reading
}

type mockMonitoring struct {
	status models.Status
	err    error
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (models.Status, error) {
	return m.status, m.err
}

type mockEventLog struct {
	resp     []models.DeviceEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DeviceEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, "", nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
