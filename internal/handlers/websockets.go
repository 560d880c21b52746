package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"display_bridge/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Why a status message was pushed.
const (
	pushInitial    = "initial"
	pushTick       = "tick"
	pushModeChange = "mode_change"
)

const wsTypeStatus = "status"

// wsEnvelope wraps every message pushed to /ws clients.
type wsEnvelope struct {
	Type   string      `json:"type"`
	Reason string      `json:"reason,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// The UI is served from the same board, but the display is also driven from phones on the LAN.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Stream device status
// @Description  Upgrades to a WebSocket and pushes {"type":"status","reason":...,"data":Status} on connect, on every mode switch and every interval (default 1s, max 10s).
// @Tags         status
// @Param        interval     query  string  false  "Push interval, Go duration"  example(2s)
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	s := &statusStream{h: h, conn: conn, ctx: c.Request.Context()}
	defer s.close()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	s.run(interval, done)
}

// statusStream serves one /ws client.
type statusStream struct {
	h    *Handler
	conn *websocket.Conn
	ctx  context.Context
}

func (s *statusStream) close() { _ = s.conn.Close() }

// run pushes until the client goes away or a write fails.
func (s *statusStream) run(interval time.Duration, done <-chan struct{}) {
	var modes <-chan models.Mode
	if s.h.services.Display != nil {
		ch, cancel := s.h.services.Display.Watch()
		defer cancel()
		modes = ch
	}

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer ping.Stop()

	if !s.push(pushInitial) {
		return
	}
	for {
		var ok bool
		select {
		case <-done:
			return
		case <-s.ctx.Done():
			return
		case <-ping.C:
			ok = s.ping()
		case <-modes:
			ok = s.push(pushModeChange)
		case <-ticker.C:
			ok = s.push(pushTick)
		}
		if !ok {
			return
		}
	}
}

// push writes one status snapshot. A status error is reported to the client and ends the stream.
func (s *statusStream) push(reason string) bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	st, err := s.h.services.Monitoring.GetStatus(s.ctx)
	if err != nil {
		s.logInfo("ws_get_status_failed", reason, err)
		_ = s.conn.WriteJSON(wsEnvelope{Type: wsTypeStatus, Reason: reason, Error: errGetStatus})
		return false
	}
	if err := s.conn.WriteJSON(wsEnvelope{Type: wsTypeStatus, Reason: reason, Data: st}); err != nil {
		s.logInfo("ws_write_failed", reason, err)
		return false
	}
	return true
}

func (s *statusStream) ping() bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		s.logInfo("ws_ping_failed", "", err)
		return false
	}
	return true
}

func (s *statusStream) logInfo(key, reason string, err error) {
	if s.h.log != nil {
		s.h.log.Infow(key, "reason", reason, "err", err)
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming messages so control frames are handled, and closes done on disconnect.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}
