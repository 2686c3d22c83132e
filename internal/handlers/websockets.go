package handlers

import (
	"net/http"
	"strconv"
	"time"

	"smart_breeder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// bounds for the minimum gap between two pushes
	defaultPushGap   = 1 * time.Second
	maxPushGap       = 10 * time.Second
	maxPushGapMillis = 10_000
)

// Envelope used for WebSocket messages. Data carries a models.Snapshot.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The dashboard is served from any origin, same as the relay's CORS policy.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stateStream pushes a snapshot whenever the store changes, at most once per
// gap. Changes inside the gap are coalesced into one trailing push.
type stateStream struct {
	conn     *websocket.Conn
	mon      service.Monitoring
	gap      time.Duration
	lastSent time.Time
}

func (s *stateStream) push() error {
	snap := s.mon.Snapshot()
	s.lastSent = time.Now()
	_ = s.conn.SetWriteDeadline(s.lastSent.Add(writeWait))
	return s.conn.WriteJSON(wsEnvelope{Type: "state", Data: snap})
}

// @Summary      Stream dashboard state
// @Description  WebSocket upgrade. Sends {"type":"state","data":<snapshot>} immediately and again after every state change, at most once per interval.
// @Tags         monitoring
// @Param        interval     query  string  false  "minimum gap between pushes, Go duration, max 10s"
// @Param        interval_ms  query  int     false  "minimum gap between pushes in milliseconds, max 10000"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	gap := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	stream := &stateStream{conn: conn, mon: h.services.Monitoring, gap: gap}
	if err := h.runStream(c, stream, done); err != nil && h.log != nil {
		h.log.Infow("ws_stream_closed", "err", err)
	}
}

// runStream sends the initial snapshot and then follows store changes until
// the client goes away or a write fails.
func (h *Handler) runStream(c *gin.Context, s *stateStream, done <-chan struct{}) error {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// fetched before the snapshot so no change slips between the two
	changed := s.mon.Changed()
	if err := s.push(); err != nil {
		return err
	}

	var flush <-chan time.Time
	for {
		select {
		case <-done:
			return nil
		case <-c.Request.Context().Done():
			return nil
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-changed:
			changed = s.mon.Changed()
			if flush != nil {
				continue
			}
			if wait := s.gap - time.Since(s.lastSent); wait > 0 {
				flush = time.After(wait)
				continue
			}
			if err := s.push(); err != nil {
				return err
			}
		case <-flush:
			flush = nil
			if err := s.push(); err != nil {
				return err
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxPushGap {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxPushGapMillis {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultPushGap
}

// startReader drains incoming frames so pongs are handled and a closed
// client is noticed.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}
