package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"smart_breeder/internal/models"
	"smart_breeder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, "", nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialStream(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(s))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) models.Snapshot {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Type != "state" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	return snap
}

func TestWebSocket_StateStream_InitialAndOnChange(t *testing.T) {
	mon := &mockMonitoring{snapshot: models.Snapshot{
		Reading: &models.DeviceReading{PH: 7.4, Temperature: 27.9, WaterHeater: true},
		Status:  models.ConnectionStatus{Connected: true},
		Health:  models.HealthWarning,
	}}
	conn := dialStream(t, &service.Service{Monitoring: mon}, "interval_ms=20")

	snap := readSnapshot(t, conn)
	if snap.Reading == nil || snap.Reading.PH != 7.4 || !snap.Reading.WaterHeater {
		t.Fatalf("unexpected reading: %+v", snap.Reading)
	}
	if !snap.Status.Connected || snap.Health != models.HealthWarning {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	mon.setSnapshot(models.Snapshot{Reading: &models.DeviceReading{PH: 7.1}})
	if snap := readSnapshot(t, conn); snap.Reading == nil || snap.Reading.PH != 7.1 {
		t.Fatalf("change not pushed: %+v", snap.Reading)
	}
}

func TestWebSocket_NoPushWithoutChange(t *testing.T) {
	mon := &mockMonitoring{}
	conn := dialStream(t, &service.Service{Monitoring: mon}, "interval_ms=10")
	_ = readSnapshot(t, conn)

	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var env envelope
	if err := conn.ReadJSON(&env); err == nil {
		t.Fatalf("unexpected push without a change: %+v", env)
	}
}

func TestWebSocket_CoalescesChangesInsideGap(t *testing.T) {
	mon := &mockMonitoring{}
	conn := dialStream(t, &service.Service{Monitoring: mon}, "interval=200ms")
	_ = readSnapshot(t, conn)

	for _, ph := range []float64{6.9, 7.0, 7.3} {
		mon.setSnapshot(models.Snapshot{Reading: &models.DeviceReading{PH: ph}})
	}

	snap := readSnapshot(t, conn)
	if snap.Reading == nil || snap.Reading.PH != 7.3 {
		t.Fatalf("expected one push with the latest state, got %+v", snap.Reading)
	}
}

func TestWebSocket_FollowsStoreChanges(t *testing.T) {
	mon := &mockMonitoring{snapshot: models.Snapshot{Status: models.ConnectionStatus{Connected: true}}}
	conn := dialStream(t, &service.Service{Monitoring: mon}, "interval=20ms")

	if snap := readSnapshot(t, conn); !snap.Status.Connected {
		t.Fatalf("expected connected in first snapshot: %+v", snap.Status)
	}

	mon.setSnapshot(models.Snapshot{
		Status: models.ConnectionStatus{Connected: false},
		Error:  "Cannot reach the device",
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		snap := readSnapshot(t, conn)
		if !snap.Status.Connected && snap.Error == "Cannot reach the device" {
			return
		}
	}
	t.Fatal("stream never reported the disconnect")
}
