package relay

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sb "smart_breeder"
)

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, io.EOF
}

func newLocalForwarder(t *testing.T, srv *httptest.Server, timeout time.Duration) *Forwarder {
	t.Helper()
	return NewForwarder(Config{
		Address:    srv.URL,
		Timeout:    timeout,
		AllowLocal: true, // httptest listens on 127.0.0.1
	}, nil)
}

func TestForward_LocalAddressShortCircuits(t *testing.T) {
	f := NewForwarder(Config{Address: "192.168.0.111"}, nil)
	tr := &countingTransport{}
	f.client.Transport = tr

	resp := f.Forward(context.Background(), Request{Method: http.MethodGet, SubPath: "status"})

	if resp.Status != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", resp.Status)
	}
	body, ok := resp.Body.(sb.ErrorResponse)
	if !ok {
		t.Fatalf("body type %T, want ErrorResponse", resp.Body)
	}
	if body.Error != sb.KindConfiguration || body.Success {
		t.Fatalf("unexpected body: %+v", body)
	}
	if !strings.Contains(body.Message, "192.168.0.111") || len(body.Solutions) == 0 {
		t.Fatalf("message/solutions missing: %+v", body)
	}
	if tr.calls.Load() != 0 {
		t.Fatalf("expected no outbound call, got %d", tr.calls.Load())
	}
}

func TestTargetURL(t *testing.T) {
	cases := []struct {
		addr, sub, query, want string
	}{
		{"192.168.0.111", "status", "", "http://192.168.0.111/api/status"},
		{"http://10.0.0.2:8080/", "/species/list", "", "http://10.0.0.2:8080/api/species/list"},
		{"https://tank.example.com", "control", "a=1", "https://tank.example.com/api/control?a=1"},
		{"HTTPS://Tank.example.com", "status", "", "https://Tank.example.com/api/status"},
		{"Http://10.0.0.2", "ping", "", "http://10.0.0.2/api/ping"},
	}
	for _, tc := range cases {
		f := NewForwarder(Config{Address: tc.addr}, nil)
		if got := f.TargetURL(tc.sub, tc.query); got != tc.want {
			t.Errorf("TargetURL(%q,%q) on %q = %q, want %q", tc.sub, tc.query, tc.addr, got, tc.want)
		}
	}
}

func TestForward_JSONResponseMirrored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" || r.Method != http.MethodGet {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ph":7.1,"temperature":27.5,"fan":true}`))
	}))
	defer srv.Close()

	resp := newLocalForwarder(t, srv, time.Second).Forward(context.Background(),
		Request{Method: http.MethodGet, SubPath: "status"})

	if resp.Status != http.StatusOK {
		t.Fatalf("status=%d", resp.Status)
	}
	raw, ok := resp.Body.(json.RawMessage)
	if !ok {
		t.Fatalf("body type %T, want json.RawMessage", resp.Body)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["ph"] != 7.1 || got["fan"] != true {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestForward_TextResponseAndUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not Found"))
	}))
	defer srv.Close()

	resp := newLocalForwarder(t, srv, time.Second).Forward(context.Background(),
		Request{Method: http.MethodGet, SubPath: "nope"})

	if resp.Status != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.Status)
	}
	if s, ok := resp.Body.(string); !ok || s != "Not Found" {
		t.Fatalf("body=%#v", resp.Body)
	}
}

func TestForward_BodyEncoding(t *testing.T) {
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = append(received, r.Method+" "+string(b))
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type=%q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	f := newLocalForwarder(t, srv, time.Second)
	ctx := context.Background()
	f.Forward(ctx, Request{Method: http.MethodPost, SubPath: "control", Body: map[string]bool{"fan": true}})
	f.Forward(ctx, Request{Method: http.MethodPost, SubPath: "species", Body: `{"type":0}`})
	f.Forward(ctx, Request{Method: http.MethodPost, SubPath: "wifi", Body: []byte(`{"ssid":"x"}`)})
	f.Forward(ctx, Request{Method: http.MethodGet, SubPath: "status", Body: "ignored"})

	want := []string{
		`POST {"fan":true}`,
		`POST {"type":0}`,
		`POST {"ssid":"x"}`,
		`GET `,
	}
	if len(received) != len(want) {
		t.Fatalf("received %d requests, want %d", len(received), len(want))
	}
	for i := range want {
		if received[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, received[i], want[i])
		}
	}
}

func TestForward_TimeoutAbortsUpstream(t *testing.T) {
	var hits atomic.Int32
	aborted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
			close(aborted)
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	resp := newLocalForwarder(t, srv, 50*time.Millisecond).Forward(context.Background(),
		Request{Method: http.MethodGet, SubPath: "status"})

	if resp.Status != http.StatusGatewayTimeout {
		t.Fatalf("status=%d, want 504", resp.Status)
	}
	body := resp.Body.(sb.ErrorResponse)
	if body.Error != "Gateway Timeout" {
		t.Fatalf("error=%q", body.Error)
	}
	if len(body.PossibleCauses) == 0 || len(body.Solutions) == 0 {
		t.Fatalf("expected causes and solutions: %+v", body)
	}

	select {
	case <-aborted:
	case <-time.After(time.Second):
		t.Fatal("upstream request was not cancelled")
	}
	if hits.Load() != 1 {
		t.Fatalf("upstream hit %d times, want exactly 1", hits.Load())
	}
}

func TestForward_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	f := NewForwarder(Config{Address: addr, Timeout: time.Second, AllowLocal: true}, nil)
	resp := f.Forward(context.Background(), Request{Method: http.MethodGet, SubPath: "status"})

	if resp.Status != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", resp.Status)
	}
	if body := resp.Body.(sb.ErrorResponse); body.Error != sb.KindUnavailable {
		t.Fatalf("error=%q", body.Error)
	}
}

func TestForward_MalformedJSONIsInternalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ph":`))
	}))
	defer srv.Close()

	f := newLocalForwarder(t, srv, time.Second)
	resp := f.Forward(context.Background(), Request{Method: http.MethodGet, SubPath: "status"})
	if resp.Status != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", resp.Status)
	}
	body := resp.Body.(sb.ErrorResponse)
	if body.Details != "" {
		t.Fatalf("details must be omitted in production mode, got %q", body.Details)
	}

	f.cfg.Diagnostics = true
	resp = f.Forward(context.Background(), Request{Method: http.MethodGet, SubPath: "status"})
	if resp.Body.(sb.ErrorResponse).Details == "" {
		t.Fatal("expected details in diagnostics mode")
	}
}
