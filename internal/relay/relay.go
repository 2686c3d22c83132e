// Package relay forwards dashboard requests to the device's plain-HTTP API and
// turns every transport failure into a structured error payload.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"smart_breeder/internal/logger"
	"smart_breeder/internal/reachability"
)

const (
	DefaultTimeout  = 15 * time.Second
	maxUpstreamBody = 1 << 20 // 1 MB
	contentTypeJSON = "application/json"
)

// Config is process-wide and read-only at request time.
type Config struct {
	Address     string        // device address, with or without scheme
	Timeout     time.Duration // hard limit for one forwarded call
	AllowLocal  bool          // skip the reachability short-circuit
	Diagnostics bool          // include error details in 500 payloads
}

// Request is one inbound call to be forwarded.
type Request struct {
	Method   string
	SubPath  string // path below /api on the device, e.g. "status" or "species/list"
	RawQuery string
	Body     any // []byte and string pass through, anything else is JSON-encoded
}

// Response is what the relay answers with: the mirrored upstream status and a
// JSON-encodable body (json.RawMessage, string or an ErrorResponse).
type Response struct {
	Status int
	Body   any
}

// Forwarder is safe for concurrent use.
type Forwarder struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
}

func NewForwarder(cfg Config, log *logger.Logger) *Forwarder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Forwarder{
		cfg:    cfg,
		client: &http.Client{},
		log:    log,
	}
}

// Address returns the configured device address.
func (f *Forwarder) Address() string { return f.cfg.Address }

// BaseURL returns the device base URL, defaulting the scheme to http.
func (f *Forwarder) BaseURL() string {
	return BaseURL(f.cfg.Address)
}

// BaseURL prefixes address with http:// unless it already has a scheme,
// which is lowercased.
func BaseURL(address string) string {
	a := strings.TrimSuffix(strings.TrimSpace(address), "/")
	lower := strings.ToLower(a)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		i := strings.Index(a, "://")
		return lower[:i] + a[i:]
	}
	return "http://" + a
}

// TargetURL builds <base>/api/<subPath>.
func (f *Forwarder) TargetURL(subPath, rawQuery string) string {
	u := f.BaseURL() + "/api/" + strings.TrimPrefix(subPath, "/")
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// Forward never returns an error: every outcome is a Response.
func (f *Forwarder) Forward(ctx context.Context, req Request) Response {
	if !f.cfg.AllowLocal && reachability.IsLocal(f.cfg.Address) {
		if f.log != nil {
			f.log.Errorw("relay_local_address",
				"address", f.cfg.Address,
				"hint", "local addresses are not reachable from the relay host")
		}
		return Response{Status: http.StatusServiceUnavailable, Body: f.configurationError()}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	target := f.TargetURL(req.SubPath, req.RawQuery)
	if f.log != nil {
		f.log.Infow("relay_forward",
			"method", method,
			"sub_path", req.SubPath,
			"target", target,
			"address", f.cfg.Address)
	}

	body, err := encodeBody(method, req.Body)
	if err != nil {
		return f.internalError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return f.internalError(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return f.transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return f.transportError(err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), contentTypeJSON) {
		if !json.Valid(raw) {
			return f.internalError(errors.New("device returned malformed JSON"))
		}
		return Response{Status: resp.StatusCode, Body: json.RawMessage(raw)}
	}
	return Response{Status: resp.StatusCode, Body: string(raw)}
}

// encodeBody returns nil for GET/HEAD and for empty bodies.
func encodeBody(method string, body any) (io.Reader, error) {
	if method == http.MethodGet || method == http.MethodHead || body == nil {
		return nil, nil
	}
	switch b := body.(type) {
	case []byte:
		if len(b) == 0 {
			return nil, nil
		}
		return strings.NewReader(string(b)), nil
	case string:
		if b == "" {
			return nil, nil
		}
		return strings.NewReader(b), nil
	case json.RawMessage:
		if len(b) == 0 {
			return nil, nil
		}
		return strings.NewReader(string(b)), nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		return strings.NewReader(string(encoded)), nil
	}
}

func (f *Forwarder) transportError(err error) Response {
	switch {
	case isTimeout(err):
		if f.log != nil {
			f.log.Errorw("relay_timeout", "address", f.cfg.Address, "timeout", f.cfg.Timeout, "err", err)
		}
		return Response{Status: http.StatusGatewayTimeout, Body: f.timeoutError()}
	case isUnreachable(err):
		if f.log != nil {
			f.log.Errorw("relay_unreachable", "address", f.cfg.Address, "err", err)
		}
		return Response{Status: http.StatusServiceUnavailable, Body: f.unavailableError()}
	default:
		return f.internalError(err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
