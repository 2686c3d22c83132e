// Package device talks to the tank controller, either directly over the LAN or
// through the server's relay when the dashboard is served from a secure origin.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	sb "smart_breeder"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/relay"
	"smart_breeder/internal/species"
)

// Mode is the transport selected at startup.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeRelay  Mode = "relay"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultPingTimeout = 3 * time.Second
	DefaultRelayPrefix = "/api/proxy"

	// relayTimeout outlasts the relay's own 15s limit so its 504 payload reaches us.
	relayTimeout = relay.DefaultTimeout + 5*time.Second
	maxBody      = 1 << 20
)

var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// ValidAddress reports whether address looks like a dotted quad. Octets are not
// range checked.
func ValidAddress(address string) bool {
	return ipv4Pattern.MatchString(address)
}

// SelectMode picks relay mode for https origins and direct mode otherwise.
func SelectMode(origin string) Mode {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(origin)), "https://") {
		return ModeRelay
	}
	return ModeDirect
}

// AddressStore persists the direct-mode device address.
type AddressStore interface {
	SaveDeviceAddress(ctx context.Context, address string) error
}

type Options struct {
	Origin      string // where the dashboard is served from
	Address     string // device address used in direct mode
	RelayPrefix string
	Timeout     time.Duration
	PingTimeout time.Duration
	Addresses   AddressStore // optional
}

// CalibrationRequest is the body of POST /api/calibrate.
type CalibrationRequest struct {
	Action string   `json:"action"` // "ph7", "ph4" or "temp"
	Offset *float64 `json:"offset,omitempty"`
}

// Valid reports whether the action is known; a temperature calibration needs an offset.
func (r CalibrationRequest) Valid() bool {
	switch r.Action {
	case "ph7", "ph4":
		return true
	case "temp":
		return r.Offset != nil
	}
	return false
}

// Client is safe for concurrent use. Address changes apply to the next call.
type Client struct {
	mode        Mode
	origin      string
	prefix      string
	timeout     time.Duration
	pingTimeout time.Duration
	addresses   AddressStore
	http        *http.Client
	log         *logger.Logger

	mu      sync.RWMutex
	address string
}

func NewClient(opts Options, log *logger.Logger) *Client {
	mode := SelectMode(opts.Origin)
	if opts.RelayPrefix == "" {
		opts.RelayPrefix = DefaultRelayPrefix
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
		if mode == ModeRelay {
			opts.Timeout = relayTimeout
		}
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = DefaultPingTimeout
	}
	return &Client{
		mode:        mode,
		origin:      strings.TrimSuffix(strings.TrimSpace(opts.Origin), "/"),
		prefix:      "/" + strings.Trim(opts.RelayPrefix, "/"),
		timeout:     opts.Timeout,
		pingTimeout: opts.PingTimeout,
		addresses:   opts.Addresses,
		http:        &http.Client{},
		log:         log,
		address:     strings.TrimSpace(opts.Address),
	}
}

func (c *Client) Mode() Mode { return c.mode }

// Address returns what error messages call "the device": the configured
// address in direct mode, the relay endpoint in relay mode.
func (c *Client) Address() string {
	if c.mode == ModeRelay {
		return c.origin + c.prefix
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

// SetAddress retargets the client. It fails with ErrInvalidAddress on a
// malformed address and with ErrRelayMode, changing nothing, in relay mode.
func (c *Client) SetAddress(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if !ValidAddress(address) {
		return ErrInvalidAddress
	}
	if c.mode == ModeRelay {
		if c.log != nil {
			c.log.Warnw("device_address_ignored", "address", address, "reason", "relay mode")
		}
		return ErrRelayMode
	}
	if c.addresses != nil {
		if err := c.addresses.SaveDeviceAddress(ctx, address); err != nil {
			return fmt.Errorf("persisting device address: %w", err)
		}
	}
	c.mu.Lock()
	c.address = address
	c.mu.Unlock()
	if c.log != nil {
		c.log.Infow("device_address_changed", "address", address)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	if c.mode == ModeRelay {
		return c.origin + c.prefix + "/" + path
	}
	c.mu.RLock()
	base := relay.BaseURL(c.address)
	c.mu.RUnlock()
	return base + "/api/" + path
}

// GetStatus reads the device state. Data is a models.DeviceReading.
func (c *Client) GetStatus(ctx context.Context) sb.Result {
	var raw map[string]any
	res := c.call(ctx, c.timeout, http.MethodGet, "status", nil, &raw,
		"Device status retrieved successfully", "Failed to connect to device")
	if res.Success {
		res.Data = NormalizeReading(raw)
	}
	return res
}

// SendControl posts a partial relay map; the device applies only the given keys.
func (c *Client) SendControl(ctx context.Context, relays map[string]bool) sb.Result {
	return c.call(ctx, c.timeout, http.MethodPost, "control", relays, nil,
		"Control command sent successfully", "Failed to send control command")
}

// SendSpeciesConfig posts a species.Descriptor or the species.None sentinel.
func (c *Client) SendSpeciesConfig(ctx context.Context, payload any) sb.Result {
	return c.call(ctx, c.timeout, http.MethodPost, "species", payload, nil,
		"Species configuration sent successfully", "Failed to send species configuration")
}

func (c *Client) SendWifiConfig(ctx context.Context, cfg models.WifiConfig) sb.Result {
	return c.call(ctx, c.timeout, http.MethodPost, "wifi", cfg, nil,
		"Wi-Fi configuration sent successfully", "Failed to send Wi-Fi configuration")
}

// Ping is a liveness probe with the shorter ping timeout.
func (c *Client) Ping(ctx context.Context) sb.Result {
	return c.call(ctx, c.pingTimeout, http.MethodGet, "ping", nil, nil,
		"Connection successful", "Connection failed")
}

// ListSpecies reads the device catalog. Data is a []species.DeviceSpecies.
func (c *Client) ListSpecies(ctx context.Context) sb.Result {
	var list []species.DeviceSpecies
	res := c.call(ctx, c.timeout, http.MethodGet, "species/list", nil, &list,
		"Species list retrieved successfully", "Failed to fetch species list")
	if res.Success {
		res.Data = list
	}
	return res
}

func (c *Client) Calibrate(ctx context.Context, req CalibrationRequest) sb.Result {
	return c.call(ctx, c.timeout, http.MethodPost, "calibrate", req, nil,
		"Calibration command sent successfully", "Failed to send calibration command")
}

// call never returns an error: failures are folded into the Result message.
// When out is nil the decoded body, if any, becomes Data.
func (c *Client) call(ctx context.Context, timeout time.Duration, method, path string, payload, out any, okMsg, failMsg string) sb.Result {
	body, err := c.do(ctx, timeout, method, path, payload)
	if err != nil {
		msg := NormalizeError(err, c.Address(), failMsg)
		if c.log != nil {
			c.log.Warnw("device_request_failed",
				"method", method,
				"path", path,
				"class", Classify(err).String(),
				"err", err,
			)
		}
		return sb.Result{Success: false, Message: msg}
	}

	res := sb.Result{Success: true, Message: okMsg}
	if len(bytes.TrimSpace(body)) == 0 {
		return res
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			if c.log != nil {
				c.log.Warnw("device_response_invalid", "path", path, "err", err)
			}
			return sb.Result{Success: false, Message: failMsg}
		}
		return res
	}
	var data any
	if json.Unmarshal(body, &data) == nil {
		res.Data = data
	} else {
		res.Data = string(body)
	}
	return res
}

func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		up := &UpstreamError{Status: resp.StatusCode}
		if isJSON(resp.Header.Get("Content-Type")) || json.Valid(body) {
			up.Message = upstreamMessage(body)
		}
		return nil, up
	}
	return body, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
