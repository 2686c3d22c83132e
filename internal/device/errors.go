package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

var (
	ErrInvalidAddress = errors.New("invalid IP address format: expected four dot-separated groups of 1-3 digits")
	ErrRelayMode      = errors.New("device address is fixed by the relay configuration")
)

// ErrorClass is the bucket a failed device call falls into.
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassTimeout
	ClassUnreachable
	ClassUpstream
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTimeout:
		return "timeout"
	case ClassUnreachable:
		return "network_unreachable"
	case ClassUpstream:
		return "upstream_error"
	default:
		return "unknown"
	}
}

// UpstreamError is a non-2xx answer from the device or the relay.
type UpstreamError struct {
	Status  int
	Message string // extracted from the body's "message" or "error" field, may be empty
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("device responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("device responded %d", e.Status)
}

// Classify maps a transport error onto an ErrorClass.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassUnknown
	}
	var up *UpstreamError
	if errors.As(err, &up) {
		if up.Message != "" {
			return ClassUpstream
		}
		return ClassUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.As(err, &dnsErr),
		errors.As(err, &opErr):
		return ClassUnreachable
	}
	return ClassUnknown
}

// NormalizeError turns err into the message shown to the user. Timeouts and
// unreachable devices mention address; upstream errors surface the device's own
// message; everything else falls back to fallback.
func NormalizeError(err error, address, fallback string) string {
	switch Classify(err) {
	case ClassTimeout:
		return fmt.Sprintf(
			"Request timed out: the device at %s did not respond. Check that it is powered on and connected to Wi-Fi.",
			address)
	case ClassUnreachable:
		return fmt.Sprintf(
			"Cannot reach the device at %s. Check the IP address and make sure you are on the same network.",
			address)
	case ClassUpstream:
		var up *UpstreamError
		errors.As(err, &up)
		return up.Message
	default:
		return fallback
	}
}

// upstreamMessage pulls a human message out of an error body.
func upstreamMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
