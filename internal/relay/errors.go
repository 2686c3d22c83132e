package relay

import (
	"fmt"
	"net/http"

	sb "smart_breeder"
	"smart_breeder/internal/reachability"
)

func (f *Forwarder) configurationError() sb.ErrorResponse {
	host := reachability.Host(f.cfg.Address)
	return sb.ErrorResponse{
		Error: sb.KindConfiguration,
		Message: fmt.Sprintf(
			"Device address (%s) is a local network address and cannot be reached from the relay host.",
			f.cfg.Address),
		PossibleCauses: []string{
			"DEVICE_ADDRESS points at a private, link-local or loopback address",
			"The relay runs outside the network the device is attached to",
		},
		Solutions: []string{
			fmt.Sprintf("Expose the device through a tunnel (ngrok http %s:80) and set DEVICE_ADDRESS to the public URL", host),
			"Set up port forwarding on your router and use the public IP or domain",
			"Set relay.allow_local=true when the relay runs inside the device's network",
		},
	}
}

func (f *Forwarder) timeoutError() sb.ErrorResponse {
	return sb.ErrorResponse{
		Error: sb.KindGatewayTimeout,
		Message: fmt.Sprintf("Device at %s did not respond within %s.",
			f.cfg.Address, f.cfg.Timeout),
		PossibleCauses: []string{
			"Device is offline or not accessible from the internet",
			"DEVICE_ADDRESS is incorrect",
			"A network firewall is blocking the connection",
			"Device is on a local network (use a tunnel or port forwarding)",
		},
		Solutions: []string{
			"Verify the device is powered on and online",
			"Check the DEVICE_ADDRESS setting of the relay",
			fmt.Sprintf("Use a tunnel: ngrok http %s:80", reachability.Host(f.cfg.Address)),
			"Set up port forwarding on your router",
		},
	}
}

func (f *Forwarder) unavailableError() sb.ErrorResponse {
	return sb.ErrorResponse{
		Error:   sb.KindUnavailable,
		Message: fmt.Sprintf("Cannot connect to device at %s.", f.cfg.Address),
		PossibleCauses: []string{
			"Device is not accessible from the internet",
			"DEVICE_ADDRESS is incorrect or not set",
			"Device is on a local network (192.168.x.x)",
			"DNS resolution failed",
		},
		Solutions: []string{
			"Set the DEVICE_ADDRESS environment variable of the relay",
			"Use a tunnel to publish the device",
			"Configure port forwarding on your router",
			"Verify the device is online and reachable",
		},
	}
}

func (f *Forwarder) internalError(err error) Response {
	if f.log != nil {
		f.log.Errorw("relay_failed", "address", f.cfg.Address, "err", err)
	}
	body := sb.ErrorResponse{
		Error:   sb.KindInternal,
		Message: err.Error(),
	}
	if body.Message == "" {
		body.Message = "Failed to relay request to device"
	}
	if f.cfg.Diagnostics {
		body.Details = fmt.Sprintf("%T: %+v", err, err)
	}
	return Response{Status: http.StatusInternalServerError, Body: body}
}
