// Package reachability decides whether a configured device address can only
// be reached from inside a private network.
package reachability

import (
	"net/netip"
	"strings"
)

// Classification is the outcome of Classify.
type Classification struct {
	Local bool `json:"local"`
}

var privateBlocks = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("169.254.0.0/16"),
}

var loopback = netip.MustParseAddr("127.0.0.1")

// Classify reports whether address is localhost or inside a private IPv4 block.
// Scheme, port and any path are ignored. Everything else is assumed publicly routable.
func Classify(address string) Classification {
	host := Host(address)
	if host == "" {
		return Classification{}
	}
	if strings.EqualFold(host, "localhost") {
		return Classification{Local: true}
	}
	ip, err := netip.ParseAddr(trimOctetZeros(host))
	if err != nil || !ip.Is4() {
		return Classification{}
	}
	if ip == loopback {
		return Classification{Local: true}
	}
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return Classification{Local: true}
		}
	}
	return Classification{}
}

// IsLocal is shorthand for Classify(address).Local.
func IsLocal(address string) bool {
	return Classify(address).Local
}

// trimOctetZeros rewrites 192.168.000.001 as 192.168.0.1. Anything that is
// not four groups of digits is returned unchanged.
func trimOctetZeros(host string) string {
	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return host
	}
	for i, o := range octets {
		if o == "" || strings.Trim(o, "0123456789") != "" {
			return host
		}
		if o = strings.TrimLeft(o, "0"); o == "" {
			o = "0"
		}
		octets[i] = o
	}
	return strings.Join(octets, ".")
}

// Host strips scheme, path and port from address.
func Host(address string) string {
	s := strings.TrimSpace(address)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}
