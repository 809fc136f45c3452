package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig holds the proxy ranges whose forwarding headers are trusted.
type IPConfig struct {
	TrustedProxies []netip.Prefix
}

// NewIPConfig parses CIDR strings, skipping any that are malformed.
func NewIPConfig(cidrs []string) *IPConfig {
	cfg := &IPConfig{}
	for _, c := range cidrs {
		if p, err := netip.ParsePrefix(strings.TrimSpace(c)); err == nil {
			cfg.TrustedProxies = append(cfg.TrustedProxies, p)
		}
	}
	return cfg
}

// ExtractClientIP returns the caller's address for audit records.
// X-Forwarded-For and X-Real-IP are honoured only when the direct peer
// is a trusted proxy; otherwise the socket address wins.
func ExtractClientIP(r *http.Request, cfg *IPConfig) string {
	remote := remoteAddr(r)
	if cfg == nil || !cfg.trusts(remote) {
		return remote
	}

	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if addr, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	return remote
}

func (c *IPConfig) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range c.TrustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
