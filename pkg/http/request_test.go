package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	trusted := pkghttp.NewIPConfig([]string{"10.0.0.0/8", "::1/128", "not-a-cidr"})

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		cfg    *pkghttp.IPConfig
		want   string
	}{
		{"direct client ignores headers", "203.0.113.10:54321", "1.2.3.4", "5.6.7.8", trusted, "203.0.113.10"},
		{"trusted proxy uses first forwarded ip", "10.0.0.5:80", "203.0.113.42, 10.0.0.5", "", trusted, "203.0.113.42"},
		{"trusted proxy falls back to real ip", "10.0.0.5:80", "", "203.0.113.7", trusted, "203.0.113.7"},
		{"ipv6 trusted proxy", "[::1]:9000", "2001:db8::1", "", trusted, "2001:db8::1"},
		{"nil config trusts nothing", "203.0.113.10:1", "1.2.3.4", "", nil, "203.0.113.10"},
		{"garbage forwarded header", "10.0.0.5:80", "nonsense", "", trusted, "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, pkghttp.ExtractClientIP(req, tt.cfg))
		})
	}
}

func TestNewIPConfig_SkipsInvalid(t *testing.T) {
	cfg := pkghttp.NewIPConfig([]string{"invalid", " 172.16.0.0/12 "})
	assert.Len(t, cfg.TrustedProxies, 1)
}
