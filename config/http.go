package config

import (
	"strings"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8000"`

	// APIPrefix mounts the versioned API.
	APIPrefix string `env:"API_PREFIX" envDefault:"/api/v1"`

	// FrontendURL is where the SPA lives; login callbacks redirect there.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// CORSAllowedOrigins lists extra origins allowed besides FrontendURL.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,https://localhost:3000,http://localhost:3001" envSeparator:","`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8000"
	}
	h.APIPrefix = "/" + strings.Trim(strings.TrimSpace(h.APIPrefix), "/")
	if h.APIPrefix == "/" {
		h.APIPrefix = ""
	}
	h.FrontendURL = strings.TrimRight(strings.TrimSpace(h.FrontendURL), "/")
	h.CORSAllowedOrigins = normalizeList(h.CORSAllowedOrigins, func(s string) string {
		return strings.TrimRight(s, "/")
	})
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

// AllowedOrigins returns the CORS origin list including FrontendURL, without duplicates.
func (h HTTPConfig) AllowedOrigins() []string {
	seen := make(map[string]struct{}, len(h.CORSAllowedOrigins)+1)
	out := make([]string, 0, len(h.CORSAllowedOrigins)+1)
	for _, o := range append([]string{h.FrontendURL}, h.CORSAllowedOrigins...) {
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
