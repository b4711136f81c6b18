package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/formguard/pkg/rules"
)

// Config configures a Server.
type Config struct {
	// Address is the listen address. Default: ":8080".
	Address string

	// ReadLimit caps request bodies and live messages in bytes.
	// Default: 1 MiB.
	ReadLimit int64

	// DefaultSelector is used when a request names no form selector.
	// Default: "form".
	DefaultSelector string

	// AllowedOrigins lists extra origins permitted to open live
	// connections. Same-origin requests are always allowed; "*" allows all.
	AllowedOrigins []string

	// Validators are custom validators made available to every form.
	Validators map[string]rules.Validator

	// Logger receives request and session records. Default: slog.Default().
	Logger *slog.Logger

	// Metrics enables Prometheus collectors and the metrics endpoint.
	Metrics bool

	// MetricsNamespace prefixes metric names. Default: "formguard".
	MetricsNamespace string

	// MetricsPath is where the metrics endpoint is mounted. Default: "/metrics".
	MetricsPath string

	// Registry receives the collectors and backs the metrics endpoint.
	// Default: a fresh prometheus.Registry.
	Registry *prometheus.Registry

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout, WriteTimeout and IdleTimeout are passed to
	// http.Server. Zero values take the defaults below.
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// PingInterval is how often live connections are pinged. A connection
	// that sends nothing (not even a pong) for twice this long is closed.
	// Default: 30s.
	PingInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadLimit:         1 << 20,
		DefaultSelector:   "form",
		MetricsNamespace:  "formguard",
		MetricsPath:       "/metrics",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		PingInterval:      30 * time.Second,
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = d.ReadLimit
	}
	if c.DefaultSelector == "" {
		c.DefaultSelector = d.DefaultSelector
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = d.PingInterval
	}
}

// SameOriginCheck reports whether the request's Origin matches its host.
// Requests without an Origin header (curl, same-origin navigation) pass.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

// originChecker builds a websocket CheckOrigin that accepts same-origin
// requests plus the listed origins.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSuffix(strings.ToLower(o), "/")] = true
	}
	return func(r *http.Request) bool {
		if set["*"] || SameOriginCheck(r) {
			return true
		}
		return set[strings.ToLower(r.Header.Get("Origin"))]
	}
}
