package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/jobmatch/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromConfig builds the limiter configuration from the service configuration.
func FromConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    cfg.DefaultLimit,
		DefaultWindow:   cfg.DefaultWindow,
		CleanupInterval: cfg.CleanupInterval,
		Whitelist:       ipSet(cfg.Whitelist),
		Blacklist:       ipSet(cfg.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: model-backed operations
		{Path: "/resume/analyze", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/resume/compare", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/assistant/chat", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/profiles/", Method: http.MethodPut, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/profiles/", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 2: pure computation
		{Path: "/match/calculate", Method: http.MethodPost, Limit: 300, Window: time.Minute, Burst: 50},
		{Path: "/salary/predict", Method: http.MethodPost, Limit: 300, Window: time.Minute, Burst: 50},

		// Tier 3: reads use the default limit
		// Tier 4: /health is unlimited, see MatchEndpoint
	}
}

// ipSet turns a list of addresses into a lookup set, ignoring blanks.
func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
