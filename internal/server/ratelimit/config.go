package ratelimit

import (
	"strings"
	"time"

	"github.com/Kartik4138/Resume-enhancer/internal/config"
)

// EndpointConfig is the limit applied to one route.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity, Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromSettings builds the limiter configuration from application settings.
func FromSettings(s config.RateLimitConfig) *Config {
	return &Config{
		Enabled:         s.Enabled,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTTL:         time.Hour,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Login codes are emailed; keep them scarce.
		{Path: "/auth/request-otp", Method: "POST", Limit: 5, Window: 10 * time.Minute, Burst: 3},
		{Path: "/auth/verify-otp", Method: "POST", Limit: 10, Window: 10 * time.Minute, Burst: 5},
		{Path: "/auth/refresh", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},

		// Model calls and file parsing
		{Path: "/ats/score", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/resumes/upload", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/jobs/analyze", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}
	return set
}
