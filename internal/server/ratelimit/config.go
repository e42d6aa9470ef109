package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// defaultBucket is the bucket shared by every request that no endpoint rule
// covers.
const defaultBucket = "default"

// key identifies the bucket of a rule. Prefix rules share one bucket across
// the paths they cover, and the default rule has one bucket per client.
func (c *EndpointConfig) key() string {
	if c.Path == "" {
		return defaultBucket
	}
	return c.Method + " " + c.Path
}

// NewConfig builds the service configuration: requestsPerMinute and burst
// apply to every endpoint without a stricter rule.
func NewConfig(enabled bool, requestsPerMinute, burst int) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    requestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the stricter limits of credential endpoints.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/signup", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/me/registrations", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
	}
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when no rule applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{} // unlimited
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
