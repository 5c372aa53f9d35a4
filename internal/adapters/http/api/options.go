package api

import "github.com/okian/roster/pkg/logger"

type serverConfig struct {
	logger        logger.Logger
	notFoundOnGet bool
	corsOrigins   []string
	health        HealthChecker
	stats         StatsProvider
}

// Option configures a Server.
type Option func(*serverConfig)

// WithLogger sets the logger used by handlers and the access log.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotFoundOnGet makes GET by id answer 404 instead of 200 with a null
// body when the record does not exist.
func WithNotFoundOnGet(enabled bool) Option {
	return func(c *serverConfig) {
		c.notFoundOnGet = enabled
	}
}

// WithCORSOrigins sets the allowed CORS origins. Empty allows any origin.
func WithCORSOrigins(origins []string) Option {
	return func(c *serverConfig) {
		c.corsOrigins = origins
	}
}

// WithHealthChecker sets the dependency pinged by /healthz.
func WithHealthChecker(h HealthChecker) Option {
	return func(c *serverConfig) {
		c.health = h
	}
}

// WithStatsProvider sets the source of /stats.
func WithStatsProvider(p StatsProvider) Option {
	return func(c *serverConfig) {
		c.stats = p
	}
}
