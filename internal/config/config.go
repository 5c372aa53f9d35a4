// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, an optional .env file and
//   the process environment, in that order.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "time"

// Log formats accepted by log_format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":4000".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file. ":memory:" keeps everything in RAM.
	DBPath string `koanf:"db_path"`

	// DBForeignKeys turns on SQLite foreign key enforcement for students.cohort_id.
	DBForeignKeys bool `koanf:"db_foreign_keys"`

	// DBBusyTimeoutMS bounds how long SQLite waits on a locked database.
	DBBusyTimeoutMS int `koanf:"db_busy_timeout_ms"`

	// NotFoundOnGet makes GET /{resource}/{id} answer 404 instead of 200 null
	// when no record matches.
	NotFoundOnGet bool `koanf:"not_found_on_get"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware. Empty allows any origin.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBucketsMS are the latency histogram buckets, in milliseconds.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          LogFormatText,
		Addr:               ":4000",
		DBPath:             "./data/lambda.db3",
		DBForeignKeys:      false,
		DBBusyTimeoutMS:    5000,
		NotFoundOnGet:      false,
		CORSAllowedOrigins: []string{},
		ShutdownTimeoutMS:  30_000,
		MetricsEnabled:     true,
		MetricsNamespace:   "roster",
		MetricsSubsystem:   "api",
		MetricsBucketsMS:   []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}
}

// BusyTimeout returns DBBusyTimeoutMS as a duration.
func (c *Config) BusyTimeout() time.Duration {
	return time.Duration(c.DBBusyTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
