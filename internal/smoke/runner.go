package smoke

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/roster/pkg/logger"
)

// Defaults applied to zero Config fields.
const (
	DefaultWorkers   = 4
	DefaultTimeout   = 10 * time.Second
	healthPollPeriod = 200 * time.Millisecond
)

// ErrNoBaseURL is returned when Config has no BaseURL.
var ErrNoBaseURL = errors.New("smoke: base URL is required")

type runner struct {
	cfg    *Config
	client *HTTPClient
	stats  *Stats
}

// Run executes the lifecycle scenario and the load phase.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return Stats{}, ErrNoBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	cfg.Prefix = strings.TrimSuffix(cfg.Prefix, "/")
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	stats := Stats{StartTime: time.Now()}
	r := &runner{cfg: &cfg, client: newHTTPClient(&cfg), stats: &stats}
	tag := uuid.NewString()[:8]

	logger.Get().Info(ctx, "starting roster smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("prefix", cfg.Prefix),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers),
		logger.String("tag", tag),
	)

	// Step 1: Check service health
	if err := r.client.waitHealthy(ctx, healthPollPeriod); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Lifecycle scenario
	if err := r.scenario(ctx, tag); err != nil {
		return stats, fmt.Errorf("scenario failed: %w", err)
	}

	// Step 3: Concurrent inserts
	if err := r.load(ctx, tag); err != nil {
		return stats, fmt.Errorf("load failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logger.Get().Info(ctx, "smoke run passed",
		logger.Int("checks", stats.Checks),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}
