// Package service owns the database lifecycle and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/roster/internal/adapters/database"
	"github.com/okian/roster/internal/adapters/http/api"
	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// ErrNotStarted is returned by operations that need an open database.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the roster.
type Service struct {
	mu sync.RWMutex

	// Core components
	db       *sql.DB
	cohorts  *repository.Cohorts
	students *repository.Students

	// Configuration
	dbOptions     database.Options
	statsInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatabase sets how the database is opened.
func WithDatabase(opts database.Options) Option {
	return func(s *Service) {
		if opts.Path != "" {
			s.dbOptions = opts
		}
	}
}

// WithStatsInterval sets how often table row gauges are refreshed.
// Zero disables the refresher.
func WithStatsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.statsInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbOptions:     database.Options{Path: "./data/lambda.db3", BusyTimeout: 5 * time.Second},
		statsInterval: 30 * time.Second,
		stopCh:        make(chan struct{}),
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the database, applies migrations and builds the repositories.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting roster service...",
		logger.String("db_path", s.dbOptions.Path),
		logger.Bool("foreign_keys", s.dbOptions.ForeignKeys),
	)

	db, err := database.Open(ctx, s.dbOptions)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if err := database.Migrate(ctx, db, s.logger.Named("migrate")); err != nil {
		_ = db.Close()
		return fmt.Errorf("service: %w", err)
	}

	repoLog := repository.WithLogger(s.logger.Named("repository"))
	s.db = db
	s.cohorts = repository.NewCohorts(db, repoLog)
	s.students = repository.NewStudents(db, repoLog)
	s.stopCh = make(chan struct{})
	s.started = true

	if s.statsInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(s.stopCh)
	}

	s.logger.Info(ctx, "roster service started")
	return nil
}

// Stop closes the database and stops background work.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.logger.Info(context.Background(), "stopping roster service...")
	close(s.stopCh)
	s.mu.Unlock()

	// refreshLoop takes the read lock, so wait outside the write lock.
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close database", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "roster service stopped")
}

// Cohorts returns the cohort repository.
func (s *Service) Cohorts() api.CohortStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cohorts
}

// Students returns the student repository.
func (s *Service) Students() api.StudentStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.students
}

// DB returns the open database handle, or nil before Start.
func (s *Service) DB() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Ping reports whether the database answers.
func (s *Service) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return database.HealthCheck(ctx, s.db)
}

// GetStats returns service statistics for monitoring and refreshes the
// table row gauges.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"db_path":      s.dbOptions.Path,
		"foreign_keys": s.dbOptions.ForeignKeys,
	}
	if !s.started {
		return stats
	}

	if v, err := database.SchemaVersion(ctx, s.db); err == nil {
		stats["schema_version"] = v
	}
	for table, n := range s.countRows(ctx) {
		stats[table] = n
	}
	return stats
}

// countRows must be called with s.mu held.
func (s *Service) countRows(ctx context.Context) map[string]int64 {
	out := make(map[string]int64, 2)
	counters := map[string]func(context.Context) (int64, error){
		model.TableCohorts:  s.cohorts.Count,
		model.TableStudents: s.students.Count,
	}
	for table, count := range counters {
		n, err := count(ctx)
		if err != nil {
			s.logger.Warn(ctx, "failed to count rows", logger.String("table", table), logger.Error(err))
			continue
		}
		out[table] = n
		metrics.UpdateTableRows(table, n)
	}
	return out
}

func (s *Service) refreshLoop(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.RLock()
			s.countRows(context.Background())
			s.mu.RUnlock()
		}
	}
}
