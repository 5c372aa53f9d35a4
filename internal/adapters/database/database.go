// Package database opens the embedded SQLite store and keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver used for the store.
const DriverName = "sqlite"

const healthCheckTimeout = 5 * time.Second

// Options configures Open.
type Options struct {
	// Path is the database file, or ":memory:".
	Path string
	// ForeignKeys enables PRAGMA foreign_keys for the connection.
	ForeignKeys bool
	// BusyTimeout sets PRAGMA busy_timeout. Zero leaves SQLite's default.
	BusyTimeout time.Duration
}

// DSN renders o as a modernc.org/sqlite data source name.
func (o Options) DSN() string {
	q := url.Values{}
	if o.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.BusyTimeout.Milliseconds()))
	}
	if o.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	} else {
		q.Add("_pragma", "foreign_keys(0)")
	}
	return o.Path + "?" + q.Encode()
}

// Open opens the database with a single shared connection and pings it.
// The parent directory of a file database is created when missing.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	if strings.TrimSpace(o.Path) == "" {
		return nil, fmt.Errorf("database: empty path")
	}
	if !IsMemory(o.Path) {
		if dir := filepath.Dir(o.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("database: create directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open(DriverName, o.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", o.Path, err)
	}

	// One connection: SQLite serialises writers anyway, and an in-memory
	// database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", o.Path, err)
	}
	return db, nil
}

// HealthCheck pings db with a bounded timeout.
func HealthCheck(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

// IsMemory reports whether path names an in-memory database.
func IsMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
