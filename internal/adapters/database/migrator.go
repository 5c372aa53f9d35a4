package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/roster/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migration is one embedded schema step. Version comes from the numeric
// file name prefix, e.g. 002_create_students.sql.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations returns the embedded migrations ordered by version.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("database: read migrations: %w", err)
	}

	out := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("database: migration %s has no version prefix", e.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("database: migration %s: bad version: %w", e.Name(), err)
		}
		body, err := fs.ReadFile(migrations, path.Join("migrations", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("database: read %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: e.Name(), SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// SchemaVersion reads PRAGMA user_version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("database: read schema version: %w", err)
	}
	return v, nil
}

// Migrate applies every embedded migration newer than the stored schema
// version, each in its own transaction, and records progress in
// PRAGMA user_version.
func Migrate(ctx context.Context, db *sql.DB, log logger.Logger) error {
	all, err := Migrations()
	if err != nil {
		return err
	}
	from, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range all {
		if m.Version <= from {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		applied++
		if log != nil {
			log.Info(ctx, "applied migration", logger.String("name", m.Name), logger.Int("version", m.Version))
		}
	}

	if log != nil {
		if applied == 0 {
			log.Info(ctx, "database schema up to date", logger.Int("version", from))
		} else {
			log.Info(ctx, "database migrated", logger.Int("from", from), logger.Int("applied", applied))
		}
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin %s: %w", m.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("database: apply %s: %w", m.Name, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("database: record version %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("database: commit %s: %w", m.Name, err)
	}
	return nil
}
