// Package repository implements table-backed CRUD over the SQLite store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/okian/roster/internal/sqlerr"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// Querier is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Fields maps column names to the values to write. A nil value writes NULL.
type Fields map[string]any

// Table describes one table: its name and the writable columns, in the
// order they appear in generated statements. The id column is implicit.
type Table struct {
	Name    string
	Columns []string
}

func (t Table) selectList() string {
	return "id, " + strings.Join(t.Columns, ", ")
}

func (t Table) hasColumn(c string) bool {
	return slices.Contains(t.Columns, c)
}

// split orders f by the table's column order, rejecting unknown columns.
func (t Table) split(f Fields) ([]string, []any, error) {
	for c := range f {
		if !t.hasColumn(c) {
			return nil, nil, fmt.Errorf("%w %q for table %s", ErrUnknownColumn, c, t.Name)
		}
	}
	cols := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	for _, c := range t.Columns {
		if v, ok := f[c]; ok {
			cols = append(cols, c)
			args = append(args, v)
		}
	}
	return cols, args, nil
}

// Repository performs CRUD against a single table and scans rows into T.
// T must carry `db` tags for id and every column of the table.
type Repository[T any] struct {
	db    Querier
	table Table
	log   logger.Logger
}

// New builds a Repository for table over db.
func New[T any](db Querier, table Table, opts ...Option) *Repository[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T]{db: db, table: table, log: o.log}
}

// Table returns the table the repository is bound to.
func (r *Repository[T]) Table() Table { return r.table }

// Create inserts a row and returns it as stored, generated id included.
// Insert and read-back are one statement.
func (r *Repository[T]) Create(ctx context.Context, f Fields) (T, error) {
	const op = "create"
	start := time.Now()
	var out T

	cols, args, err := r.table.split(f)
	if err != nil {
		return out, err
	}

	var q string
	if len(cols) == 0 {
		q = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", r.table.Name, r.table.selectList())
	} else {
		q = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			r.table.Name, strings.Join(cols, ", "), placeholders(len(cols)), r.table.selectList())
	}

	r.debug(ctx, op, q, args)
	err = sqlscan.Get(ctx, r.db, &out, q, args...)
	r.observe(op, start, err)
	if err != nil {
		return out, r.wrap(op, err)
	}
	return out, nil
}

// List returns every row ordered by id. The result is never nil.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	const op = "list"
	start := time.Now()

	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", r.table.selectList(), r.table.Name)
	r.debug(ctx, op, q, nil)

	out := []T{}
	err := sqlscan.Select(ctx, r.db, &out, q)
	r.observe(op, start, err)
	if err != nil {
		return nil, r.wrap(op, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get returns the row with id, or nil when there is none.
func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	const op = "get"
	start := time.Now()

	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.table.selectList(), r.table.Name)
	r.debug(ctx, op, q, []any{id})

	var out T
	err := sqlscan.Get(ctx, r.db, &out, q, id)
	if sqlscan.NotFound(err) {
		r.observe(op, start, nil)
		return nil, nil
	}
	r.observe(op, start, err)
	if err != nil {
		return nil, r.wrap(op, err)
	}
	return &out, nil
}

// Update writes only the columns present in f and returns the updated row.
// It returns ErrNotFound when no row has id and ErrNoFields when f is empty.
func (r *Repository[T]) Update(ctx context.Context, id int64, f Fields) (T, error) {
	const op = "update"
	start := time.Now()
	var out T

	if len(f) == 0 {
		return out, ErrNoFields
	}
	cols, args, err := r.table.split(f)
	if err != nil {
		return out, err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? RETURNING %s",
		r.table.Name, strings.Join(sets, ", "), r.table.selectList())
	args = append(args, id)

	r.debug(ctx, op, q, args)
	err = sqlscan.Get(ctx, r.db, &out, q, args...)
	if sqlscan.NotFound(err) {
		r.observe(op, start, ErrNotFound)
		return out, ErrNotFound
	}
	r.observe(op, start, err)
	if err != nil {
		return out, r.wrap(op, err)
	}
	return out, nil
}

// Delete removes the row with id and reports how many rows went away (0 or 1).
func (r *Repository[T]) Delete(ctx context.Context, id int64) (int64, error) {
	const op = "delete"
	start := time.Now()

	q := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table.Name)
	r.debug(ctx, op, q, []any{id})

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		r.observe(op, start, err)
		return 0, r.wrap(op, err)
	}
	n, err := res.RowsAffected()
	r.observe(op, start, err)
	if err != nil {
		return 0, r.wrap(op, err)
	}
	return n, nil
}

// ListBy returns rows whose column equals value, ordered by id. The result is never nil.
func (r *Repository[T]) ListBy(ctx context.Context, column string, value any) ([]T, error) {
	const op = "list_by"
	start := time.Now()

	if !r.table.hasColumn(column) {
		return nil, fmt.Errorf("%w %q for table %s", ErrUnknownColumn, column, r.table.Name)
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY id", r.table.selectList(), r.table.Name, column)
	r.debug(ctx, op, q, []any{value})

	out := []T{}
	err := sqlscan.Select(ctx, r.db, &out, q, value)
	r.observe(op, start, err)
	if err != nil {
		return nil, r.wrap(op, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Count returns the number of rows in the table.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	const op = "count"
	start := time.Now()

	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table.Name)
	var n int64
	err := sqlscan.Get(ctx, r.db, &n, q)
	r.observe(op, start, err)
	if err != nil {
		return 0, r.wrap(op, err)
	}
	return n, nil
}

func (r *Repository[T]) wrap(op string, err error) error {
	return fmt.Errorf("repository: %s %s: %w", op, r.table.Name, err)
}

func (r *Repository[T]) observe(op string, start time.Time, err error) {
	latencyMs := float64(time.Since(start).Microseconds()) / 1000
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
		metrics.RecordStorageError(r.table.Name, sqlerr.Label(err))
	}
	metrics.RecordStorageOperation(r.table.Name, op, outcome, latencyMs)
}

func (r *Repository[T]) debug(ctx context.Context, op, q string, args []any) {
	if r.log == nil {
		return
	}
	r.log.Debug(ctx, "executing statement",
		logger.String("table", r.table.Name),
		logger.String("op", op),
		logger.String("query", q),
		logger.Any("args", args),
	)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
