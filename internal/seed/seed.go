// Package seed loads the sample roster into a database.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/pkg/logger"
)

// ErrNilDB is returned when Run is given no database.
var ErrNilDB = errors.New("seed: nil database")

// Cohorts are inserted in this order, so on a reset database they get ids 1..3.
var Cohorts = []string{"WEB10", "WEB12", "WEB11"}

// Student is one seeded student and the name of its cohort.
type Student struct {
	Name   string
	Cohort string
}

// Students reference cohorts by name; ids are taken from the rows just inserted.
var Students = []Student{
	{Name: "Danny", Cohort: "WEB10"},
	{Name: "Ryan", Cohort: "WEB12"},
	{Name: "Tyler", Cohort: "WEB11"},
}

// Result reports what a seed run wrote.
type Result struct {
	Cohorts  []model.Cohort
	Students []model.Student
}

type options struct {
	reset  bool
	logger logger.Logger
}

// Option configures Run.
type Option func(*options)

// WithReset controls whether both tables are emptied and their id
// sequences restarted before inserting. Defaults to true.
func WithReset(reset bool) Option {
	return func(o *options) { o.reset = reset }
}

// WithLogger sets the logger for progress messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run inserts the sample roster in a single transaction.
func Run(ctx context.Context, db *sql.DB, opts ...Option) (Result, error) {
	o := options{reset: true}
	for _, opt := range opts {
		opt(&o)
	}
	if db == nil {
		return Result{}, ErrNilDB
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if o.reset {
		if err := reset(ctx, tx); err != nil {
			return Result{}, err
		}
	}

	var res Result
	cohortIDs := make(map[string]int64, len(Cohorts))
	cohorts := repository.NewCohorts(tx)
	for _, name := range Cohorts {
		c, err := cohorts.Create(ctx, repository.Fields{model.ColumnName: name})
		if err != nil {
			return Result{}, fmt.Errorf("seed: cohort %s: %w", name, err)
		}
		cohortIDs[name] = c.ID
		res.Cohorts = append(res.Cohorts, c)
	}

	students := repository.NewStudents(tx)
	for _, s := range Students {
		id, ok := cohortIDs[s.Cohort]
		if !ok {
			return Result{}, fmt.Errorf("seed: student %s: unknown cohort %q", s.Name, s.Cohort)
		}
		st, err := students.Create(ctx, repository.Fields{
			model.ColumnName:     s.Name,
			model.ColumnCohortID: id,
		})
		if err != nil {
			return Result{}, fmt.Errorf("seed: student %s: %w", s.Name, err)
		}
		res.Students = append(res.Students, st)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("seed: commit: %w", err)
	}

	if o.logger != nil {
		o.logger.Info(ctx, "seeded roster",
			logger.Bool("reset", o.reset),
			logger.Int("cohorts", len(res.Cohorts)),
			logger.Int("students", len(res.Students)),
		)
	}
	return res, nil
}

// reset empties students before cohorts so enforced foreign keys hold.
func reset(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		"DELETE FROM " + model.TableStudents,
		"DELETE FROM " + model.TableCohorts,
		"DELETE FROM sqlite_sequence WHERE name IN ('" + model.TableCohorts + "', '" + model.TableStudents + "')",
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed: reset: %w", err)
		}
	}
	return nil
}
