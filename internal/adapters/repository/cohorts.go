package repository

import "github.com/okian/roster/internal/domain/model"

// CohortsTable lists the writable columns of the cohorts table.
var CohortsTable = Table{ //nolint:gochecknoglobals // fixed schema description
	Name:    model.TableCohorts,
	Columns: []string{model.ColumnName},
}

// Cohorts is the cohorts repository.
type Cohorts = Repository[model.Cohort]

// NewCohorts returns the cohorts repository over db.
func NewCohorts(db Querier, opts ...Option) *Cohorts {
	return New[model.Cohort](db, CohortsTable, opts...)
}
