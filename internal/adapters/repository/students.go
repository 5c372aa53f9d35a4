package repository

import (
	"context"

	"github.com/okian/roster/internal/domain/model"
)

// StudentsTable lists the writable columns of the students table.
var StudentsTable = Table{ //nolint:gochecknoglobals // fixed schema description
	Name:    model.TableStudents,
	Columns: []string{model.ColumnName, model.ColumnCohortID},
}

// Students is the students repository.
type Students struct {
	*Repository[model.Student]
}

// NewStudents returns the students repository over db.
func NewStudents(db Querier, opts ...Option) *Students {
	return &Students{Repository: New[model.Student](db, StudentsTable, opts...)}
}

// ListByCohort returns the students whose cohort_id equals cohortID.
func (s *Students) ListByCohort(ctx context.Context, cohortID int64) ([]model.Student, error) {
	return s.ListBy(ctx, model.ColumnCohortID, cohortID)
}
