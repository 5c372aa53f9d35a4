// Package model holds the records served by the API.
package model

// Table and column names shared by the repository and the seed data.
const (
	TableCohorts  = "cohorts"
	TableStudents = "students"

	ColumnID       = "id"
	ColumnName     = "name"
	ColumnCohortID = "cohort_id"
)

// Cohort is a named group of students.
type Cohort struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Student belongs to at most one cohort. CohortID is nil when unassigned;
// it is not checked against existing cohorts unless foreign keys are on.
type Student struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	CohortID *int64 `db:"cohort_id" json:"cohort_id"`
}
