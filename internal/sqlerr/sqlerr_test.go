package sqlerr_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/roster/internal/sqlerr"
	. "github.com/smartystreets/goconvey/convey"
	_ "modernc.org/sqlite"
)

type codedError struct {
	code int
}

func (e codedError) Error() string { return fmt.Sprintf("engine error %d", e.code) }
func (e codedError) Code() int     { return e.code }

func TestMessage(t *testing.T) {
	Convey("Given the error translator", t, func() {
		Convey("When the error carries a known primary code", func() {
			So(sqlerr.Message(codedError{5}), ShouldEqual, "The database file is locked and cannot be accessed")
			So(sqlerr.Message(codedError{10}), ShouldEqual, "A disk I/O error occurred while accessing the database")
			So(sqlerr.Message(codedError{19}), ShouldEqual, "The request aborted due to a constraint violation")
			So(sqlerr.Message(codedError{101}), ShouldEqual, "sqlite3_step() has finished executing")
		})

		Convey("When the error carries an extended code", func() {
			// SQLITE_CONSTRAINT_NOTNULL
			So(sqlerr.Message(codedError{1299}), ShouldEqual, "The request aborted due to a constraint violation")
			// SQLITE_IOERR_READ
			So(sqlerr.Message(codedError{266}), ShouldEqual, "A disk I/O error occurred while accessing the database")
		})

		Convey("When the coded error is wrapped", func() {
			err := fmt.Errorf("repository: create students: %w", codedError{8})
			So(sqlerr.Message(err), ShouldEqual, "Attempt to write to a read-only database has failed")
		})

		Convey("When the code is unknown", func() {
			So(sqlerr.Message(codedError{99}), ShouldEqual, sqlerr.FallbackMessage)
			So(sqlerr.Message(codedError{0}), ShouldEqual, sqlerr.FallbackMessage)
		})

		Convey("When the error has no code", func() {
			So(sqlerr.Message(errors.New("boom")), ShouldEqual, "We ran into an error")
			So(sqlerr.Message(nil), ShouldEqual, "We ran into an error")
		})
	})
}

func TestEveryDocumentedCode(t *testing.T) {
	Convey("Given the documented result codes", t, func() {
		for code := 1; code <= 28; code++ {
			So(sqlerr.Message(codedError{code}), ShouldNotEqual, sqlerr.FallbackMessage)
			So(sqlerr.Name(code), ShouldStartWith, "SQLITE_")
		}
		So(sqlerr.Name(100), ShouldEqual, "SQLITE_ROW")
		So(sqlerr.Name(101), ShouldEqual, "SQLITE_DONE")
		So(sqlerr.Name(29), ShouldEqual, "")
	})

	Convey("Given the codes whose published texts are swapped relative to their names", t, func() {
		So(sqlerr.Message(codedError{17}), ShouldEqual, "The string or BLOB exceeds the size limit available to it")
		So(sqlerr.Message(codedError{18}), ShouldEqual, "The database scheme has changed")
		So(sqlerr.Name(17), ShouldEqual, "SQLITE_SCHEMA")
		So(sqlerr.Name(18), ShouldEqual, "SQLITE_TOOBIG")
	})
}

func TestDescribe(t *testing.T) {
	Convey("Given an engine error", t, func() {
		err := fmt.Errorf("insert: %w", codedError{2067}) // SQLITE_CONSTRAINT_UNIQUE

		Convey("Then Describe exposes the primary code and its name", func() {
			d := sqlerr.Describe(err)
			So(d.Errno, ShouldEqual, 19)
			So(d.Code, ShouldEqual, "SQLITE_CONSTRAINT")
			So(d.Detail, ShouldEqual, "insert: engine error 2067")
			So(sqlerr.Label(err), ShouldEqual, "SQLITE_CONSTRAINT")
		})
	})

	Convey("Given a plain error", t, func() {
		d := sqlerr.Describe(errors.New("boom"))

		Convey("Then only the detail is set", func() {
			So(d, ShouldResemble, sqlerr.Detail{Detail: "boom"})
			So(sqlerr.Label(errors.New("boom")), ShouldEqual, "unknown")
		})
	})
}

func TestRealEngineErrors(t *testing.T) {
	Convey("Given an in-memory SQLite database", t, func() {
		db, err := sql.Open("sqlite", ":memory:")
		So(err, ShouldBeNil)
		defer db.Close()
		db.SetMaxOpenConns(1)

		ctx := context.Background()
		_, err = db.ExecContext(ctx, `CREATE TABLE cohorts (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
		So(err, ShouldBeNil)

		Convey("When a NOT NULL constraint fails", func() {
			_, err := db.ExecContext(ctx, `INSERT INTO cohorts (name) VALUES (NULL)`)
			So(err, ShouldNotBeNil)

			Convey("Then the constraint message is returned", func() {
				So(sqlerr.Message(err), ShouldEqual, "The request aborted due to a constraint violation")
				So(sqlerr.Describe(err).Code, ShouldEqual, "SQLITE_CONSTRAINT")
			})
		})

		Convey("When a statement references a missing column", func() {
			_, err := db.ExecContext(ctx, `INSERT INTO cohorts (title) VALUES ('x')`)
			So(err, ShouldNotBeNil)

			Convey("Then the generic engine message is returned", func() {
				So(sqlerr.Message(err), ShouldEqual, "There was a generic server error")
			})
		})
	})
}
