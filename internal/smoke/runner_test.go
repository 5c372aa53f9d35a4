package smoke_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/roster/internal/adapters/database"
	"github.com/okian/roster/internal/adapters/http/api"
	service "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/smoke"
	"github.com/okian/roster/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	svc := service.New(
		service.WithDatabase(database.Options{Path: ":memory:"}),
		service.WithStatsInterval(0),
	)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)

	srv := httptest.NewServer(api.NewServer(svc, api.WithHealthChecker(svc)).Handler(ctx))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	Convey("Given a running roster server", t, func() {
		srv := startServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When running against the root routes", func() {
			stats, err := smoke.Run(ctx, smoke.Config{BaseURL: srv.URL, Students: 20, Workers: 4})

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(stats.StudentsOK, ShouldEqual, 20)
				So(stats.StudentsFailed, ShouldEqual, 0)
				So(stats.Checks, ShouldBeGreaterThan, 10)
			})

			Convey("And the run cleans up after itself", func() {
				resp, err := http.Get(srv.URL + "/students")
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				body, _ := io.ReadAll(resp.Body)
				So(string(body), ShouldEqual, "[]\n")
			})
		})

		Convey("When running against the /api prefix", func() {
			_, err := smoke.Run(ctx, smoke.Config{BaseURL: srv.URL + "/", Prefix: "/api"})

			Convey("Then it passes too", func() {
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given no server", t, func() {
		Convey("When the base URL is empty", func() {
			_, err := smoke.Run(context.Background(), smoke.Config{})
			So(err, ShouldEqual, smoke.ErrNoBaseURL)
		})

		Convey("When nothing listens", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			_, err := smoke.Run(ctx, smoke.Config{BaseURL: "http://127.0.0.1:1", Timeout: 100 * time.Millisecond})
			So(err, ShouldNotBeNil)
		})
	})
}
