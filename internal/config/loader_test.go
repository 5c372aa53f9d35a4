package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/roster/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4000")
				convey.So(cfg.DBPath, convey.ShouldEqual, "./data/lambda.db3")
				convey.So(cfg.NotFoundOnGet, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ROSTER_ADDR", ":8080")
			_ = os.Setenv("ROSTER_DB_PATH", ":memory:")
			_ = os.Setenv("ROSTER_DB_FOREIGN_KEYS", "true")
			_ = os.Setenv("ROSTER_DB_BUSY_TIMEOUT_MS", "250")
			_ = os.Setenv("ROSTER_NOT_FOUND_ON_GET", "true")
			_ = os.Setenv("ROSTER_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBPath, convey.ShouldEqual, ":memory:")
				convey.So(cfg.DBForeignKeys, convey.ShouldBeTrue)
				convey.So(cfg.DBBusyTimeoutMS, convey.ShouldEqual, 250)
				convey.So(cfg.NotFoundOnGet, convey.ShouldBeTrue)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When list settings come from the environment", func() {
			_ = os.Setenv("ROSTER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
			_ = os.Setenv("ROSTER_METRICS_BUCKETS_MS", "5,50,500")
			_ = os.Setenv("ROSTER_METRICS_NAMESPACE", "classroom")
			_ = os.Setenv("ROSTER_METRICS_ENABLED", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then comma-separated values become separate entries", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.MetricsBucketsMS, convey.ShouldResemble, []float64{5, 50, 500})
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "classroom")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the file sets fewer buckets than the default", func() {
			tmpFile := createTempConfigFile(t, `
metrics_buckets_ms: [10, 100]
`)
			_ = os.Setenv("ROSTER_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then only the configured buckets are kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsBucketsMS, convey.ShouldResemble, []float64{10, 100})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
db_path: "/tmp/roster.db"
not_found_on_get: true
cors_allowed_origins:
  - "http://localhost:3000"
  - "https://roster.example.com"
`)
			_ = os.Setenv("ROSTER_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/roster.db")
				convey.So(cfg.NotFoundOnGet, convey.ShouldBeTrue)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:3000", "https://roster.example.com"})
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
db_path: "/tmp/roster.db"
`)
			_ = os.Setenv("ROSTER_CONFIG", tmpFile)
			_ = os.Setenv("ROSTER_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")            // Overridden by env
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/roster.db") // From file
			})
		})

		convey.Convey("When a .env file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "roster.env")
			convey.So(os.WriteFile(path, []byte("ROSTER_ADDR=:7070\nROSTER_LOG_LEVEL=debug\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ROSTER_ENV_FILE", path)
			_ = os.Setenv("ROSTER_LOG_LEVEL", "warn")

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values apply without overriding the real environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When the explicit .env file does not exist", func() {
			_ = os.Setenv("ROSTER_ENV_FILE", "/non/existent/roster.env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("ROSTER_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ROSTER_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("ROSTER_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("ROSTER_LOG_FORMAT", "xml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ROSTER_DB_BUSY_TIMEOUT_MS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// createTempConfigFile writes content to a YAML file removed with the test.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

// clearConfigEnvVars clears all config-related environment variables.
func clearConfigEnvVars() {
	for _, name := range []string{
		"ROSTER_CONFIG",
		"ROSTER_ENV_FILE",
		"ROSTER_ADDR",
		"ROSTER_LOG_LEVEL",
		"ROSTER_LOG_FORMAT",
		"ROSTER_DB_PATH",
		"ROSTER_DB_FOREIGN_KEYS",
		"ROSTER_DB_BUSY_TIMEOUT_MS",
		"ROSTER_NOT_FOUND_ON_GET",
		"ROSTER_CORS_ALLOWED_ORIGINS",
		"ROSTER_SHUTDOWN_TIMEOUT_MS",
		"ROSTER_METRICS_ENABLED",
		"ROSTER_METRICS_NAMESPACE",
		"ROSTER_METRICS_SUBSYSTEM",
		"ROSTER_METRICS_BUCKETS_MS",
	} {
		_ = os.Unsetenv(name)
	}
}
