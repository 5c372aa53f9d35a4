// Command smoke runs the roster lifecycle scenario and a concurrent insert
// phase against a running server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/roster/internal/smoke"
	"github.com/okian/roster/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:4000", "Base URL of the service")
		prefix   = flag.String("prefix", "", `Route prefix, e.g. "/api"`)
		students = flag.Int("students", 100, "Students to create concurrently in the load phase")
		workers  = flag.Int("workers", smoke.DefaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		runFor   = flag.Duration("deadline", defaultRunTimeout, "Overall run deadline")
		format   = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Log every check")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *runFor)
	defer cancel()

	_, err := smoke.Run(ctx, smoke.Config{
		BaseURL:  *baseURL,
		Prefix:   *prefix,
		Students: *students,
		Workers:  *workers,
		Timeout:  *timeout,
		Verbose:  *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "smoke run failed", logger.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}
