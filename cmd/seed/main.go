// Command seed loads the sample cohorts and students into the configured
// database.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/roster/internal/adapters/database"
	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/internal/seed"
	"github.com/okian/roster/pkg/logger"
)

func main() {
	var (
		reset  = flag.Bool("reset", true, "Empty both tables and restart ids before inserting")
		dbPath = flag.String("db", "", "Database path (default: db_path from configuration)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *dbPath, *reset); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath string, reset bool) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(strings.ToLower(cfg.LogFormat))); err != nil {
		return err
	}
	log := logger.Named("seed")

	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if database.IsMemory(cfg.DBPath) {
		return errors.New("refusing to seed an in-memory database that is discarded on exit")
	}
	db, err := database.Open(ctx, database.Options{
		Path:        cfg.DBPath,
		ForeignKeys: cfg.DBForeignKeys,
		BusyTimeout: cfg.BusyTimeout(),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, log); err != nil {
		return err
	}
	_, err = seed.Run(ctx, db, seed.WithReset(reset), seed.WithLogger(log))
	return err
}
