// Package main implements the entry point for the tasks API server, which
// serves per-user task lists over HTTP backed by PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskly/tasks-api/internal/config"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "",
		"run a migration command (up, down, status, reset) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either executes a
// migration command or serves HTTP until SIGINT/SIGTERM.
func run(migrateCommand string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if migrateCommand != "" {
		defer db.Close()
		return postgres.Migrate(ctx, db, migrateCommand, log)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
			_ = db.Close()
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
