package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskly/tasks-api/internal/audit"
	"github.com/taskly/tasks-api/internal/config"
	"github.com/taskly/tasks-api/internal/platform/metrics"
	"github.com/taskly/tasks-api/internal/platform/postgres"
	"github.com/taskly/tasks-api/internal/platform/ratelimit"
	"github.com/taskly/tasks-api/internal/service"
	"github.com/taskly/tasks-api/internal/service/auth"
	"github.com/taskly/tasks-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	taskService      service.TaskService

	// auditRecorder is what handlers see; auditDispatcher is kept for shutdown.
	auditRecorder   audit.Recorder
	auditDispatcher *audit.Dispatcher

	// metrics is nil when disabled.
	metrics *metrics.Metrics

	// limiter is nil when no Redis URL is configured.
	limiter     ratelimit.Limiter
	redisClient *redis.Client
}

// newApplication creates a new application instance with all dependencies initialized.
// The configuration, logger and database connection must be established first.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.taskService, err = service.NewTaskService(app.taskStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	var auditMetrics audit.Metrics
	if cfg.Metrics.Enabled {
		app.metrics = metrics.New(cfg.Metrics.Namespace)
		auditMetrics = app.metrics
	}

	app.auditDispatcher = audit.NewDispatcher(
		audit.NewSink(audit.FileOptions{
			Path:       cfg.Audit.File,
			Stdout:     cfg.Audit.Stdout,
			MaxSizeMB:  cfg.Audit.MaxSizeMB,
			MaxBackups: cfg.Audit.MaxBackups,
			MaxAgeDays: cfg.Audit.MaxAgeDays,
		}),
		audit.DispatcherConfig{QueueSize: cfg.Audit.QueueSize, WorkerCount: cfg.Audit.WorkerCount},
		auditMetrics,
		logger,
	)
	app.auditDispatcher.Start()
	app.auditRecorder = app.auditDispatcher

	if cfg.RateLimit.RedisURL != "" {
		app.redisClient, err = ratelimit.NewClient(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			app.cleanup(ctx)
			return nil, fmt.Errorf("failed to connect rate limiter: %w", err)
		}
		app.limiter = ratelimit.NewRedisLimiter(
			app.redisClient,
			"tasks:ratelimit:",
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		)
		logger.Info("rate limiting enabled for auth endpoints",
			slog.Int("requests", cfg.RateLimit.Requests),
			slog.Int("window_seconds", cfg.RateLimit.WindowSeconds))
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains the audit queue and closes external connections. ctx
// bounds how long the drain may take.
func (app *application) cleanup(ctx context.Context) {
	if app.auditDispatcher != nil {
		if err := app.auditDispatcher.Stop(ctx); err != nil {
			app.logger.Error("error stopping audit dispatcher", slog.String("error", err.Error()))
		}
	}

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
