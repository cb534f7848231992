package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-jsonapi/internal/config"
	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"github.com/phrazzld/scry-jsonapi/internal/platform/memory"
	"github.com/phrazzld/scry-jsonapi/internal/platform/postgres"
	"github.com/phrazzld/scry-jsonapi/internal/redact"
	"github.com/phrazzld/scry-jsonapi/internal/store"
	"github.com/spf13/pflag"
)

// errNoDatabase is returned by migrate when no database URL is configured.
var errNoDatabase = errors.New("migrations require database.url")

// application holds the shared dependencies and releases them on cleanup.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	memoStore store.MemoStore
}

func loadOptions(fs *pflag.FlagSet, configFile string) []config.Option {
	return []config.Option{config.WithConfigFile(configFile), config.WithFlags(fs)}
}

// newApplication loads configuration, sets up logging and opens the store.
func newApplication(ctx context.Context, opts ...config.Option) (*application, error) {
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("base_path", cfg.API.BasePath),
		slog.Bool("database_configured", cfg.Database.URL != ""))

	app := &application{config: cfg, logger: log}
	if err := app.setupStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

func (app *application) setupStore(ctx context.Context) error {
	if app.config.Database.URL == "" {
		app.logger.Warn("no database configured, memos are kept in memory")
		app.memoStore = memory.NewMemoStore(app.logger)
		return nil
	}

	db, err := postgres.Open(ctx, app.config.Database.URL, postgres.PoolConfig{
		MaxOpenConns: app.config.Database.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("failed to set up database: %s", redact.Error(err))
	}
	app.db = db
	app.memoStore = postgres.NewMemoStore(db, app.logger)
	app.logger.Info("database connection established")
	return nil
}

// migrate runs a goose command against the configured database.
func (app *application) migrate(ctx context.Context, command string, args ...string) error {
	if app.db == nil {
		return errNoDatabase
	}
	return postgres.Migrate(ctx, app.db, app.logger, command, args...)
}

// Run applies pending migrations when a database is configured, then serves
// HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if app.db != nil {
		if err := app.migrate(ctx, "up"); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
		}
		app.db = nil
	}
	app.logger.Info("application shutdown completed")
}
