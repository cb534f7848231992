// Package main runs the scry JSON:API server. Memos are served from
// PostgreSQL when a database URL is configured and from memory otherwise.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run parses flags, wires the application and blocks until shutdown.
func run(args []string) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configFile, _ := fs.GetString("config")
	app, err := newApplication(ctx, loadOptions(fs, configFile)...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if migrate, _ := fs.GetString("migrate"); migrate != "" {
		return app.migrate(ctx, migrate, fs.Args()...)
	}
	return app.Run(ctx)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("scry-jsonapi", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default: ./config.yaml when present)")
	fs.String("migrate", "", "run a goose migration command (up, down, status, version, reset) and exit")
	fs.Int("server.port", 8080, "HTTP listen port")
	fs.String("server.log_level", "info", "log level: debug, info, warn, error")
	fs.String("database.url", "", "PostgreSQL connection URL; empty selects the in-memory store")
	return fs
}
