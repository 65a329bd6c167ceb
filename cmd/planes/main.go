package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/escolar/internal/application"
	"github.com/JonMunkholm/escolar/internal/config"
	"github.com/JonMunkholm/escolar/internal/core"
	"github.com/JonMunkholm/escolar/internal/database"
	"github.com/JonMunkholm/escolar/internal/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "planes",
		Short:         "Maintain study plans in the school database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logOut, closeLog, err := logging.OpenOutput(cfg.Logging.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer closeLog()
	logging.Setup(logOut, cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded", "database", cfg.Database.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", core.FormatUserError(err))
		return err
	}
	defer store.Close()

	if store.Dialect() == database.DialectSQLite {
		if err := store.Migrate(ctx); err != nil {
			slog.Error("failed to create schema", "error", err)
			return err
		}
	}

	svc := core.NewService(store, cfg.Database.QueryTimeout)
	shell := application.NewShell(svc, os.Stdin, os.Stdout)

	if err := shell.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("interrupted")
			fmt.Fprintln(os.Stdout, "\nInterrupted.")
			return err
		}
		slog.Error("menu loop stopped", "error", err)
		return err
	}
	return nil
}
