package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/escolar/internal/config"
	"github.com/JonMunkholm/escolar/internal/dbf"
	"github.com/JonMunkholm/escolar/internal/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "dbf2csv",
		Short:         "Convert the legacy CARRERAS, MATERIAS and PLANES tables to CSV",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
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

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithOperation(ctx)

	conv, err := dbf.NewConverter(cfg.Convert.Encoding, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	jobs := dbf.DefaultJobs(cfg.Convert.LegacyDir, cfg.Convert.OutputDir)
	if err := conv.Run(ctx, jobs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
