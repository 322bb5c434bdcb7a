// Package main provides the photoshare binary entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"photoshare/internal/app"
	"photoshare/internal/config"
	"photoshare/internal/logging"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "photoshare",
		Short: "Photo sharing web application",
		Long: `Photoshare lets users register, sign in and upload photos tagged
with a friend's name and contact.

Settings come from built-in defaults, an optional YAML file (--config),
a .env file and the process environment, in that order.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the demo user and photo",
			RunE: func(cmd *cobra.Command, args []string) error {
				return seed(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "photoshare version %s\n", Version)
			},
		},
	)

	return cmd
}

func setup(path string) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

func serve(ctx context.Context, path string) error {
	cfg, log, err := setup(path)
	if err != nil {
		return err
	}
	return app.Run(ctx, cfg, log)
}

func migrate(ctx context.Context, path string) error {
	cfg, log, err := setup(path)
	if err != nil {
		return err
	}
	_, closeDB, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	closeDB()
	log.Info(ctx, "migrations applied", "driver", cfg.DBDriver)
	return nil
}

func seed(ctx context.Context, path string) error {
	cfg, log, err := setup(path)
	if err != nil {
		return err
	}
	st, closeDB, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()
	return app.Seed(ctx, st, cfg.BcryptCost, log)
}
