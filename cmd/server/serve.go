package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wireboard-server/internal/app"
	"github.com/vovakirdan/wireboard-server/internal/config"
	"github.com/vovakirdan/wireboard-server/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLog := log.New(logLevel)
			cfg, path, err := config.Load(bootLog, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(config.Config{
				Addr:         addr,
				LogLevel:     logLevel,
				DatabasePath: dbPath,
			})

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Msg("configuration loaded")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			logger.Info().Str("addr", cfg.Addr).Msg("starting wireboard server")
			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the sqlite database")
	return cmd
}
