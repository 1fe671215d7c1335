package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/campstats/internal/app"
	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the docs, rendering the statistics into each page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			a, err := app.New(cfg, loggerClient)
			if err != nil {
				loggerClient.Error("failed to start", logger.Error(err))
				return err
			}
			return a.Run()
		},
	}
}
