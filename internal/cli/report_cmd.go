package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/campstats/internal/app"
	"github.com/MrSnakeDoc/campstats/internal/cli/formatter"
	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/logger"
)

func newReportCmd() *cobra.Command {
	var source, location, shareBasis string
	var top int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the curriculum statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Read()
			if source != "" {
				cfg.MetadataSource = source
			}
			if location != "" {
				cfg.MetadataLocation = location
			}
			if shareBasis != "" {
				cfg.ShareBasis = shareBasis
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			provider, redisClient, err := app.NewProvider(ctx, cfg, loggerClient)
			if err != nil {
				return err
			}
			if redisClient != nil {
				defer func() { _ = redisClient.Close() }()
			}

			m, err := provider.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch metadata: %w", err)
			}

			summary := domain.Summarize(m)
			shareTotal := summary.CategorizedMinutes
			if cfg.ShareBasis == config.ShareBasisAll {
				shareTotal = summary.GrandTotalMinutes
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(summary, formatter.ReportOptions{
				ShareTotal:      shareTotal,
				TopTechnologies: top,
			}))
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Metadata source: file, http or redis (default from CAMPSTATS_METADATA_SOURCE)")
	cmd.Flags().StringVar(&location, "location", "", "File path, URL or redis key of the metadata")
	cmd.Flags().StringVar(&shareBasis, "share-basis", "", "Divisor of category shares: categorized or all")
	cmd.Flags().IntVar(&top, "top", 10, "Number of technologies to list, 0 to hide them")

	return cmd
}
