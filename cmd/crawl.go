package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/pipeline"
)

func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Scrapes the current legislative year",
		Long: `Resolves the current legislative year, walks every commission and ministry
filter of the bill listing, fetches new bills and rewrites the year's snapshot.
Bills already in the snapshot are skipped unless --force is given.`,
		RunE: runCrawlCommand,
	}
	cmd.Flags().Bool("force", false, "re-scrape bills already present in the snapshot")
	cmd.Flags().Int("max-pages", 0, "maximum listing pages per commission (0 = unlimited)")
	cmd.Flags().String("output-dir", "", "directory holding the snapshot files")
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.Logger()

	summary, err := appInstance.Crawl(cmd.Context())
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	if _, err := summary.WriteTo(cmd.OutOrStdout()); err != nil {
		logger.Warn("failed to write summary", zap.Error(err))
	}

	logger.Info("crawl finished",
		zap.String("run_id", summary.RunID),
		zap.String("state", string(summary.State)),
		zap.Int("total_items", summary.TotalItems),
		zap.Int("new_items", summary.NewItems),
	)
	if summary.State == pipeline.StateNoNewData {
		logger.Info("all bills were already in the snapshot; use --force to re-scrape")
	}
	return nil
}
