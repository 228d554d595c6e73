package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/legislation-crawler/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return writeConfigSummary(cmd.OutOrStdout(), appInstance.Config())
		},
	}
}

func writeConfigSummary(w io.Writer, cfg config.Config) error {
	var b strings.Builder
	fmt.Fprintln(&b, "Scraper:")
	fmt.Fprintf(&b, "  listing url:      %s\n", cfg.ListingURL())
	fmt.Fprintf(&b, "  output dir:       %s\n", cfg.Scraper.OutputDir)
	fmt.Fprintf(&b, "  force rescrape:   %t\n", cfg.Scraper.ForceRescrape)
	fmt.Fprintf(&b, "  max pages:        %s\n", maxPages(cfg.Scraper.MaxPages))
	fmt.Fprintf(&b, "  merge existing:   %t\n", cfg.Scraper.MergeExisting)
	fmt.Fprintln(&b, "Requests:")
	fmt.Fprintf(&b, "  timeout:          %s\n", cfg.Request.Timeout)
	fmt.Fprintf(&b, "  retry attempts:   %d\n", cfg.Request.RetryAttempts)
	fmt.Fprintf(&b, "  retry backoff:    %s\n", cfg.Request.RetryBackoff)
	fmt.Fprintf(&b, "  delay:            %s\n", cfg.Request.DelayBetweenRequests)
	fmt.Fprintln(&b, "Proxies:")
	if cfg.Proxy.Enabled {
		fmt.Fprintf(&b, "  enabled:          %d configured, rotation %t, timeout %s\n", len(cfg.Proxy.URLs), cfg.Proxy.Rotation, cfg.Proxy.Timeout)
	} else {
		fmt.Fprintln(&b, "  enabled:          false")
	}
	fmt.Fprintln(&b, "Mirrors:")
	fmt.Fprintf(&b, "  gcs:              %s\n", orOff(cfg.Mirror.GCS.Bucket))
	fmt.Fprintf(&b, "  postgres table:   %s\n", mirrorTable(cfg))
	fmt.Fprintf(&b, "  pubsub topic:     %s\n", orOff(cfg.Mirror.PubSub.TopicID))
	fmt.Fprintf(&b, "Metrics textfile:   %s\n", orOff(cfg.Metrics.TextfilePath))
	_, err := io.WriteString(w, b.String())
	return err
}

func maxPages(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

// mirrorTable never echoes the DSN, which may carry credentials.
func mirrorTable(cfg config.Config) string {
	if cfg.Mirror.Postgres.DSN == "" {
		return "off"
	}
	return cfg.Mirror.Postgres.Table
}

func orOff(s string) string {
	if s == "" {
		return "off"
	}
	return s
}
