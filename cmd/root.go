// Package cmd defines and implements the CLI commands for the legislation crawler.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/app"
	"github.com/JakeFAU/legislation-crawler/internal/config"
	"github.com/JakeFAU/legislation-crawler/internal/pipeline"
	viperconfig "github.com/JakeFAU/legislation-crawler/pkg/config"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use, so tests can
// inject a fake.
type App interface {
	Close()
	Logger() *zap.Logger
	Config() config.Config
	Crawl(ctx context.Context) (pipeline.Summary, error)
}

// newApp is the application factory, replaced in tests.
var newApp = func(cfg config.Config) (App, error) {
	return app.New(cfg)
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"force":      "scraper.force_rescrape",
	"max-pages":  "scraper.max_pages",
	"output-dir": "scraper.output_dir",
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "legislation-crawler",
		Short: "Scrapes government bills from the Moroccan House of Representatives.",
		Long: `legislation-crawler walks the bill listing of the Chambre des Représentants
for the current legislative year, extracts each bill's procedural history and
keeps a per-year JSON snapshot up to date.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viperconfig.New()
			if err := bindFlags(v, cmd); err != nil {
				return err
			}
			used, err := viperconfig.ReadOptional(v, cfgFile)
			if err != nil {
				return err
			}
			cfg, err := config.LoadViper(v, "")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			appInstance, err := newApp(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			if used != "" {
				appInstance.Logger().Debug("using config file", zap.String("path", used))
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, then $HOME/.legislation-crawler/config.yaml)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute runs the root command with a context canceled on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
