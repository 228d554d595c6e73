// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/clock/system"
	"github.com/JakeFAU/legislation-crawler/internal/config"
	"github.com/JakeFAU/legislation-crawler/internal/crawler"
	collyfetcher "github.com/JakeFAU/legislation-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/legislation-crawler/internal/legislation"
	"github.com/JakeFAU/legislation-crawler/internal/logging"
	"github.com/JakeFAU/legislation-crawler/internal/parser"
	"github.com/JakeFAU/legislation-crawler/internal/pipeline"
	"github.com/JakeFAU/legislation-crawler/internal/publisher/pubsub"
	"github.com/JakeFAU/legislation-crawler/internal/storage/gcs"
	"github.com/JakeFAU/legislation-crawler/internal/storage/postgres"
)

// App holds the shared services of one CLI invocation. Mirrors are opened
// on first use so read-only commands never touch cloud services.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	fetcher *collyfetcher.Fetcher
	parser  *parser.Parser
	clock   legislation.Clock

	mirrorOnce sync.Once
	mirrors    pipeline.Mirrors
	closers    []func()
}

// New builds the logger, fetcher and parser for cfg.
func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{
		Enabled:     cfg.Logging.Enabled,
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	fetcher, err := collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.Request.UserAgent,
		Timeout:       cfg.Request.Timeout,
		RetryAttempts: cfg.Request.RetryAttempts,
		RetryBackoff:  cfg.Request.RetryBackoff,
		ProxyEnabled:  cfg.Proxy.Enabled,
		ProxyRotation: cfg.Proxy.Rotation,
		ProxyTimeout:  cfg.Proxy.Timeout,
		Proxies:       cfg.Proxy.URLs,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		fetcher: fetcher,
		parser:  parser.New(cfg.BaseURL(), logger),
		clock:   system.New(),
	}, nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Crawl runs one scrape with the configured mirrors.
func (a *App) Crawl(ctx context.Context) (pipeline.Summary, error) {
	return a.Pipeline(ctx).Run(ctx)
}

// Pipeline assembles a run pipeline from the configuration.
func (a *App) Pipeline(ctx context.Context) *pipeline.Pipeline {
	a.mirrorOnce.Do(func() { a.openMirrors(ctx) })
	cfg := pipeline.Config{
		OutputDir:       a.cfg.Scraper.OutputDir,
		Force:           a.cfg.Scraper.ForceRescrape,
		Merge:           a.cfg.Scraper.MergeExisting,
		MetricsTextfile: a.cfg.Metrics.TextfilePath,
		Crawl: crawler.Config{
			ListingURL: a.cfg.ListingURL(),
			MaxPages:   a.cfg.Scraper.MaxPages,
			Delay:      a.cfg.Request.DelayBetweenRequests,
		},
	}
	return pipeline.New(cfg, a.fetcher, a.parser, a.clock, a.mirrors, a.logger)
}

// openMirrors connects every configured mirror. A mirror that cannot be
// opened is logged and left out.
func (a *App) openMirrors(ctx context.Context) {
	mc := a.cfg.Mirror

	if mc.GCS.Bucket != "" {
		s, err := gcs.Open(ctx, gcs.Config{Bucket: mc.GCS.Bucket, Prefix: mc.GCS.Prefix})
		if err != nil {
			a.logger.Warn("GCS mirror disabled", zap.Error(err))
		} else {
			a.logger.Info("mirroring snapshots to GCS", zap.String("bucket", mc.GCS.Bucket))
			a.mirrors.Snapshots = s
			a.closers = append(a.closers, func() { a.closeWithWarn("GCS client", s.Close()) })
		}
	}

	if mc.Postgres.DSN != "" {
		s, err := postgres.NewRecordStore(ctx, postgres.Config{DSN: mc.Postgres.DSN, Table: mc.Postgres.Table})
		if err == nil {
			err = s.EnsureSchema(ctx)
			if err != nil {
				s.Close()
			}
		}
		if err != nil {
			a.logger.Warn("Postgres mirror disabled", zap.Error(err))
		} else {
			a.logger.Info("mirroring records to Postgres", zap.String("table", mc.Postgres.Table))
			a.mirrors.Records = s
			a.closers = append(a.closers, s.Close)
		}
	}

	if mc.PubSub.TopicID != "" {
		p, err := pubsub.Open(ctx, pubsub.Config{ProjectID: mc.PubSub.ProjectID, TopicID: mc.PubSub.TopicID})
		if err != nil {
			a.logger.Warn("Pub/Sub notifications disabled", zap.Error(err))
		} else {
			a.logger.Info("publishing run notifications", zap.String("topic", mc.PubSub.TopicID))
			a.mirrors.Notifier = p
			a.closers = append(a.closers, func() { a.closeWithWarn("Pub/Sub client", p.Close()) })
		}
	}
}

func (a *App) closeWithWarn(what string, err error) {
	if err != nil {
		a.logger.Warn("error closing "+what, zap.Error(err))
	}
}

// Close shuts down the mirrors and flushes the logger.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.logger.Sync()
}
