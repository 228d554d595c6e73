package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/crawler"
	"github.com/JakeFAU/legislation-crawler/internal/hash/sha256"
	"github.com/JakeFAU/legislation-crawler/internal/id/uuid"
	"github.com/JakeFAU/legislation-crawler/internal/legislation"
	"github.com/JakeFAU/legislation-crawler/internal/metrics"
	"github.com/JakeFAU/legislation-crawler/internal/parser"
	"github.com/JakeFAU/legislation-crawler/internal/store"
)

// SnapshotUploader mirrors the persisted snapshot file.
type SnapshotUploader interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// RecordSink mirrors individual records.
type RecordSink interface {
	UpsertRecords(ctx context.Context, year legislation.Year, records []legislation.Record) (int, error)
}

// Notifier announces finished runs.
type Notifier interface {
	Publish(ctx context.Context, payload any, attrs map[string]string) (string, error)
}

// Mirrors are optional; nil members are skipped.
type Mirrors struct {
	Snapshots SnapshotUploader
	Records   RecordSink
	Notifier  Notifier
}

// Notification is the payload published after a successful persist.
type Notification struct {
	RunID      string `json:"run_id"`
	State      State  `json:"state"`
	Year       string `json:"year"`
	Path       string `json:"path"`
	TotalItems int    `json:"total_items"`
	NewItems   int    `json:"new_items"`
	SHA256     string `json:"sha256,omitempty"`
	FinishedAt string `json:"finished_at"`
}

// Config holds the run settings.
type Config struct {
	OutputDir       string
	Force           bool
	Merge           bool
	MetricsTextfile string
	Crawl           crawler.Config
}

// Pipeline executes scrape runs. Each Run is independent.
type Pipeline struct {
	cfg     Config
	fetcher legislation.Fetcher
	parser  *parser.Parser
	clock   legislation.Clock
	mirrors Mirrors
	ids     *uuid.Generator
	hasher  *sha256.Hasher
	logger  *zap.Logger
}

// New wires a Pipeline.
func New(
	cfg Config,
	fetcher legislation.Fetcher,
	p *parser.Parser,
	clock legislation.Clock,
	mirrors Mirrors,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		parser:  p,
		clock:   clock,
		mirrors: mirrors,
		ids:     uuid.New(),
		hasher:  sha256.New(),
		logger:  logger,
	}
}

// Run performs one scrape. The returned Summary is always populated; the
// error is non-nil exactly when the run ends in StateFailed.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := p.ids.MustNewID()
	logger := p.logger.Named("pipeline").With(zap.String("run_id", runID))
	m := newMachine(logger)
	summary := Summary{RunID: runID}

	err := p.run(ctx, m, logger, &summary)
	if err != nil {
		m.to(StateFailed)
		summary.Err = err
		logger.Error("run failed", zap.Error(err))
	}
	summary.State = m.current
	summary.States = m.history
	summary.FinishedAt = p.clock.Now()
	p.recordMetrics(logger, summary)
	return summary, err
}

func (p *Pipeline) run(ctx context.Context, m *machine, logger *zap.Logger, summary *Summary) error {
	m.to(StateResolvingYear)
	year, err := ResolveYear(ctx, p.fetcher, p.parser, p.cfg.Crawl.ListingURL, p.clock, logger)
	if err != nil {
		return err
	}
	summary.Year = year

	st := store.New(p.cfg.OutputDir, year, p.cfg.Force, logger)
	summary.Path = st.Path()
	if p.cfg.Force {
		logger.Info("force rescrape enabled, existing records will be fetched again")
	}

	m.to(StateCrawling)
	enumerator := crawler.New(p.cfg.Crawl, p.fetcher, p.parser, st, p.clock, logger)
	records, stats, err := enumerator.Enumerate(ctx, year)
	summary.Stats = stats
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	summary.NewItems = len(records)

	if len(records) == 0 {
		existing, err := st.Load()
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return ErrNoData
		}
		if err != nil {
			return fmt.Errorf("load existing snapshot: %w", err)
		}
		m.to(StateNoNewData)
		summary.summarize(existing.Data)
		logger.Info("no new records, existing snapshot kept", zap.Int("total_items", existing.TotalItems))
		return nil
	}

	m.to(StatePersisting)
	data := records
	if p.cfg.Merge {
		data = p.mergeExisting(st, records, logger)
	}
	snap := legislation.NewSnapshot(year, data, p.clock.Now())
	path, err := st.Persist(ctx, snap)
	if err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	summary.Path = path
	summary.summarize(snap.Data)
	m.to(StateDone)

	p.mirror(ctx, logger, snap, summary)
	return nil
}

func (p *Pipeline) mergeExisting(st *store.SnapshotStore, fresh []legislation.Record, logger *zap.Logger) []legislation.Record {
	existing, err := st.Load()
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		return fresh
	case err != nil:
		logger.Warn("existing snapshot unreadable, writing this run only", zap.Error(err))
		return fresh
	}
	merged := store.Merge(existing.Data, fresh)
	logger.Info("merged with existing snapshot",
		zap.Int("existing", len(existing.Data)),
		zap.Int("fresh", len(fresh)),
		zap.Int("total", len(merged)),
	)
	return merged
}

// mirror pushes the persisted snapshot to the configured mirrors. Failures
// are logged only.
func (p *Pipeline) mirror(ctx context.Context, logger *zap.Logger, snap legislation.Snapshot, summary *Summary) {
	data, err := store.Encode(snap)
	if err != nil {
		logger.Warn("snapshot encode failed, skipping mirrors", zap.Error(err))
		return
	}
	digest := p.hasher.Hash(data)

	if p.mirrors.Snapshots != nil {
		uri, err := p.mirrors.Snapshots.Upload(ctx, store.FileName(summary.Year.FileKey()), data)
		if err != nil {
			logger.Warn("snapshot mirror failed", zap.Error(err))
		} else {
			logger.Info("snapshot mirrored", zap.String("uri", uri), zap.String("sha256", digest))
		}
	}

	if p.mirrors.Records != nil {
		n, err := p.mirrors.Records.UpsertRecords(ctx, summary.Year, snap.Data)
		if err != nil {
			logger.Warn("record mirror failed", zap.Error(err))
		} else {
			logger.Info("records mirrored", zap.Int("rows", n))
		}
	}

	if p.mirrors.Notifier != nil {
		note := Notification{
			RunID:      summary.RunID,
			State:      StateDone,
			Year:       summary.Year.Label,
			Path:       summary.Path,
			TotalItems: summary.TotalItems,
			NewItems:   summary.NewItems,
			SHA256:     digest,
			FinishedAt: p.clock.Now().UTC().Format(time.RFC3339),
		}
		attrs := map[string]string{"run_id": summary.RunID, "year_id": summary.Year.ID}
		id, err := p.mirrors.Notifier.Publish(ctx, note, attrs)
		if err != nil {
			logger.Warn("run notification failed", zap.Error(err))
		} else {
			logger.Info("run notification published", zap.String("message_id", id))
		}
	}
}

func (p *Pipeline) recordMetrics(logger *zap.Logger, summary Summary) {
	metrics.ObserveRun(string(summary.State), summary.FinishedAt)
	if summary.State.Succeeded() {
		metrics.SetSnapshotItems(summary.StageMap())
	}
	if p.cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(p.cfg.MetricsTextfile); err != nil {
		logger.Warn("metrics textfile not written", zap.Error(err))
	}
}
