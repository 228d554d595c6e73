package crawler

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
	"github.com/JakeFAU/legislation-crawler/internal/metrics"
	"github.com/JakeFAU/legislation-crawler/internal/parser"
)

// Query parameters understood by the listing endpoint.
const (
	ParamCommission = "commissions_id"
	ParamMinistry   = "field_ministeres_new_target_id"
	ParamYear       = "field_annee_legislative_target_id"
	ParamPage       = "page"
)

// Config holds the settings for one enumeration.
type Config struct {
	ListingURL string
	// MaxPages caps pages per commission; zero means unlimited.
	MaxPages    int
	Delay       time.Duration
	Commissions []legislation.Filter
	Ministries  []legislation.Filter
}

// Enumerator walks the listing for one year. It is single-use per run and
// not safe for concurrent use.
type Enumerator struct {
	cfg     Config
	fetcher legislation.Fetcher
	parser  *parser.Parser
	index   legislation.SnapshotIndex
	clock   legislation.Clock
	pacer   pacer
	logger  *zap.Logger
}

// New wires an Enumerator. Empty filter lists default to the site catalogues.
func New(
	cfg Config,
	fetcher legislation.Fetcher,
	p *parser.Parser,
	index legislation.SnapshotIndex,
	clock legislation.Clock,
	logger *zap.Logger,
) *Enumerator {
	if len(cfg.Commissions) == 0 {
		cfg.Commissions = legislation.Commissions
	}
	if len(cfg.Ministries) == 0 {
		cfg.Ministries = legislation.Ministries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{
		cfg:     cfg,
		fetcher: fetcher,
		parser:  p,
		index:   index,
		clock:   clock,
		pacer:   fixedPacer{delay: cfg.Delay},
		logger:  logger.Named("crawler"),
	}
}

type run struct {
	year    legislation.Year
	records []legislation.Record
	byURL   map[string]int
	stats   Stats
}

// Enumerate collects every new bill for year. Single page or item failures
// are logged and skipped; the only error returned is the context's.
func (e *Enumerator) Enumerate(ctx context.Context, year legislation.Year) ([]legislation.Record, Stats, error) {
	r := &run{year: year, byURL: make(map[string]int)}

	for _, commission := range e.cfg.Commissions {
		if err := e.sweepCommission(ctx, r, commission); err != nil {
			return nil, r.stats, err
		}
	}
	if err := e.sweepMinistries(ctx, r); err != nil {
		return nil, r.stats, err
	}

	e.logger.Info("enumeration finished",
		zap.String("year", year.Label),
		zap.Object("stats", r.stats),
	)
	return r.records, r.stats, nil
}

func (e *Enumerator) sweepCommission(ctx context.Context, r *run, commission legislation.Filter) error {
	logger := e.logger.With(zap.String("commission_id", commission.ID))
	seen := make(map[string]struct{})

	for page := 0; e.cfg.MaxPages <= 0 || page < e.cfg.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := listingParams(commission.ID, legislation.AllFilterID, r.year.ID, page)
		content, err := e.fetcher.Fetch(ctx, e.cfg.ListingURL, params)
		e.pacer.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			metrics.ObserveListingPage("commission", "error")
			logger.Warn("listing page failed, abandoning commission", zap.Int("page", page), zap.Error(err))
			return nil
		}
		r.stats.ListingPages++

		listing, err := e.parser.ParseListing(content)
		if err != nil {
			metrics.ObserveListingPage("commission", "error")
			logger.Warn("listing page unreadable, abandoning commission", zap.Int("page", page), zap.Error(err))
			return nil
		}
		if listing.Done() {
			metrics.ObserveListingPage("commission", "empty")
			logger.Debug("no more content", zap.Int("page", page))
			return nil
		}
		metrics.ObserveListingPage("commission", "ok")

		fresh := 0
		for _, item := range listing.Items {
			if _, dup := seen[item.Href]; dup {
				continue
			}
			seen[item.Href] = struct{}{}
			fresh++
			if err := e.collect(ctx, r, commission, item, page+1); err != nil {
				return err
			}
		}
		if fresh == 0 {
			logger.Info("page repeats earlier results, stopping", zap.Int("page", page))
			return nil
		}
	}
	logger.Info("page limit reached", zap.Int("max_pages", e.cfg.MaxPages))
	return nil
}

func (e *Enumerator) collect(ctx context.Context, r *run, commission legislation.Filter, item parser.ListingItem, page int) error {
	r.stats.ItemsSeen++

	if idx, ok := r.byURL[item.Href]; ok {
		rec := &r.records[idx]
		if rec.CommissionID == legislation.AllFilterID && !commission.IsSentinel() {
			rec.Commission = commission.Name
			rec.CommissionID = commission.ID
			r.stats.Reassigned++
			metrics.ObserveItem("reassigned")
			return nil
		}
		metrics.ObserveItem("duplicate")
		return nil
	}

	lawNumber := parser.LawNumber(item.RawLabel)
	if e.index.Exists(lawNumber) {
		r.stats.SkippedExisting++
		metrics.ObserveItem("skipped_existing")
		e.logger.Debug("already in snapshot", zap.String("law_number", lawNumber))
		return nil
	}

	content, err := e.fetcher.Fetch(ctx, item.Href, nil)
	e.pacer.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.stats.DetailFailures++
		metrics.ObserveItem("detail_failed")
		e.logger.Warn("detail page failed, skipping", zap.String("url", item.Href), zap.Error(err))
		return nil
	}

	rec := e.parser.ParseDetail(item.Href, item.RawLabel, content)
	rec.Commission = commission.Name
	rec.CommissionID = commission.ID
	rec.Ministry = legislation.DefaultMinistry
	rec.MinistryID = legislation.DefaultMinistry
	rec.Page = page
	rec.ScrapedAt = e.clock.Now()

	r.byURL[item.Href] = len(r.records)
	r.records = append(r.records, rec)
	r.stats.Collected++
	metrics.ObserveItem("collected")
	e.logger.Info("extracted",
		zap.String("law_number", rec.LawNumber),
		zap.String("stage", string(rec.Stage)),
		zap.String("commission_id", commission.ID),
	)
	return nil
}

func (e *Enumerator) sweepMinistries(ctx context.Context, r *run) error {
	if len(r.records) == 0 {
		e.logger.Debug("nothing collected, skipping ministry sweep")
		return nil
	}

	for _, ministry := range e.cfg.Ministries {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := listingParams(legislation.AllFilterID, ministry.ID, r.year.ID, 0)
		content, err := e.fetcher.Fetch(ctx, e.cfg.ListingURL, params)
		e.pacer.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			metrics.ObserveListingPage("ministry", "error")
			e.logger.Warn("ministry page failed", zap.String("ministry_id", ministry.ID), zap.Error(err))
			continue
		}
		r.stats.MinistryPages++

		listing, err := e.parser.ParseListing(content)
		if err != nil {
			metrics.ObserveListingPage("ministry", "error")
			e.logger.Warn("ministry page unreadable", zap.String("ministry_id", ministry.ID), zap.Error(err))
			continue
		}
		if listing.NoContent {
			metrics.ObserveListingPage("ministry", "empty")
			continue
		}
		metrics.ObserveListingPage("ministry", "ok")

		for _, link := range listing.Links {
			idx, ok := r.byURL[link]
			if !ok {
				continue
			}
			if claimMinistry(&r.records[idx], ministry) {
				r.stats.MinistryMatches++
				metrics.ObserveMinistryMatch(ministry.ID)
				e.logger.Debug("ministry matched",
					zap.String("law_number", r.records[idx].LawNumber),
					zap.String("ministry_id", ministry.ID),
				)
			}
		}
	}
	return nil
}

// claimMinistry assigns ministry to rec while it still carries the default.
// The first filter listing a record keeps it, the sentinel included.
func claimMinistry(rec *legislation.Record, ministry legislation.Filter) bool {
	if rec.MinistryID != legislation.DefaultMinistry {
		return false
	}
	rec.Ministry = ministry.Name
	rec.MinistryID = ministry.ID
	return true
}

func listingParams(commissionID, ministryID, yearID string, page int) url.Values {
	return url.Values{
		ParamCommission: {commissionID},
		ParamMinistry:   {ministryID},
		ParamYear:       {yearID},
		ParamPage:       {strconv.Itoa(page)},
	}
}
