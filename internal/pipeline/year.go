package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
	"github.com/JakeFAU/legislation-crawler/internal/parser"
)

var (
	// ErrYearNotResolved means the listing page could not be fetched or had
	// no year selector.
	ErrYearNotResolved = errors.New("legislative year not resolved")
	// ErrNoData means the run found nothing new and no snapshot exists.
	ErrNoData = errors.New("no legislation data")
)

// ResolveYear reads the current legislative year from the listing page. A
// selector holding only the "all years" option falls back to the calendar
// year from clock.
func ResolveYear(
	ctx context.Context,
	fetcher legislation.Fetcher,
	p *parser.Parser,
	listingURL string,
	clock legislation.Clock,
	logger *zap.Logger,
) (legislation.Year, error) {
	content, err := fetcher.Fetch(ctx, listingURL, nil)
	if err != nil {
		return legislation.Year{}, fmt.Errorf("%w: %w", ErrYearNotResolved, err)
	}
	year, ok, err := p.ParseYear(content)
	if err != nil {
		return legislation.Year{}, fmt.Errorf("%w: %w", ErrYearNotResolved, err)
	}
	if !ok {
		year = legislation.FallbackYear(clock.Now())
		logger.Warn("year selector has no usable option, using calendar year", zap.String("year", year.Label))
	}
	logger.Info("resolved legislative year", zap.String("year", year.Label), zap.String("year_id", year.ID))
	return year, nil
}
