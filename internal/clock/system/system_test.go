package system

import (
	"testing"
	"time"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

var _ legislation.Clock = (*Clock)(nil)

func TestClockNowUTC(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	got := New().Now()
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Before(before) || got.After(time.Now().Add(time.Second)) {
		t.Fatalf("Now() = %v, too far from wall time", got)
	}
}

func TestClockDrivesFallbackYear(t *testing.T) {
	t.Parallel()

	now := New().Now()
	year := legislation.FallbackYear(now)
	if year.ID != now.Format("2006") {
		t.Fatalf("FallbackYear().ID = %q, want %q", year.ID, now.Format("2006"))
	}
	if year.FileKey() != now.AddDate(1, 0, 0).Format("2006") {
		t.Fatalf("FileKey() = %q, want next calendar year", year.FileKey())
	}
}
