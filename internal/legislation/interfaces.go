package legislation

import (
	"context"
	"net/url"
	"time"
)

// Fetcher retrieves raw page content, retrying internally.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// SnapshotIndex answers whether a law number is already persisted.
type SnapshotIndex interface {
	Exists(lawNumber string) bool
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
