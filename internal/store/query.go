package store

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

// Query filters snapshot records. Zero fields match everything.
type Query struct {
	Stage        legislation.Stage
	CommissionID string
	LawNumber    string
}

// Apply returns the records matching every set field, in snapshot order.
func (q Query) Apply(records []legislation.Record) []legislation.Record {
	out := make([]legislation.Record, 0, len(records))
	for _, rec := range records {
		if q.Stage != "" && rec.Stage != q.Stage {
			continue
		}
		if q.CommissionID != "" && rec.CommissionID != q.CommissionID {
			continue
		}
		if q.LawNumber != "" && rec.LawNumber != q.LawNumber {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// YearKeys lists the year keys of the snapshots in dir, newest first.
func YearKeys(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FileName("*")))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), ".json"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// LoadKey reads the snapshot stored under a year key. An empty key selects
// the newest snapshot in dir.
func LoadKey(dir, key string) (legislation.Snapshot, error) {
	if key == "" {
		keys, err := YearKeys(dir)
		if err != nil {
			return legislation.Snapshot{}, err
		}
		if len(keys) == 0 {
			return legislation.Snapshot{}, fmt.Errorf("%w: no snapshot in %s", ErrSnapshotNotFound, dir)
		}
		key = keys[0]
	}
	return ReadFile(filepath.Join(dir, FileName(key)))
}
