package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

// ErrSnapshotNotFound signals that no snapshot exists for the year.
var ErrSnapshotNotFound = errors.New("snapshot not found")

const filePrefix = "extracted-data-"

// FileName returns the snapshot filename for a year key such as "2025".
func FileName(key string) string {
	return filePrefix + key + ".json"
}

// PathFor returns the snapshot path of year inside dir.
func PathFor(dir string, year legislation.Year) string {
	return filepath.Join(dir, FileName(year.FileKey()))
}

// SnapshotStore reads and writes the snapshot of one legislative year.
type SnapshotStore struct {
	dir    string
	year   legislation.Year
	force  bool
	logger *zap.Logger

	once  sync.Once
	index map[string]struct{}
}

// New builds a store for year rooted at dir. With force set, Exists always
// reports false so every bill is scraped again.
func New(dir string, year legislation.Year, force bool, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{
		dir:    dir,
		year:   year,
		force:  force,
		logger: logger.Named("store"),
	}
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return PathFor(s.dir, s.year)
}

// Exists reports whether lawNumber is already in the on-disk snapshot. The
// file is indexed on first use; it does not change during a run.
func (s *SnapshotStore) Exists(lawNumber string) bool {
	if s.force || lawNumber == "" {
		return false
	}
	s.once.Do(s.loadIndex)
	_, ok := s.index[lawNumber]
	return ok
}

func (s *SnapshotStore) loadIndex() {
	s.index = make(map[string]struct{})
	snap, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			s.logger.Warn("existing snapshot unreadable, treating as empty", zap.String("path", s.Path()), zap.Error(err))
		}
		return
	}
	for _, rec := range snap.Data {
		if rec.LawNumber != "" {
			s.index[rec.LawNumber] = struct{}{}
		}
	}
}

// Load reads the snapshot for the store's year.
func (s *SnapshotStore) Load() (legislation.Snapshot, error) {
	return ReadFile(s.Path())
}

// ReadFile decodes a snapshot file.
func ReadFile(path string) (legislation.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return legislation.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return legislation.Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var snap legislation.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return legislation.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Encode renders a snapshot as indented UTF-8 JSON without HTML escaping.
func Encode(snap legislation.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Persist replaces the snapshot file with snap. The file is written to a
// temporary sibling and renamed, so a failed write leaves the previous
// snapshot in place.
func (s *SnapshotStore) Persist(ctx context.Context, snap legislation.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	payload, err := Encode(snap)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create snapshot dir %s: %w", s.dir, err)
	}

	target := s.Path()
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("write snapshot %s: %w", target, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("chmod snapshot %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close snapshot %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return "", fmt.Errorf("replace snapshot %s: %w", target, err)
	}

	s.logger.Info("snapshot written",
		zap.String("path", target),
		zap.Int("total_items", snap.TotalItems),
	)
	return target, nil
}

// Merge carries forward existing records that no fresh record supersedes,
// followed by the fresh records. A fresh record supersedes an existing one
// with the same law number, or the same URL when the law number is empty.
func Merge(existing, fresh []legislation.Record) []legislation.Record {
	freshLaws := make(map[string]struct{}, len(fresh))
	freshURLs := make(map[string]struct{}, len(fresh))
	for _, rec := range fresh {
		if rec.LawNumber != "" {
			freshLaws[rec.LawNumber] = struct{}{}
		}
		freshURLs[rec.URL] = struct{}{}
	}

	merged := make([]legislation.Record, 0, len(existing)+len(fresh))
	for _, rec := range existing {
		if rec.LawNumber != "" {
			if _, ok := freshLaws[rec.LawNumber]; ok {
				continue
			}
		} else if _, ok := freshURLs[rec.URL]; ok {
			continue
		}
		merged = append(merged, rec)
	}
	return append(merged, fresh...)
}
