// Package postgres mirrors legislation records into a Postgres table.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

const defaultTable = "legislation_records"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for record rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Begin(context.Context) (pgx.Tx, error)
	Close()
}

// RecordStore upserts records keyed by bill URL.
type RecordStore struct {
	pool  pool
	table string
}

// NewRecordStore connects a pool using cfg.
func NewRecordStore(ctx context.Context, cfg Config) (*RecordStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("mirror.postgres.dsn is required")
	}
	table, err := tableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &RecordStore{pool: p, table: table}, nil
}

// NewRecordStoreWithPool constructs a store from an existing pool.
func NewRecordStoreWithPool(p pool, table string) (*RecordStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &RecordStore{pool: p, table: name}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Close releases the pool.
func (s *RecordStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the record table when it does not exist.
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	url           TEXT PRIMARY KEY,
	law_number    TEXT NOT NULL,
	year_id       TEXT NOT NULL,
	stage         TEXT NOT NULL,
	title         TEXT NOT NULL,
	commission_id TEXT NOT NULL,
	ministry_id   TEXT NOT NULL,
	record        JSONB NOT NULL,
	scraped_at    TIMESTAMPTZ NOT NULL
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// UpsertRecords writes records for year in one transaction and returns the
// number of rows written.
func (s *RecordStore) UpsertRecords(ctx context.Context, year legislation.Year, records []legislation.Record) (int, error) {
	if s == nil || s.pool == nil {
		return 0, fmt.Errorf("record store is not configured")
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	query := fmt.Sprintf(`
INSERT INTO %s (url, law_number, year_id, stage, title, commission_id, ministry_id, record, scraped_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (url) DO UPDATE SET
	law_number = EXCLUDED.law_number,
	year_id = EXCLUDED.year_id,
	stage = EXCLUDED.stage,
	title = EXCLUDED.title,
	commission_id = EXCLUDED.commission_id,
	ministry_id = EXCLUDED.ministry_id,
	record = EXCLUDED.record,
	scraped_at = EXCLUDED.scraped_at`, s.table)

	for _, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("marshal record %s: %w", rec.URL, err)
		}
		if _, err := tx.Exec(ctx, query,
			rec.URL,
			rec.LawNumber,
			year.ID,
			string(rec.Stage),
			rec.Title,
			rec.CommissionID,
			rec.MinistryID,
			doc,
			rec.ScrapedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert record %s: %w", rec.URL, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit records: %w", err)
	}
	committed = true
	return len(records), nil
}
