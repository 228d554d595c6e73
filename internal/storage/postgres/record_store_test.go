package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

var testYear = legislation.Year{Label: "2024-2025", ID: "2025"}

func testRecords() []legislation.Record {
	now := time.Unix(1750000000, 0).UTC()
	return []legislation.Record{
		{
			LawNumber:    "03.25",
			Title:        "Projet de loi relatif aux pétitions",
			URL:          "https://www.chambredesrepresentants.ma/fr/legislation/projet-de-loi-n-0325",
			Stage:        legislation.StageLecture1,
			CommissionID: "63",
			MinistryID:   legislation.DefaultMinistry,
			ScrapedAt:    now,
		},
		{
			LawNumber:    "12.24",
			Title:        "Projet de loi relatif aux archives",
			URL:          "https://www.chambredesrepresentants.ma/fr/legislation/projet-de-loi-n-1224",
			Stage:        legislation.StageLecture2,
			CommissionID: "63",
			MinistryID:   "5",
			ScrapedAt:    now,
		},
	}
}

func TestUpsertRecords(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock, "")
	require.NoError(t, err)

	records := testRecords()
	mock.ExpectBegin()
	for _, rec := range records {
		mock.ExpectExec("INSERT INTO legislation_records").
			WithArgs(
				rec.URL,
				rec.LawNumber,
				testYear.ID,
				string(rec.Stage),
				rec.Title,
				rec.CommissionID,
				rec.MinistryID,
				pgxmock.AnyArg(),
				rec.ScrapedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	n, err := store.UpsertRecords(context.Background(), testYear, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecordsRollsBackOnError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock, "bills")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bills").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err = store.UpsertRecords(context.Background(), testYear, testRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert record")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecordsEmpty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock, "")
	require.NoError(t, err)
	n, err := store.UpsertRecords(context.Background(), testYear, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock, "")
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS legislation_records").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableNameValidation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewRecordStoreWithPool(mock, "records; DROP TABLE x")
	require.Error(t, err)
	_, err = NewRecordStoreWithPool(nil, "")
	require.Error(t, err)
	_, err = NewRecordStore(context.Background(), Config{})
	require.Error(t, err)
}
