package rates

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	"github.com/fintrackr/fintrackr/pkg/repository/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGetForDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT \* FROM "exchange_rates" WHERE base_currency = (.+) AND date = (.+)`).
		WithArgs("USD", "2026-08-28", 1).
		WillReturnRows(sqlmock.NewRows([]string{"base_currency", "date", "rates"}).
			AddRow("USD", "2026-08-28", []byte(`{"USD":1,"EUR":0.93}`)))

	snap, err := repo.GetForDate(context.Background(), currency.USD, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, currency.USD, snap.Base)
	assert.Equal(t, 0.93, snap.Rates[currency.EUR])
}

func TestGetForDateMiss(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT \* FROM "exchange_rates"`).
		WillReturnRows(sqlmock.NewRows([]string{"base_currency"}))

	_, err := repo.GetForDate(context.Background(), currency.EUR, "2026-08-28")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetLatestOrdersByDateDescending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT \* FROM "exchange_rates" WHERE base_currency = (.+) ORDER BY date DESC`).
		WithArgs("TND", 1).
		WillReturnRows(sqlmock.NewRows([]string{"base_currency", "date", "rates"}).
			AddRow("TND", "2026-08-20", []byte(`{"TND":1}`)))

	snap, err := repo.GetLatest(context.Background(), currency.TND)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-20", snap.Date)
}

func TestUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectExec(`INSERT INTO "exchange_rates" (.+) ON CONFLICT \("base_currency","date"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &rates.Snapshot{
		Base:  currency.USD,
		Date:  "2026-08-28",
		Rates: currency.FallbackRates(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
