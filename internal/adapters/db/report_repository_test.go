package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninco/ninco-be/internal/adapters/db"
	"github.com/ninco/ninco-be/test/helpers"
)

func TestReportRepository_DailySales(t *testing.T) {
	mock, sqlDB := helpers.SetupMockDB(t)
	repo := db.NewReportRepository(sqlDB, helpers.TestLogger())

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	day := from.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{"day", "store_id", "invoices", "units", "revenue"}).
		AddRow(from, int64(1), int64(3), int64(7), "87.50").
		AddRow(day, int64(1), int64(1), int64(2), "25.00")

	mock.ExpectQuery(`SELECT date_trunc\('day', i.created_at\) AS day, i.store_id, .* FROM invoices i JOIN sales s ON s.invoice_id = i.invoice_id WHERE i.created_at >= \$1 AND i.created_at < \$2 GROUP BY day, i.store_id ORDER BY day, i.store_id`).
		WithArgs(from, to).
		WillReturnRows(rows)

	result, err := repo.DailySales(context.Background(), from, to, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(3), result[0].Invoices)
	assert.Equal(t, int64(7), result[0].Units)
	assert.True(t, decimal.RequireFromString("87.50").Equal(result[0].Revenue))
	assert.Equal(t, day, result[1].Day)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_DailySales_StoreFilter(t *testing.T) {
	mock, sqlDB := helpers.SetupMockDB(t)
	repo := db.NewReportRepository(sqlDB, helpers.TestLogger())

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	storeID := int64(4)

	mock.ExpectQuery(`WHERE i.created_at >= \$1 AND i.created_at < \$2 AND i.store_id = \$3`).
		WithArgs(from, to, storeID).
		WillReturnRows(sqlmock.NewRows([]string{"day", "store_id", "invoices", "units", "revenue"}))

	result, err := repo.DailySales(context.Background(), from, to, &storeID)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NotNil(t, result)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_TopProducts(t *testing.T) {
	mock, sqlDB := helpers.SetupMockDB(t)
	repo := db.NewReportRepository(sqlDB, helpers.TestLogger())

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT p.product_id, p.name, SUM\(s.amount\) AS units, .* FROM sales s JOIN products p .* ORDER BY units DESC, p.product_id LIMIT 10`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "units", "revenue"}).
			AddRow(int64(2), "Colombian Coffee 500g", int64(12), "150.00").
			AddRow(int64(5), "Panela", int64(4), "10.00"))

	result, err := repo.TopProducts(context.Background(), from, to, 0)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Colombian Coffee 500g", result[0].Name)
	assert.Equal(t, int64(12), result[0].Units)
	assert.True(t, decimal.NewFromInt(150).Equal(result[0].Revenue))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_QueryError(t *testing.T) {
	mock, sqlDB := helpers.SetupMockDB(t)
	repo := db.NewReportRepository(sqlDB, helpers.TestLogger())

	mock.ExpectQuery(`FROM sales s`).WillReturnError(errors.New("connection reset"))

	_, err := repo.TopProducts(context.Background(), time.Now().Add(-time.Hour), time.Now(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query top products")
}
