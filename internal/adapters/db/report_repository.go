// internal/adapters/db/report_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

// ReportRepository runs the sales aggregates over database/sql so the
// dashboard queries can share the pool with pgx and be tested with sqlmock.
type ReportRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a report repository. Use Database.SQLDB for db.
func NewReportRepository(db *sql.DB, logger *slog.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "report")),
	}
}

func (r *ReportRepository) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		RunWith(r.db)
}

// DailySales aggregates invoices, units and revenue per store and day in
// [from, to). storeID narrows the result to one store.
func (r *ReportRepository) DailySales(ctx context.Context, from, to time.Time, storeID *int64) ([]domain.DailySales, error) {
	qb := r.builder().
		Select(
			"date_trunc('day', i.created_at) AS day",
			"i.store_id",
			"COUNT(DISTINCT i.invoice_id)",
			"COALESCE(SUM(s.amount), 0)",
			"COALESCE(SUM(s.amount * s.price), 0)",
		).
		From("invoices i").
		Join("sales s ON s.invoice_id = i.invoice_id").
		Where(squirrel.GtOrEq{"i.created_at": from}).
		Where(squirrel.Lt{"i.created_at": to}).
		GroupBy("day", "i.store_id").
		OrderBy("day", "i.store_id")

	if storeID != nil {
		qb = qb.Where(squirrel.Eq{"i.store_id": *storeID})
	}

	rows, err := qb.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	result := make([]domain.DailySales, 0)
	for rows.Next() {
		var d domain.DailySales
		if err := rows.Scan(&d.Day, &d.StoreID, &d.Invoices, &d.Units, &d.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// TopProducts returns the best sellers by units in [from, to).
func (r *ReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.builder().
		Select(
			"p.product_id",
			"p.name",
			"SUM(s.amount) AS units",
			"SUM(s.amount * s.price)",
		).
		From("sales s").
		Join("products p ON p.product_id = s.product_id").
		Where(squirrel.GtOrEq{"s.created_at": from}).
		Where(squirrel.Lt{"s.created_at": to}).
		GroupBy("p.product_id", "p.name").
		OrderBy("units DESC", "p.product_id").
		Limit(uint64(limit)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	result := make([]domain.TopProduct, 0, limit)
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Units, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	r.logger.DebugContext(ctx, "top products computed", slog.Int("count", len(result)))

	return result, nil
}
