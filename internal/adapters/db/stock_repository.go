// internal/adapters/db/stock_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const (
	decrementStockQuery = `
		UPDATE stock
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE store_id = $2 AND product_id = $3`

	restockQuery = `
		INSERT INTO stock (product_id, store_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, store_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = NOW()`

	completeImportQuery = `
		UPDATE import_jobs
		SET status = 'completed', rows_processed = $2, error = NULL, updated_at = NOW()
		WHERE job_id = $1 AND status <> 'completed'`
)

// StockRepository is the per-store stock ledger.
type StockRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.StockLedger = (*StockRepository)(nil)

// NewStockRepository creates a new stock repository
func NewStockRepository(db *Database, logger *slog.Logger) *StockRepository {
	return &StockRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "stock")),
	}
}

// QueueDecrement adds a decrement of amount units to batch. The
// stock_quantity_non_negative constraint rejects it when stock would go negative.
func (r *StockRepository) QueueDecrement(batch *pgx.Batch, storeID, productID int64, amount int) {
	batch.Queue(decrementStockQuery, amount, storeID, productID)
}

// CurrentQuantity returns the stored quantity, or 0 when no entry exists.
// The value is advisory only.
func (r *StockRepository) CurrentQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	var quantity int
	err := r.db.QueryRow(ctx,
		`SELECT quantity FROM stock WHERE store_id = $1 AND product_id = $2`,
		storeID, productID,
	).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read stock quantity: %w", err)
	}
	return quantity, nil
}

// ListAll returns every stock entry with product and store names.
func (r *StockRepository) ListAll(ctx context.Context) ([]domain.StockEntry, error) {
	return r.list(ctx, r.baseQuery())
}

// ListByStore returns the stock entries of one store.
func (r *StockRepository) ListByStore(ctx context.Context, storeID int64) ([]domain.StockEntry, error) {
	return r.list(ctx, r.baseQuery().Where(squirrel.Eq{"s.store_id": storeID}))
}

// ListBelow returns entries of a store whose quantity is below threshold,
// optionally restricted to productIDs.
func (r *StockRepository) ListBelow(ctx context.Context, storeID int64, threshold int, productIDs []int64) ([]domain.StockEntry, error) {
	qb := r.baseQuery().
		Where(squirrel.Eq{"s.store_id": storeID}).
		Where(squirrel.Lt{"s.quantity": threshold})
	if len(productIDs) > 0 {
		qb = qb.Where(squirrel.Eq{"s.product_id": productIDs})
	}
	return r.list(ctx, qb)
}

func (r *StockRepository) baseQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"s.product_id", "s.store_id", "p.name", "st.name",
		"s.quantity", "s.created_at", "s.updated_at",
	).From("stock s").
		Join("products p ON p.product_id = s.product_id").
		Join("stores st ON st.store_id = s.store_id").
		OrderBy("s.store_id", "s.product_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]domain.StockEntry, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}

	return ScanMany(rows, func(row pgx.Rows) (*domain.StockEntry, error) {
		var e domain.StockEntry
		if err := row.Scan(&e.ProductID, &e.StoreID, &e.ProductName, &e.StoreName,
			&e.Quantity, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock entry: %w", err)
		}
		return &e, nil
	})
}

// Restock adds the given quantities to a store in one transaction, creating
// missing entries.
func (r *StockRepository) Restock(ctx context.Context, storeID int64, adjustments []domain.StockAdjustment) error {
	if err := domain.ValidateAdjustments(adjustments); err != nil {
		return err
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range adjustments {
			batch.Queue(restockQuery, a.ProductID, storeID, a.Quantity)
		}
		return execBatch(ctx, tx, batch, nil)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("unknown store or product: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("failed to restock: %w", err)
	}

	r.logger.InfoContext(ctx, "store restocked",
		slog.Int64("store_id", storeID),
		slog.Int("lines", len(adjustments)))

	return nil
}

// ApplyImport completes the import job and applies its adjustments in one
// transaction. A job that is already completed is left alone and nothing is
// applied, so a retried import task cannot add its quantities twice.
func (r *StockRepository) ApplyImport(ctx context.Context, jobID uuid.UUID, storeID int64, adjustments []domain.StockAdjustment) (bool, error) {
	if err := domain.ValidateAdjustments(adjustments); err != nil {
		return false, err
	}

	applied := false
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, completeImportQuery, jobID, len(adjustments))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, a := range adjustments {
			batch.Queue(restockQuery, a.ProductID, storeID, a.Quantity)
		}
		if err := execBatch(ctx, tx, batch, nil); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("unknown store or product: %w", domain.ErrNotFound)
		}
		return false, fmt.Errorf("failed to apply import: %w", err)
	}

	if !applied {
		r.logger.InfoContext(ctx, "import already applied", slog.String("job_id", jobID.String()))
		return false, nil
	}

	r.logger.InfoContext(ctx, "import applied",
		slog.String("job_id", jobID.String()),
		slog.Int64("store_id", storeID),
		slog.Int("lines", len(adjustments)))

	return true, nil
}
