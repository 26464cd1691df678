// internal/core/ports/stock.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ninco/ninco-be/internal/core/domain"
)

// StockLedger exposes the read side of per-store stock and restocking.
// Decrements only happen inside the sale transaction.
type StockLedger interface {
	// CurrentQuantity is advisory; the constrained decrement is authoritative.
	CurrentQuantity(ctx context.Context, storeID, productID int64) (int, error)
	ListAll(ctx context.Context) ([]domain.StockEntry, error)
	ListByStore(ctx context.Context, storeID int64) ([]domain.StockEntry, error)
	ListBelow(ctx context.Context, storeID int64, threshold int, productIDs []int64) ([]domain.StockEntry, error)
	Restock(ctx context.Context, storeID int64, adjustments []domain.StockAdjustment) error
	// ApplyImport restocks and completes the import job in one transaction.
	// It reports false, applying nothing, when the job is already completed.
	ApplyImport(ctx context.Context, jobID uuid.UUID, storeID int64, adjustments []domain.StockAdjustment) (bool, error)
}

// StockService serves cached stock listings and restocking.
type StockService interface {
	ListAll(ctx context.Context) ([]domain.StockEntry, error)
	ListByStore(ctx context.Context, storeID int64) ([]domain.StockEntry, error)
	CurrentQuantity(ctx context.Context, storeID, productID int64) (int, error)
	Restock(ctx context.Context, storeID int64, adjustments []domain.StockAdjustment) error
	ApplyImport(ctx context.Context, jobID uuid.UUID, storeID int64, adjustments []domain.StockAdjustment) (bool, error)
}

// ImportJobRepository persists stock import jobs.
type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ImportStatus, rows int, errMsg *string) error
	DeleteFinishedBefore(ctx context.Context, before time.Time) ([]domain.ImportJob, error)
}
