// internal/core/services/stock.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

// StockService serves stock listings through the cache and applies restocks.
type StockService struct {
	ledger ports.StockLedger
	cache  ports.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.StockService = (*StockService)(nil)

// NewStockService creates a new stock service
func NewStockService(ledger ports.StockLedger, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *StockService {
	return &StockService{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("service", "stock")),
	}
}

// ListAll returns every stock entry.
func (s *StockService) ListAll(ctx context.Context) ([]domain.StockEntry, error) {
	var entries []domain.StockEntry
	err := s.cache.GetOrSet(ctx, stockAllKey, &entries, func() (interface{}, error) {
		return s.ledger.ListAll(ctx)
	}, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return entries, nil
}

// ListByStore returns the stock entries of one store.
func (s *StockService) ListByStore(ctx context.Context, storeID int64) ([]domain.StockEntry, error) {
	if storeID <= 0 {
		return nil, fmt.Errorf("%w: store id must be positive", domain.ErrInvalidInput)
	}

	var entries []domain.StockEntry
	err := s.cache.GetOrSet(ctx, stockStoreKey(storeID), &entries, func() (interface{}, error) {
		return s.ledger.ListByStore(ctx, storeID)
	}, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to list store stock: %w", err)
	}
	return entries, nil
}

// CurrentQuantity reads the quantity straight from the ledger. The result is
// advisory; the sale transaction re-checks it.
func (s *StockService) CurrentQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	if storeID <= 0 || productID <= 0 {
		return 0, fmt.Errorf("%w: store and product ids must be positive", domain.ErrInvalidInput)
	}
	q, err := s.ledger.CurrentQuantity(ctx, storeID, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to get quantity: %w", err)
	}
	return q, nil
}

// Restock adds quantities to a store and drops cached stock views.
func (s *StockService) Restock(ctx context.Context, storeID int64, adjustments []domain.StockAdjustment) error {
	if storeID <= 0 {
		return fmt.Errorf("%w: store id must be positive", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAdjustments(adjustments); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.ledger.Restock(ctx, storeID, adjustments); err != nil {
		return err
	}

	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "restock applied",
		slog.Int64("store_id", storeID),
		slog.Int("lines", len(adjustments)))

	return nil
}

// ApplyImport restocks a store from an import job exactly once. It reports
// false when the job had already been applied.
func (s *StockService) ApplyImport(ctx context.Context, jobID uuid.UUID, storeID int64, adjustments []domain.StockAdjustment) (bool, error) {
	if storeID <= 0 {
		return false, fmt.Errorf("%w: store id must be positive", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAdjustments(adjustments); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	applied, err := s.ledger.ApplyImport(ctx, jobID, storeID, adjustments)
	if err != nil || !applied {
		return applied, err
	}

	s.invalidate(ctx)
	return true, nil
}

func (s *StockService) invalidate(ctx context.Context) {
	for _, pattern := range []string{stockCachePattern, catalogCachePattern, dashboardCachePattern} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate cache",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
		}
	}
}
