// internal/adapters/db/store_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const storeSelect = `
	SELECT store_id, name, address, phone, employee_count, created_at
	FROM complete_store_view`

// StoreRepository manages stores.
type StoreRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.StoreRepository = (*StoreRepository)(nil)

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *Database, logger *slog.Logger) *StoreRepository {
	return &StoreRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "store")),
	}
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	s := &domain.Store{}
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.EmployeeCount, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StoreRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.Store, error) {
	s, err := scanStore(r.db.QueryRow(ctx, storeSelect+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	return s, nil
}

// FindStore returns the store, or nil if it does not exist.
func (r *StoreRepository) FindStore(ctx context.Context, id int64) (*domain.Store, error) {
	return r.findOne(ctx, "store_id = $1", id)
}

// FindByPhone returns the store using phone, or nil.
func (r *StoreRepository) FindByPhone(ctx context.Context, phone string) (*domain.Store, error) {
	return r.findOne(ctx, "phone = $1", phone)
}

// List returns all stores ordered by id.
func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.Query(ctx, storeSelect+" ORDER BY store_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}

	return ScanMany(rows, func(row pgx.Rows) (*domain.Store, error) {
		s, err := scanStore(row)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		return s, nil
	})
}

// Create inserts a store. A duplicate phone yields domain.ErrConflict.
func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (name, address, phone)
		VALUES ($1, $2, $3)
		RETURNING store_id, created_at`

	err := r.db.QueryRow(ctx, query, store.Name, store.Address, store.Phone).
		Scan(&store.ID, &store.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone %s: %w", store.Phone, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create store: %w", err)
	}

	r.logger.InfoContext(ctx, "store created",
		slog.Int64("store_id", store.ID),
		slog.String("name", store.Name))

	return nil
}

// Update overwrites name, address and phone. It returns domain.ErrNotFound
// when the store does not exist.
func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) error {
	query := `UPDATE stores SET name = $2, address = $3, phone = $4 WHERE store_id = $1`

	tag, err := r.db.Exec(ctx, query, store.ID, store.Name, store.Address, store.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone %s: %w", store.Phone, domain.ErrConflict)
		}
		return fmt.Errorf("failed to update store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", store.ID, domain.ErrNotFound)
	}

	r.logger.InfoContext(ctx, "store updated", slog.Int64("store_id", store.ID))

	return nil
}
