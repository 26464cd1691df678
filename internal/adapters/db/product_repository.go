// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

var productColumns = []string{
	"product_id", "name", "description", "brand", "price", "stock", "created_at",
}

// ProductRepository reads the catalog through complete_product_view, which
// adds the stock summed over every store.
type ProductRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "product")),
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Price, &p.Stock, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindProduct returns the product, or nil if it does not exist.
func (r *ProductRepository) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query, args, err := squirrel.Select(productColumns...).
		From("complete_product_view").
		Where(squirrel.Eq{"product_id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := scanProduct(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// FindProducts loads several products at once, keyed by id. Unknown ids are
// simply absent from the result.
func (r *ProductRepository) FindProducts(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	result := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := squirrel.Select(productColumns...).
		From("complete_product_view").
		Where(squirrel.Eq{"product_id": ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// List returns the whole catalog ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query, args, err := squirrel.Select(productColumns...).
		From("complete_product_view").
		OrderBy("name", "product_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return ScanMany(rows, func(row pgx.Rows) (*domain.Product, error) {
		p, err := scanProduct(row)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		return p, nil
	})
}

// Create inserts a product and fills in its id and creation time.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, brand, price)
		VALUES ($1, $2, $3, $4)
		RETURNING product_id, created_at`

	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Brand, product.Price,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name))

	return nil
}
