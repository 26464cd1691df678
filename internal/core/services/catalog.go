// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

// CatalogService handles products, stores and employee lookups.
type CatalogService struct {
	products  ports.ProductRepository
	stores    ports.StoreRepository
	employees ports.EmployeeRepository
	cache     ports.CacheRepository
	ttl       time.Duration
	logger    *slog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(products ports.ProductRepository, stores ports.StoreRepository,
	employees ports.EmployeeRepository, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products:  products,
		stores:    stores,
		employees: employees,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With(slog.String("service", "catalog")),
	}
}

// GetProduct returns a product or ErrNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.FindProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// ListProducts returns the catalog, cached.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.cache.GetOrSet(ctx, catalogProductsKey, &products, func() (interface{}, error) {
		return s.products.List(ctx)
	}, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct validates and stores a product.
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, catalogCachePattern)
	return nil
}

// GetStore returns a store or ErrNotFound.
func (s *CatalogService) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	store, err := s.stores.FindStore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store %d: %w", id, domain.ErrNotFound)
	}
	return store, nil
}

// ListStores returns every store.
func (s *CatalogService) ListStores(ctx context.Context) ([]domain.Store, error) {
	stores, err := s.stores.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// CreateStore validates and stores a store. A taken phone number is ErrConflict.
func (s *CatalogService) CreateStore(ctx context.Context, store *domain.Store) error {
	if err := store.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	existing, err := s.stores.FindByPhone(ctx, store.Phone)
	if err != nil {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("phone %s: %w", store.Phone, domain.ErrConflict)
	}

	return s.stores.Create(ctx, store)
}

// UpdateStore overwrites a store's details.
func (s *CatalogService) UpdateStore(ctx context.Context, store *domain.Store) error {
	if store.ID <= 0 {
		return fmt.Errorf("%w: store id must be positive", domain.ErrInvalidInput)
	}
	if err := store.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.stores.Update(ctx, store); err != nil {
		return err
	}
	s.invalidate(ctx, stockCachePattern)
	return nil
}

// GetEmployee returns an employee or ErrNotFound.
func (s *CatalogService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	e, err := s.employees.FindEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// ListEmployees returns every employee, or those of one store.
func (s *CatalogService) ListEmployees(ctx context.Context, storeID *int64) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// CreateEmployee registers an employee at an existing store.
func (s *CatalogService) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	if err := employee.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return s.employees.Create(ctx, employee)
}

func (s *CatalogService) invalidate(ctx context.Context, pattern string) {
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cache",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
	}
}
