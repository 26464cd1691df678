// internal/core/ports/catalog.go
package ports

import (
	"context"

	"github.com/ninco/ninco-be/internal/core/domain"
)

// ProductRepository is the product catalog. Find methods return nil, nil when absent.
type ProductRepository interface {
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)
	FindProducts(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

// StoreRepository manages stores. Find methods return nil, nil when absent.
type StoreRepository interface {
	FindStore(ctx context.Context, id int64) (*domain.Store, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	Create(ctx context.Context, store *domain.Store) error
	// Update returns domain.ErrNotFound when no row matched.
	Update(ctx context.Context, store *domain.Store) error
}

// EmployeeRepository manages employees. FindEmployee returns nil, nil when absent.
type EmployeeRepository interface {
	FindEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	// List returns every employee, or those of one store when storeID is set.
	List(ctx context.Context, storeID *int64) ([]domain.Employee, error)
	Create(ctx context.Context, employee *domain.Employee) error
}

// CatalogService is the application port for products, stores and employees.
type CatalogService interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
	CreateStore(ctx context.Context, store *domain.Store) error
	UpdateStore(ctx context.Context, store *domain.Store) error
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context, storeID *int64) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
}
