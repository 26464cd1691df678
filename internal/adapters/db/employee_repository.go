// internal/adapters/db/employee_repository.go
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

var employeeColumns = []string{
	"employee_id", "store_id", "first_name", "last_name", "email", "role", "created_at",
}

// EmployeeRepository manages employees.
type EmployeeRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *Database, logger *slog.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "employee")),
	}
}

// FindEmployee returns the employee, or nil if it does not exist.
func (r *EmployeeRepository) FindEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `
		SELECT employee_id, store_id, first_name, last_name, email, role, created_at
		FROM employees
		WHERE employee_id = $1`

	e := &domain.Employee{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.StoreID, &e.FirstName, &e.LastName, &e.Email, &e.Role, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return e, nil
}

// List returns employees ordered by id, optionally restricted to one store.
func (r *EmployeeRepository) List(ctx context.Context, storeID *int64) ([]domain.Employee, error) {
	qb := squirrel.Select(employeeColumns...).
		From("employees").
		OrderBy("employee_id").
		PlaceholderFormat(squirrel.Dollar)
	if storeID != nil {
		qb = qb.Where(squirrel.Eq{"store_id": *storeID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	return ScanMany(rows, func(row pgx.Rows) (*domain.Employee, error) {
		var e domain.Employee
		if err := row.Scan(&e.ID, &e.StoreID, &e.FirstName, &e.LastName, &e.Email, &e.Role, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		return &e, nil
	})
}

// Create inserts an employee. A duplicate email yields domain.ErrConflict and
// an unknown store domain.ErrNotFound.
func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (store_id, first_name, last_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING employee_id, created_at`

	err := r.db.QueryRow(ctx, query, employee.StoreID, employee.FirstName, employee.LastName,
		employee.Email, string(employee.Role)).Scan(&employee.ID, &employee.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("email %s: %w", employee.Email, domain.ErrConflict)
		case isForeignKeyViolation(err):
			return fmt.Errorf("store %d: %w", employee.StoreID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}

	r.logger.InfoContext(ctx, "employee created",
		slog.Int64("employee_id", employee.ID),
		slog.Int64("store_id", employee.StoreID))

	return nil
}
