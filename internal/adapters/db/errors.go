// internal/adapters/db/errors.go
package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ninco/ninco-be/internal/core/domain"
)

// SQLSTATE codes the adapters react to.
const (
	pgCheckViolation  = "23514"
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

// stockConstraint is the CHECK that keeps stock.quantity non-negative.
const stockConstraint = "stock_quantity_non_negative"

var (
	errMissingInvoiceID = errors.New("invoice insert returned no generated id")
	errMissingStockRow  = errors.New("no stock entry for product in store")
)

// isStockViolation reports whether err was raised by the non-negative stock
// constraint or by a decrement that matched no stock row.
func isStockViolation(err error) bool {
	if errors.Is(err, errMissingStockRow) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCheckViolation && pgErr.ConstraintName == stockConstraint
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgFKViolation
}

// classifySaleError maps a failed sale transaction onto the domain error kinds.
func classifySaleError(err error) *domain.SaleError {
	var se *domain.SaleError
	if errors.As(err, &se) {
		return se
	}
	if isStockViolation(err) {
		return domain.NewInsufficientStockError(err)
	}
	return domain.NewTransactionFailure(err)
}
