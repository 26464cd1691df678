package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ninco/ninco-be/internal/core/domain"
)

func TestClassifySaleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.ErrorKind
	}{
		{
			name:     "stock_check_violation",
			err:      &pgconn.PgError{Code: pgCheckViolation, ConstraintName: stockConstraint},
			wantKind: domain.KindInsufficientStock,
		},
		{
			name:     "wrapped_stock_check_violation",
			err:      fmt.Errorf("failed to decrement stock: %w", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: stockConstraint}),
			wantKind: domain.KindInsufficientStock,
		},
		{
			name:     "missing_stock_row",
			err:      fmt.Errorf("product 7: %w", errMissingStockRow),
			wantKind: domain.KindInsufficientStock,
		},
		{
			name:     "other_check_violation",
			err:      &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "sales_amount_positive"},
			wantKind: domain.KindTransactionFailure,
		},
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: pgFKViolation, ConstraintName: "sales_employee_id_fkey"},
			wantKind: domain.KindTransactionFailure,
		},
		{
			name:     "missing_invoice_id",
			err:      errMissingInvoiceID,
			wantKind: domain.KindTransactionFailure,
		},
		{
			name:     "connection_error",
			err:      errors.New("conn closed"),
			wantKind: domain.KindTransactionFailure,
		},
		{
			name:     "already_classified",
			err:      domain.NewInsufficientStockError(errors.New("x")),
			wantKind: domain.KindInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySaleError(tt.err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifySaleError_NoRawPgErrorMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgCheckViolation, ConstraintName: stockConstraint, Message: "new row violates check constraint"}
	got := classifySaleError(pgErr)

	assert.Equal(t, domain.MsgInsufficientStock, got.Message)
	assert.True(t, errors.Is(got, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(got, domain.ErrTransactionFailure))
}

func TestConstraintHelpers(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})))
	assert.False(t, isUniqueViolation(errors.New("plain")))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: pgFKViolation}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: pgUniqueViolation}))
}
