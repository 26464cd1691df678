// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Generic lookup and uniqueness errors shared by services and handlers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind classifies a failed sale.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation_failure"
	KindInsufficientStock  ErrorKind = "insufficient_stock"
	KindTransactionFailure ErrorKind = "transaction_failure"
)

// Messages shown to the cashier. The underlying cause is logged, never displayed.
const (
	MsgInsufficientStock  = "not enough stock to complete the sale"
	MsgTransactionFailure = "could not process the sale"
)

// Sentinels for errors.Is checks. Matching is by Kind only.
var (
	ErrValidation         = &SaleError{Kind: KindValidation}
	ErrInsufficientStock  = &SaleError{Kind: KindInsufficientStock}
	ErrTransactionFailure = &SaleError{Kind: KindTransactionFailure}
)

// SaleError is the tagged error returned by the sale flow.
type SaleError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SaleError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a SaleError of the same kind.
func (e *SaleError) Is(target error) bool {
	t, ok := target.(*SaleError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewValidationError builds a caller-side validation failure.
func NewValidationError(format string, args ...interface{}) *SaleError {
	return &SaleError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewInsufficientStockError wraps the cause of a rejected stock decrement.
func NewInsufficientStockError(err error) *SaleError {
	return &SaleError{Kind: KindInsufficientStock, Message: MsgInsufficientStock, Err: err}
}

// NewTransactionFailure wraps any other persistence failure during a sale.
func NewTransactionFailure(err error) *SaleError {
	return &SaleError{Kind: KindTransactionFailure, Message: MsgTransactionFailure, Err: err}
}

// KindOf returns the kind of the first SaleError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var se *SaleError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
