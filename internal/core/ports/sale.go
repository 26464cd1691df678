// internal/core/ports/sale.go
package ports

import (
	"context"

	"github.com/ninco/ninco-be/internal/core/domain"
)

// SaleCoordinator records an invoice, its lines and the matching stock
// decrements as one all-or-nothing unit. Errors are *domain.SaleError with
// kind insufficient_stock or transaction_failure.
type SaleCoordinator interface {
	ExecuteSale(ctx context.Context, storeID, employeeID int64, clientName string, items []domain.CartItem) (int64, error)
}

// InvoiceRepository reads committed invoices.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int64, error)
	SetReceiptKey(ctx context.Context, id int64, key string) error
}

// SaleService is the checkout entry point used by the HTTP layer.
type SaleService interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest, idempotencyKey string) (*domain.Sale, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*InvoiceList, error)
	RenderReceipt(ctx context.Context, id int64) ([]byte, error)
}

// InvoiceList is one page of invoices.
type InvoiceList struct {
	Invoices   []domain.Invoice `json:"invoices"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalCount int64            `json:"total_count"`
	TotalPages int              `json:"total_pages"`
}

// ReceiptRenderer produces the printable receipt of a committed invoice.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, id int64) ([]byte, error)
}
