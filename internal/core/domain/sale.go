// internal/core/domain/sale.go
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const maxClientNameLength = 128

// Invoice is the persisted header anchoring a completed sale.
type Invoice struct {
	ID         int64      `json:"invoice_id"`
	StoreID    int64      `json:"store_id"`
	ClientName string     `json:"client_name"`
	ReceiptKey *string    `json:"receipt_key,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Lines      []SaleLine `json:"lines,omitempty"`
}

// Total sums the subtotals of all lines.
func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// SaleLine fixes quantity and price of one product at sale time.
type SaleLine struct {
	InvoiceID   int64           `json:"invoice_id"`
	StoreID     int64           `json:"store_id"`
	EmployeeID  int64           `json:"employee_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity x unit price.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItem is a line the customer intends to buy. It is never persisted as such.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity x unit price.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartTotal sums the subtotals of items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ValidateCart rejects an empty cart or any line without a product or a positive quantity.
func ValidateCart(items []CartItem) error {
	if len(items) == 0 {
		return NewValidationError("cart must contain at least one item")
	}
	for i, item := range items {
		if item.ProductID <= 0 {
			return NewValidationError("item %d: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return NewValidationError("item %d: quantity must be positive", i)
		}
		if item.UnitPrice.IsNegative() {
			return NewValidationError("item %d: unit price cannot be negative", i)
		}
	}
	return nil
}

// MergeCartItems folds lines for the same product into one, summing quantities.
// The first occurrence keeps its position, name and price.
func MergeCartItems(items []CartItem) []CartItem {
	index := make(map[int64]int, len(items))
	merged := make([]CartItem, 0, len(items))
	for _, item := range items {
		if pos, ok := index[item.ProductID]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

// SortedByProduct returns a copy of items ordered by product id.
func SortedByProduct(items []CartItem) []CartItem {
	sorted := make([]CartItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})
	return sorted
}

// CheckoutItem is a requested product and quantity before pricing.
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest is what a cashier submits to close a sale.
type CheckoutRequest struct {
	StoreID    int64          `json:"store_id"`
	EmployeeID int64          `json:"employee_id"`
	ClientName string         `json:"client_name"`
	Items      []CheckoutItem `json:"items"`
}

// Validate checks the request shape and trims the client name.
func (r *CheckoutRequest) Validate() error {
	r.ClientName = strings.TrimSpace(r.ClientName)
	if r.StoreID <= 0 {
		return NewValidationError("store_id is required")
	}
	if r.EmployeeID <= 0 {
		return NewValidationError("employee_id is required")
	}
	if r.ClientName == "" {
		return NewValidationError("client_name is required")
	}
	if utf8.RuneCountInString(r.ClientName) > maxClientNameLength {
		return NewValidationError("client_name must be at most %d characters", maxClientNameLength)
	}
	if len(r.Items) == 0 {
		return NewValidationError("cart must contain at least one item")
	}
	for i, item := range r.Items {
		if item.ProductID <= 0 {
			return NewValidationError("item %d: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return NewValidationError("item %d: quantity must be positive", i)
		}
	}
	return nil
}

// ProductIDs returns the distinct product ids in request order.
func (r *CheckoutRequest) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(r.Items))
	ids := make([]int64, 0, len(r.Items))
	for _, item := range r.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Fingerprint hashes the parts of the request that decide the sale. Line
// order and repeated lines for the same product do not change it.
func (r *CheckoutRequest) Fingerprint() string {
	quantities := make(map[int64]int, len(r.Items))
	for _, item := range r.Items {
		quantities[item.ProductID] += item.Quantity
	}
	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%s", r.StoreID, r.EmployeeID, strings.TrimSpace(r.ClientName))
	for _, id := range ids {
		fmt.Fprintf(h, "|%d:%d", id, quantities[id])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Sale is the outcome of a committed checkout.
type Sale struct {
	InvoiceID  int64           `json:"invoice_id"`
	StoreID    int64           `json:"store_id"`
	EmployeeID int64           `json:"employee_id"`
	ClientName string          `json:"client_name"`
	Items      []CartItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	StoreID  *int64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Normalize applies paging defaults.
func (f *InvoiceFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 50
	}
	if f.PageSize > 500 {
		f.PageSize = 500
	}
}

// Offset returns the row offset for the current page.
func (f InvoiceFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
