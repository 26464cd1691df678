// internal/core/domain/report.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySales aggregates one store's sales for one day.
type DailySales struct {
	Day      time.Time       `json:"day"`
	StoreID  int64           `json:"store_id"`
	Invoices int64           `json:"invoices"`
	Units    int64           `json:"units"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// TopProduct is a best seller within a period.
type TopProduct struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Units     int64           `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Dashboard is the sales summary served to the back office.
type Dashboard struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalInvoices int64           `json:"total_invoices"`
	TotalUnits    int64           `json:"total_units"`
	Daily         []DailySales    `json:"daily"`
	TopProducts   []TopProduct    `json:"top_products"`
	LowStock      []StockEntry    `json:"low_stock"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
