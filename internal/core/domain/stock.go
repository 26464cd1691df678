// internal/core/domain/stock.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StockEntry is the available quantity of one product in one store.
type StockEntry struct {
	ProductID   int64     `json:"product_id"`
	StoreID     int64     `json:"store_id"`
	ProductName string    `json:"product_name"`
	StoreName   string    `json:"store_name"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockAdjustment adds Quantity units of a product to a store.
type StockAdjustment struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ValidateAdjustments requires at least one adjustment, each with a product and a positive quantity.
func ValidateAdjustments(adjustments []StockAdjustment) error {
	if len(adjustments) == 0 {
		return fmt.Errorf("at least one stock adjustment is required")
	}
	for i, a := range adjustments {
		if a.ProductID <= 0 {
			return fmt.Errorf("adjustment %d: product_id is required", i)
		}
		if a.Quantity <= 0 {
			return fmt.Errorf("adjustment %d: quantity must be positive", i)
		}
	}
	return nil
}

// ImportStatus tracks a stock import job.
type ImportStatus string

const (
	ImportPending    ImportStatus = "pending"
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

// ImportFileType is the format of an uploaded stock file.
type ImportFileType string

const (
	ImportXLSX ImportFileType = "xlsx"
	ImportPDF  ImportFileType = "pdf"
)

// ImportJob records an uploaded stock file and its processing state.
type ImportJob struct {
	ID            uuid.UUID      `json:"job_id"`
	StoreID       int64          `json:"store_id"`
	FileKey       string         `json:"file_key"`
	FileType      ImportFileType `json:"file_type"`
	Status        ImportStatus   `json:"status"`
	RowsProcessed int            `json:"rows_processed"`
	Error         *string        `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
