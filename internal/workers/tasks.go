// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeReceiptGenerate  = "receipt:generate"
	TypeLowStockCheck    = "stock:low_check"
	TypeSendEmail        = "email:send"
	TypeStockImport      = "stock:import"
	TypeCleanupImports   = "cleanup:imports"
	TypeDailySalesReport = "report:daily_sales"
)

// Queue names, matching the ASYNQ_QUEUES defaults.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ReceiptPayload identifies the invoice whose receipt must be stored.
type ReceiptPayload struct {
	InvoiceID int64 `json:"invoice_id"`
	StoreID   int64 `json:"store_id"`
}

// LowStockPayload lists the products a sale touched in a store.
type LowStockPayload struct {
	StoreID    int64   `json:"store_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// EmailPayload is a plain-text message.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// StockImportPayload points at an uploaded stock file.
type StockImportPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// NewReceiptTask builds a receipt:generate task.
func NewReceiptTask(invoiceID, storeID int64) (*asynq.Task, error) {
	return newTask(TypeReceiptGenerate, ReceiptPayload{InvoiceID: invoiceID, StoreID: storeID},
		asynq.Queue(QueueDefault), asynq.MaxRetry(5))
}

// NewLowStockTask builds a stock:low_check task.
func NewLowStockTask(storeID int64, productIDs []int64) (*asynq.Task, error) {
	return newTask(TypeLowStockCheck, LowStockPayload{StoreID: storeID, ProductIDs: productIDs},
		asynq.Queue(QueueLow), asynq.MaxRetry(3))
}

// NewEmailTask builds an email:send task.
func NewEmailTask(to, subject, body string) (*asynq.Task, error) {
	return newTask(TypeSendEmail, EmailPayload{To: to, Subject: subject, Body: body},
		asynq.Queue(QueueLow), asynq.MaxRetry(5))
}

// NewStockImportTask builds a stock:import task for job.
func NewStockImportTask(jobID uuid.UUID, timeout time.Duration) (*asynq.Task, error) {
	opts := []asynq.Option{asynq.Queue(QueueCritical), asynq.MaxRetry(3)}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return newTask(TypeStockImport, StockImportPayload{JobID: jobID}, opts...)
}

// NewCleanupImportsTask builds a cleanup:imports task.
func NewCleanupImportsTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupImports, nil, asynq.Queue(QueueLow), asynq.MaxRetry(1))
}

// NewDailySalesReportTask builds a report:daily_sales task.
func NewDailySalesReportTask() *asynq.Task {
	return asynq.NewTask(TypeDailySalesReport, nil, asynq.Queue(QueueLow), asynq.MaxRetry(1))
}

func newTask(taskType string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, b, opts...), nil
}

func decodePayload(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
