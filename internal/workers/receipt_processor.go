// internal/workers/receipt_processor.go
package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const receiptContentType = "text/plain; charset=utf-8"

// ReceiptProcessor renders receipts of committed invoices and archives them.
type ReceiptProcessor struct {
	renderer ports.ReceiptRenderer
	invoices ports.InvoiceRepository
	storage  ports.FileStorage
	prefix   string
	logger   *slog.Logger
}

// NewReceiptProcessor creates a new receipt processor
func NewReceiptProcessor(renderer ports.ReceiptRenderer, invoices ports.InvoiceRepository,
	storage ports.FileStorage, prefix string, logger *slog.Logger) *ReceiptProcessor {
	if prefix == "" {
		prefix = "receipts"
	}
	return &ReceiptProcessor{
		renderer: renderer,
		invoices: invoices,
		storage:  storage,
		prefix:   prefix,
		logger:   logger.With(slog.String("processor", "receipt")),
	}
}

// ReceiptKey is the storage key of an invoice's receipt.
func ReceiptKey(prefix string, storeID, invoiceID int64) string {
	return fmt.Sprintf("%s/store-%d/invoice-%d.txt", prefix, storeID, invoiceID)
}

// ProcessTask handles receipt:generate.
func (p *ReceiptProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	receipt, err := p.renderer.RenderReceipt(ctx, payload.InvoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("invoice %d: %v: %w", payload.InvoiceID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to render receipt: %w", err)
	}

	key := ReceiptKey(p.prefix, payload.StoreID, payload.InvoiceID)
	location, err := p.storage.Upload(ctx, key, bytes.NewReader(receipt), receiptContentType)
	if err != nil {
		return fmt.Errorf("failed to upload receipt: %w", err)
	}

	if err := p.invoices.SetReceiptKey(ctx, payload.InvoiceID, key); err != nil {
		return fmt.Errorf("failed to record receipt key: %w", err)
	}

	p.logger.InfoContext(ctx, "receipt stored",
		slog.Int64("invoice_id", payload.InvoiceID),
		slog.String("key", key),
		slog.String("location", location))

	return nil
}
