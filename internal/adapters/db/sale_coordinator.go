// internal/adapters/db/sale_coordinator.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const tracerName = "github.com/ninco/ninco-be/internal/adapters/db"

// SaleCoordinator writes an invoice header, its sale lines and the matching
// stock decrements in a single transaction.
type SaleCoordinator struct {
	db       *Database
	invoices *InvoiceRepository
	stock    *StockRepository
	logger   *slog.Logger
	tracer   trace.Tracer
}

var _ ports.SaleCoordinator = (*SaleCoordinator)(nil)

// NewSaleCoordinator creates a coordinator over the given repositories.
func NewSaleCoordinator(db *Database, invoices *InvoiceRepository, stock *StockRepository, logger *slog.Logger) *SaleCoordinator {
	return &SaleCoordinator{
		db:       db,
		invoices: invoices,
		stock:    stock,
		logger:   logger.With(slog.String("component", "sale_coordinator")),
		tracer:   otel.Tracer(tracerName),
	}
}

// ExecuteSale records the sale and returns the new invoice id. On any failure
// nothing is persisted and the error is a *domain.SaleError of kind
// insufficient_stock or transaction_failure.
func (c *SaleCoordinator) ExecuteSale(ctx context.Context, storeID, employeeID int64, clientName string, items []domain.CartItem) (int64, error) {
	if err := domain.ValidateCart(items); err != nil {
		return 0, err
	}

	// A submitted sale runs to commit or rollback even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	ctx, span := c.tracer.Start(ctx, "sale.execute", trace.WithAttributes(
		attribute.Int64("store.id", storeID),
		attribute.Int64("employee.id", employeeID),
		attribute.Int("sale.items", len(items)),
	))
	defer span.End()

	var invoiceID int64
	err := c.db.Transaction(ctx, func(tx pgx.Tx) error {
		id, err := c.invoices.CreateHeader(ctx, tx, storeID, clientName)
		if err != nil {
			return err
		}

		lines := &pgx.Batch{}
		for _, item := range items {
			c.invoices.QueueSaleLine(lines, id, storeID, employeeID, item)
		}
		if err := execBatch(ctx, tx, lines, nil); err != nil {
			return fmt.Errorf("failed to insert sale lines: %w", err)
		}

		// Consistent lock order across concurrent sales touching the same rows.
		ordered := domain.SortedByProduct(items)
		decrements := &pgx.Batch{}
		for _, item := range ordered {
			c.stock.QueueDecrement(decrements, storeID, item.ProductID, item.Quantity)
		}
		err = execBatch(ctx, tx, decrements, func(i int, tag pgconn.CommandTag) error {
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("product %d: %w", ordered[i].ProductID, errMissingStockRow)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		invoiceID = id
		return nil
	})
	if err != nil {
		saleErr := classifySaleError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(saleErr.Kind))

		level := slog.LevelError
		if saleErr.Kind == domain.KindInsufficientStock {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "sale rolled back",
			slog.String("kind", string(saleErr.Kind)),
			slog.Int64("store_id", storeID),
			slog.Int64("employee_id", employeeID),
			slog.String("error", err.Error()))

		return 0, saleErr
	}

	span.SetAttributes(attribute.Int64("invoice.id", invoiceID))
	c.logger.InfoContext(ctx, "sale committed",
		slog.Int64("invoice_id", invoiceID),
		slog.Int64("store_id", storeID),
		slog.Int("items", len(items)))

	return invoiceID, nil
}

// execBatch sends batch on tx and reads every result before returning so the
// connection is free for the next statement. check, when set, inspects each
// command tag.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, check func(i int, tag pgconn.CommandTag) error) (err error) {
	br := tx.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for i := 0; i < batch.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
		if check != nil {
			if err := check(i, tag); err != nil {
				return err
			}
		}
	}

	return nil
}
