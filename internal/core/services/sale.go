// internal/core/services/sale.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/pkg/metrics"
	"github.com/ninco/ninco-be/internal/workers"
)

const tracerName = "github.com/ninco/ninco-be/internal/core/services"

const (
	idempotencyPending = "pending"
	idempotencyDone    = "done"
)

// SaleObserver records checkout outcomes. *metrics.Metrics satisfies it.
type SaleObserver interface {
	ObserveSale(outcome string, items int, elapsed time.Duration)
}

type nopSaleObserver struct{}

func (nopSaleObserver) ObserveSale(string, int, time.Duration) {}

type idempotencyRecord struct {
	Status      string       `json:"status"`
	RequestHash string       `json:"request_hash"`
	Sale        *domain.Sale `json:"sale,omitempty"`
}

// SaleServiceDeps groups the collaborators of SaleService.
type SaleServiceDeps struct {
	Coordinator    ports.SaleCoordinator
	Invoices       ports.InvoiceRepository
	Products       ports.ProductRepository
	Stores         ports.StoreRepository
	Employees      ports.EmployeeRepository
	Cache          ports.CacheRepository
	Tasks          ports.TaskEnqueuer
	Metrics        SaleObserver
	IdempotencyTTL time.Duration
}

// SaleService validates and prices carts, runs the sale transaction and
// schedules the post-sale work.
type SaleService struct {
	coordinator    ports.SaleCoordinator
	invoices       ports.InvoiceRepository
	products       ports.ProductRepository
	stores         ports.StoreRepository
	employees      ports.EmployeeRepository
	cache          ports.CacheRepository
	tasks          ports.TaskEnqueuer
	metrics        SaleObserver
	idempotencyTTL time.Duration
	logger         *slog.Logger
	tracer         trace.Tracer
}

var (
	_ ports.SaleService     = (*SaleService)(nil)
	_ ports.ReceiptRenderer = (*SaleService)(nil)
)

// NewSaleService creates a new sale service
func NewSaleService(deps SaleServiceDeps, logger *slog.Logger) *SaleService {
	observer := deps.Metrics
	if observer == nil {
		observer = nopSaleObserver{}
	}
	ttl := deps.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SaleService{
		coordinator:    deps.Coordinator,
		invoices:       deps.Invoices,
		products:       deps.Products,
		stores:         deps.Stores,
		employees:      deps.Employees,
		cache:          deps.Cache,
		tasks:          deps.Tasks,
		metrics:        observer,
		idempotencyTTL: ttl,
		logger:         logger.With(slog.String("service", "sale")),
		tracer:         otel.Tracer(tracerName),
	}
}

// Checkout closes a sale. A non-empty idempotencyKey makes retries of the
// same request return the first result instead of selling twice.
func (s *SaleService) Checkout(ctx context.Context, req domain.CheckoutRequest, idempotencyKey string) (*domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "sale.checkout", trace.WithAttributes(
		attribute.Int64("store.id", req.StoreID),
		attribute.Int("sale.lines", len(req.Items)),
	))
	defer span.End()

	var key, fingerprint string
	if idempotencyKey != "" {
		key = idempotencyCacheKey(idempotencyKey)
		fingerprint = req.Fingerprint()
		replay, err := s.reserve(ctx, key, fingerprint)
		if err != nil {
			span.SetStatus(codes.Error, "idempotency key conflict")
			return nil, err
		}
		if replay != nil {
			s.logger.InfoContext(ctx, "checkout replayed",
				slog.Int64("invoice_id", replay.InvoiceID))
			return replay, nil
		}
	}

	start := time.Now()
	sale, err := s.checkout(ctx, req)
	s.observe(err, len(req.Items), time.Since(start))

	if key != "" {
		s.settle(ctx, key, fingerprint, sale, err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
		return nil, err
	}

	span.SetAttributes(attribute.Int64("invoice.id", sale.InvoiceID))
	s.afterCommit(context.WithoutCancel(ctx), sale)

	return sale, nil
}

func (s *SaleService) checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	store, err := s.stores.FindStore(ctx, req.StoreID)
	if err != nil {
		return nil, domain.NewTransactionFailure(fmt.Errorf("failed to load store: %w", err))
	}
	if store == nil {
		return nil, domain.NewValidationError("store %d does not exist", req.StoreID)
	}

	employee, err := s.employees.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, domain.NewTransactionFailure(fmt.Errorf("failed to load employee: %w", err))
	}
	if employee == nil {
		return nil, domain.NewValidationError("employee %d does not exist", req.EmployeeID)
	}
	if employee.StoreID != req.StoreID {
		return nil, domain.NewValidationError("employee %d does not work at store %d", req.EmployeeID, req.StoreID)
	}

	products, err := s.products.FindProducts(ctx, req.ProductIDs())
	if err != nil {
		return nil, domain.NewTransactionFailure(fmt.Errorf("failed to load products: %w", err))
	}

	items := make([]domain.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return nil, domain.NewValidationError("product %d does not exist", line.ProductID)
		}
		items = append(items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
	}
	items = domain.MergeCartItems(items)

	invoiceID, err := s.coordinator.ExecuteSale(ctx, req.StoreID, req.EmployeeID, req.ClientName, items)
	if err != nil {
		return nil, err
	}

	return &domain.Sale{
		InvoiceID:  invoiceID,
		StoreID:    req.StoreID,
		EmployeeID: req.EmployeeID,
		ClientName: req.ClientName,
		Items:      items,
		Total:      domain.CartTotal(items),
	}, nil
}

func (s *SaleService) observe(err error, items int, elapsed time.Duration) {
	outcome := metrics.OutcomeCommitted
	if err != nil {
		outcome = string(domain.KindOf(err))
		if outcome == "" {
			outcome = metrics.OutcomeFailed
		}
	}
	s.metrics.ObserveSale(outcome, items, elapsed)
}

// reserve claims key for the request identified by fingerprint. It returns the
// stored sale when the same request already completed. It returns ErrConflict
// while another attempt is running or when key was used for a different request.
// A cache failure disables idempotency for the request.
func (s *SaleService) reserve(ctx context.Context, key, fingerprint string) (*domain.Sale, error) {
	pending := idempotencyRecord{Status: idempotencyPending, RequestHash: fingerprint}
	claimed, err := s.cache.SetNX(ctx, key, pending, s.idempotencyTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "idempotency check unavailable",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, nil
	}
	if claimed {
		return nil, nil
	}

	var record idempotencyRecord
	if err := s.cache.Get(ctx, key, &record); err == nil {
		if record.RequestHash != fingerprint {
			s.logger.WarnContext(ctx, "idempotency key reused with a different request",
				slog.String("key", key))
			return nil, fmt.Errorf("idempotency key %s was used for a different request: %w", key, domain.ErrConflict)
		}
		if record.Status == idempotencyDone && record.Sale != nil {
			return record.Sale, nil
		}
	}

	return nil, fmt.Errorf("checkout %s is already being processed: %w", key, domain.ErrConflict)
}

// settle stores the committed sale under key, or frees key so the caller can retry.
func (s *SaleService) settle(ctx context.Context, key, fingerprint string, sale *domain.Sale, saleErr error) {
	ctx = context.WithoutCancel(ctx)

	if saleErr != nil {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to release idempotency key",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return
	}

	record := idempotencyRecord{Status: idempotencyDone, RequestHash: fingerprint, Sale: sale}
	if err := s.cache.SetWithTTL(ctx, key, record, s.idempotencyTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to store idempotency record",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// afterCommit invalidates cached stock views and schedules the receipt and
// low-stock tasks. Failures here never undo the sale.
func (s *SaleService) afterCommit(ctx context.Context, sale *domain.Sale) {
	for _, pattern := range []string{stockCachePattern, dashboardCachePattern} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate cache",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
		}
	}

	task, err := workers.NewReceiptTask(sale.InvoiceID, sale.StoreID)
	s.enqueue(ctx, task, err)

	productIDs := make([]int64, len(sale.Items))
	for i, item := range sale.Items {
		productIDs[i] = item.ProductID
	}
	task, err = workers.NewLowStockTask(sale.StoreID, productIDs)
	s.enqueue(ctx, task, err)
}

func (s *SaleService) enqueue(ctx context.Context, task *asynq.Task, buildErr error) {
	if buildErr != nil {
		s.logger.ErrorContext(ctx, "failed to build task", slog.String("error", buildErr.Error()))
		return
	}
	info, err := s.tasks.EnqueueContext(ctx, task)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue task",
			slog.String("type", task.Type()),
			slog.String("error", err.Error()))
		return
	}
	s.logger.DebugContext(ctx, "task enqueued",
		slog.String("type", task.Type()),
		slog.String("task_id", info.ID))
}

// GetInvoice returns an invoice with its lines.
func (s *SaleService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
	}
	return invoice, nil
}

// ListInvoices returns one page of invoice headers.
func (s *SaleService) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*ports.InvoiceList, error) {
	filter.Normalize()

	invoices, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &ports.InvoiceList{
		Invoices:   invoices,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// RenderReceipt renders the text receipt of invoice id.
func (s *SaleService) RenderReceipt(ctx context.Context, id int64) ([]byte, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.FindStore(ctx, invoice.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	var cashier *domain.Employee
	if len(invoice.Lines) > 0 {
		cashier, err = s.employees.FindEmployee(ctx, invoice.Lines[0].EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cashier: %w", err)
		}
	}

	return FormatReceipt(ReceiptData{Invoice: invoice, Store: store, Cashier: cashier}), nil
}
