// internal/adapters/db/invoice_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/ports"
)

const (
	insertInvoiceQuery = `
		INSERT INTO invoices (store_id, client_name)
		VALUES ($1, $2)
		RETURNING invoice_id`

	insertSaleLineQuery = `
		INSERT INTO sales (invoice_id, store_id, employee_id, product_id, amount, price)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// rowQuerier is satisfied by pgx.Tx, *pgxpool.Pool and *Database.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// InvoiceRepository records invoice headers and reads committed invoices.
type InvoiceRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.InvoiceRepository = (*InvoiceRepository)(nil)

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *Database, logger *slog.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "invoice")),
	}
}

// CreateHeader inserts an invoice header using q, which must be the sale
// transaction, and returns the generated id.
func (r *InvoiceRepository) CreateHeader(ctx context.Context, q rowQuerier, storeID int64, clientName string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, insertInvoiceQuery, storeID, clientName).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errMissingInvoiceID
		}
		return 0, fmt.Errorf("failed to insert invoice header: %w", err)
	}
	if id <= 0 {
		return 0, errMissingInvoiceID
	}

	r.logger.DebugContext(ctx, "invoice header created",
		slog.Int64("invoice_id", id),
		slog.Int64("store_id", storeID))

	return id, nil
}

// QueueSaleLine adds one sale-line insert to batch.
func (r *InvoiceRepository) QueueSaleLine(batch *pgx.Batch, invoiceID, storeID, employeeID int64, item domain.CartItem) {
	batch.Queue(insertSaleLineQuery,
		invoiceID, storeID, employeeID, item.ProductID, item.Quantity, item.UnitPrice)
}

// FindByID returns the invoice with its lines, or nil if it does not exist.
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := `
		SELECT invoice_id, store_id, client_name, receipt_key, created_at
		FROM invoices
		WHERE invoice_id = $1`

	invoice := &domain.Invoice{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&invoice.ID, &invoice.StoreID, &invoice.ClientName, &invoice.ReceiptKey, &invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	lines, err := r.findLines(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines

	return invoice, nil
}

func (r *InvoiceRepository) findLines(ctx context.Context, invoiceID int64) ([]domain.SaleLine, error) {
	query := `
		SELECT s.invoice_id, s.store_id, s.employee_id, s.product_id, p.name, s.amount, s.price
		FROM sales s
		JOIN products p ON p.product_id = s.product_id
		WHERE s.invoice_id = $1
		ORDER BY s.sale_id`

	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}

	lines, err := ScanMany(rows, func(row pgx.Rows) (*domain.SaleLine, error) {
		var l domain.SaleLine
		if err := row.Scan(&l.InvoiceID, &l.StoreID, &l.EmployeeID, &l.ProductID,
			&l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		return &l, nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// List returns one page of invoice headers and the total matching count.
func (r *InvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int64, error) {
	filter.Normalize()

	qb := squirrel.Select(
		"invoice_id", "store_id", "client_name", "receipt_key", "created_at",
		"COUNT(*) OVER() AS total_count",
	).From("invoices").
		PlaceholderFormat(squirrel.Dollar)

	if filter.StoreID != nil {
		qb = qb.Where(squirrel.Eq{"store_id": *filter.StoreID})
	}
	if filter.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		qb = qb.Where(squirrel.Lt{"created_at": *filter.To})
	}

	qb = qb.OrderBy("created_at DESC", "invoice_id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset()))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var (
		invoices = make([]domain.Invoice, 0, filter.PageSize)
		total    int64
	)
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.StoreID, &inv.ClientName, &inv.ReceiptKey,
			&inv.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return invoices, total, nil
}

// SetReceiptKey records where the rendered receipt was stored.
func (r *InvoiceRepository) SetReceiptKey(ctx context.Context, id int64, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET receipt_key = $2 WHERE invoice_id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("failed to set receipt key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
