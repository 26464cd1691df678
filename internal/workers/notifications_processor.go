// internal/workers/notifications_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/pkg/config"
)

// Mailer delivers plain-text mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer for cfg.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, body,
	))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}

// LogMailer only logs messages. Used in development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that writes to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "email would be sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body))
	return nil
}

// NotificationProcessor handles email notifications
type NotificationProcessor struct {
	mailer Mailer
	logger *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(mailer Mailer, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		mailer: mailer,
		logger: logger.With(slog.String("processor", "notification")),
	}
}

// ProcessTask handles email:send.
func (p *NotificationProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}
	if payload.To == "" {
		return fmt.Errorf("email has no recipient: %w", asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "sending email",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject))

	if err := p.mailer.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.InfoContext(ctx, "email sent successfully")
	return nil
}

// LowStockProcessor alerts when a sale leaves products below the threshold.
type LowStockProcessor struct {
	ledger     ports.StockLedger
	tasks      ports.TaskEnqueuer
	threshold  int
	alertEmail string
	logger     *slog.Logger
}

// NewLowStockProcessor creates a new low stock processor
func NewLowStockProcessor(ledger ports.StockLedger, tasks ports.TaskEnqueuer, threshold int, alertEmail string, logger *slog.Logger) *LowStockProcessor {
	return &LowStockProcessor{
		ledger:     ledger,
		tasks:      tasks,
		threshold:  threshold,
		alertEmail: alertEmail,
		logger:     logger.With(slog.String("processor", "low_stock")),
	}
}

// ProcessTask handles stock:low_check.
func (p *LowStockProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	entries, err := p.ledger.ListBelow(ctx, payload.StoreID, p.threshold, payload.ProductIDs)
	if err != nil {
		return fmt.Errorf("failed to check stock levels: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	p.logger.WarnContext(ctx, "low stock detected",
		slog.Int64("store_id", payload.StoreID),
		slog.Int("products", len(entries)))

	if p.alertEmail == "" {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "The following products are below %d units:\n\n", p.threshold)
	for _, e := range entries {
		fmt.Fprintf(&body, "  #%d %s: %d left\n", e.ProductID, e.ProductName, e.Quantity)
	}

	storeName := strconv.FormatInt(payload.StoreID, 10)
	if entries[0].StoreName != "" {
		storeName = entries[0].StoreName
	}

	task, err := NewEmailTask(p.alertEmail, "Low stock at "+storeName, body.String())
	if err != nil {
		return err
	}
	if _, err := p.tasks.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue alert: %w", err)
	}

	return nil
}
