// internal/workers/server.go
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskObserver records task outcomes. *metrics.Metrics satisfies it.
type TaskObserver interface {
	ObserveTask(taskType string, err error)
}

// Processors are the task handlers served by the worker.
type Processors struct {
	Receipt   asynq.Handler
	LowStock  asynq.Handler
	Email     asynq.Handler
	Import    asynq.Handler
	Cleanup   asynq.Handler
	Analytics asynq.Handler
}

// NewServeMux routes every task type to its processor.
func NewServeMux(p Processors, observer TaskObserver, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(loggingMiddleware(logger), observeMiddleware(observer))

	mux.Handle(TypeReceiptGenerate, p.Receipt)
	mux.Handle(TypeLowStockCheck, p.LowStock)
	mux.Handle(TypeSendEmail, p.Email)
	mux.Handle(TypeStockImport, p.Import)
	mux.Handle(TypeCleanupImports, p.Cleanup)
	mux.Handle(TypeDailySalesReport, p.Analytics)

	return mux
}

func loggingMiddleware(logger *slog.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			start := time.Now()
			taskID, _ := asynq.GetTaskID(ctx)
			retry, _ := asynq.GetRetryCount(ctx)

			err := next.ProcessTask(ctx, t)

			attrs := []any{
				slog.String("type", t.Type()),
				slog.String("task_id", taskID),
				slog.Int("retry", retry),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.ErrorContext(ctx, "task failed", append(attrs, slog.String("error", err.Error()))...)
			} else {
				logger.DebugContext(ctx, "task processed", attrs...)
			}
			return err
		})
	}
}

func observeMiddleware(observer TaskObserver) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			err := next.ProcessTask(ctx, t)
			if observer != nil {
				observer.ObserveTask(t.Type(), err)
			}
			return err
		})
	}
}
