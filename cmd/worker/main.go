// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ninco/ninco-be/internal/adapters/db"
	redis_a "github.com/ninco/ninco-be/internal/adapters/redis_adapter"
	"github.com/ninco/ninco-be/internal/adapters/storage"
	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/core/services"
	"github.com/ninco/ninco-be/internal/pkg/config"
	"github.com/ninco/ninco-be/internal/pkg/logger"
	"github.com/ninco/ninco-be/internal/pkg/metrics"
	"github.com/ninco/ninco-be/internal/pkg/telemetry"
	"github.com/ninco/ninco-be/internal/workers"
)

const (
	cleanupSchedule   = "0 3 * * *"
	dashboardSchedule = "*/15 * * * *"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slog.SetDefault(slogger)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.App, cfg.Telemetry)
	if err != nil {
		slogger.Error("failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	if err := config.ResolveDatabasePassword(ctx, cfg, slogger); err != nil {
		slogger.Error("failed to resolve database password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	database, err := initDatabase(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.GetRedisAddress(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
		PoolSize:    cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	fileStorage, err := initStorage(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	client := asynq.NewClient(redisOpt)
	defer client.Close()

	m := metrics.New()
	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger, redis_a.WithObserver(m))

	// Repositories and services
	products := db.NewProductRepository(database, slogger)
	stores := db.NewStoreRepository(database, slogger)
	employees := db.NewEmployeeRepository(database, slogger)
	invoices := db.NewInvoiceRepository(database, slogger)
	stock := db.NewStockRepository(database, slogger)
	importJobs := db.NewImportJobRepository(database, slogger)
	reports := db.NewReportRepository(database.SQLDB(), slogger)

	saleService := services.NewSaleService(services.SaleServiceDeps{
		Coordinator: db.NewSaleCoordinator(database, invoices, stock, slogger),
		Invoices:    invoices,
		Products:    products,
		Stores:      stores,
		Employees:   employees,
		Cache:       cache,
		Tasks:       client,
		Metrics:     m,
	}, slogger)
	stockService := services.NewStockService(stock, cache, cfg.Sales.StockCacheTTL, slogger)
	reportService := services.NewReportService(reports, stock, cache,
		cfg.Sales.DashboardTTL, cfg.Sales.LowStockThreshold, slogger)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc: healthCheck,
		Logger:          newAsynqLogger(slogger),
	})

	mux := workers.NewServeMux(workers.Processors{
		Receipt:   workers.NewReceiptProcessor(saleService, invoices, fileStorage, cfg.Sales.ReceiptPrefix, slogger),
		LowStock:  workers.NewLowStockProcessor(stock, client, cfg.Sales.LowStockThreshold, cfg.Sales.AlertEmail, slogger),
		Email:     workers.NewNotificationProcessor(newMailer(cfg, slogger), slogger),
		Import:    workers.NewImportProcessor(importJobs, fileStorage, stockService, slogger),
		Cleanup:   workers.NewCleanupProcessor(importJobs, fileStorage, cfg.FileProcessing.ImportRetention, slogger),
		Analytics: workers.NewAnalyticsProcessor(reportService, slogger),
	}, m, slogger)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   newAsynqLogger(slogger),
	})
	if _, err := scheduler.Register(cleanupSchedule, workers.NewCleanupImportsTask()); err != nil {
		slogger.Error("failed to schedule import cleanup", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := scheduler.Register(dashboardSchedule, workers.NewDailySalesReportTask()); err != nil {
		slogger.Error("failed to schedule dashboard refresh", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()
	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     10, // Fewer connections for worker
		MinConnections:     2,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	return db.NewDatabase(ctx, dbConfig, logger)
}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	if cfg.FileProcessing.StorageDir != "" {
		return storage.NewLocalStorage(cfg.FileProcessing.StorageDir, logger)
	}
	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
}

// newMailer sends real mail when SMTP is configured and only logs otherwise.
func newMailer(cfg *config.Config, logger *slog.Logger) workers.Mailer {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
		return workers.NewLogMailer(logger)
	}
	return workers.NewSMTPMailer(cfg.SMTP)
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
