// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ninco/ninco-be/internal/adapters/db"
	redis_a "github.com/ninco/ninco-be/internal/adapters/redis_adapter"
	"github.com/ninco/ninco-be/internal/adapters/storage"
	"github.com/ninco/ninco-be/internal/core/ports"
	"github.com/ninco/ninco-be/internal/core/services"
	"github.com/ninco/ninco-be/internal/handlers"
	"github.com/ninco/ninco-be/internal/handlers/middleware"
	"github.com/ninco/ninco-be/internal/pkg/config"
	"github.com/ninco/ninco-be/internal/pkg/logger"
	"github.com/ninco/ninco-be/internal/pkg/metrics"
	"github.com/ninco/ninco-be/internal/pkg/telemetry"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting ninco sales API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = Version
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slog.SetDefault(slogger)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.App, cfg.Telemetry)
	if err != nil {
		slogger.Error("failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := config.ResolveDatabasePassword(ctx, cfg, slogger); err != nil {
		slogger.Error("failed to resolve database password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !cfg.IsProduction() {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if err := shutdownTracing(shutdownCtx); err != nil {
			slogger.Error("failed to flush traces", slog.String("error", err.Error()))
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	metrics        *metrics.Metrics
	handlers       handlers.Handlers
}

func (d *dependencies) cleanup() {
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{metrics: metrics.New()}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)
	database, err := db.NewDatabase(ctx, databaseConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis", slog.String("address", cfg.GetRedisAddress()))
	redisClient := redis.NewClient(redisOptions(cfg))
	if err := redisClient.Ping(ctx).Err(); err != nil {
		deps.cleanup()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, logger, redis_a.WithObserver(deps.metrics))

	fileStorage, err := newFileStorage(ctx, cfg, logger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Repositories
	products := db.NewProductRepository(database, logger)
	stores := db.NewStoreRepository(database, logger)
	employees := db.NewEmployeeRepository(database, logger)
	invoices := db.NewInvoiceRepository(database, logger)
	stock := db.NewStockRepository(database, logger)
	importJobs := db.NewImportJobRepository(database, logger)
	reports := db.NewReportRepository(database.SQLDB(), logger)
	coordinator := db.NewSaleCoordinator(database, invoices, stock, logger)

	// Services
	saleService := services.NewSaleService(services.SaleServiceDeps{
		Coordinator:    coordinator,
		Invoices:       invoices,
		Products:       products,
		Stores:         stores,
		Employees:      employees,
		Cache:          cache,
		Tasks:          deps.asynqClient,
		Metrics:        deps.metrics,
		IdempotencyTTL: cfg.Sales.IdempotencyTTL,
	}, logger)
	stockService := services.NewStockService(stock, cache, cfg.Sales.StockCacheTTL, logger)
	catalogService := services.NewCatalogService(products, stores, employees, cache, cfg.Redis.TTL, logger)
	reportService := services.NewReportService(reports, stock, cache,
		cfg.Sales.DashboardTTL, cfg.Sales.LowStockThreshold, logger)

	// Handlers
	deps.handlers = handlers.Handlers{
		Health: handlers.NewHealthHandler(database, cache, deps.asynqInspector,
			handlers.BuildInfo{Version: cfg.App.Version, Environment: cfg.App.Environment}, logger),
		Sales:   handlers.NewSaleHandler(saleService, logger),
		Stock:   handlers.NewStockHandler(stockService, logger),
		Catalog: handlers.NewCatalogHandler(catalogService, logger),
		Imports: handlers.NewImportHandler(importJobs, fileStorage, deps.asynqClient, catalogService,
			handlers.ImportLimits{
				PDFMaxBytes:       int64(cfg.FileProcessing.PDFMaxSizeMB) << 20,
				ExcelMaxBytes:     int64(cfg.FileProcessing.ExcelMaxSizeMB) << 20,
				ProcessingTimeout: cfg.FileProcessing.ProcessingTimeout,
			}, logger),
		Exports:   handlers.NewExportHandler(stockService, reports, logger),
		Dashboard: handlers.NewDashboardHandler(reportService, logger),
	}
	if cfg.Server.EnableMetrics {
		deps.handlers.Metrics = deps.metrics.Handler()
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := handlers.NewRouter(deps.handlers)

	// Outermost first. Tracing and Metrics read the matched route, so they sit next to the mux.
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
	}
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		chain = append(chain, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.RateLimitRequests > 0 {
		chain = append(chain, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if cfg.Server.WriteTimeout > 0 {
		chain = append(chain, middleware.Timeout(cfg.Server.WriteTimeout))
	}
	chain = append(chain, middleware.Tracing, middleware.Metrics(deps.metrics))

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, chain...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func newFileStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	if cfg.FileProcessing.StorageDir != "" {
		local, err := storage.NewLocalStorage(cfg.FileProcessing.StorageDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return local, nil
	}

	s3, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	return s3, nil
}

func databaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

func redisOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, logger, 3)
}
