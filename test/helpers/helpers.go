// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ninco/ninco-be/internal/adapters/db"
	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
	// MigrationURL reaches the same database through the migrator's driver.
	MigrationURL string
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a logger that is quiet unless tests run with -v.
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// SetupTestDB starts a PostgreSQL container and applies the embedded migrations.
func SetupTestDB(t testing.TB) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_ninco",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := db.DefaultConfig()
	dbConfig.Port = resource.GetPort("5432/tcp")
	dbConfig.User = "test"
	dbConfig.Password = "test"
	dbConfig.Database = "test_ninco"
	dbConfig.MaxConnections = 10
	dbConfig.MinConnections = 1
	dbConfig.EnableQueryLogging = testing.Verbose()

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
	}
	err = db.RunMigrationsWithRetry(context.Background(), migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,

		MigrationURL: migrationConfig.DatabaseURL,
	}
}

// SetupTestRedis creates an in-memory Redis for testing
func SetupTestRedis(t testing.TB) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &TestRedis{Client: client, Server: mr}
}

// SetupMockDB creates a sqlmock-backed *sql.DB for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")
	t.Cleanup(func() { sqlDB.Close() })

	return mock, sqlDB
}

// LoadTestConfig returns a configuration suitable for unit tests.
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "ninco-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_ninco",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:   "localhost:6379",
			RedisDB:     1,
			Concurrency: 2,
			Queues:      map[string]int{"critical": 6, "default": 3, "low": 1},
			RetryMax:    3,
		},
		AWS: config.AWSConfig{
			Region:   "us-east-1",
			S3Bucket: "ninco-test",
		},
		FileProcessing: config.FileProcessingConfig{
			PDFMaxSizeMB:      5,
			ExcelMaxSizeMB:    5,
			ProcessingTimeout: time.Minute,
			ImportRetention:   7 * 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"http://localhost:3000"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Sales: config.SalesConfig{
			LowStockThreshold: 5,
			StockCacheTTL:     30 * time.Second,
			DashboardTTL:      5 * time.Minute,
			IdempotencyTTL:    24 * time.Hour,
			ReceiptPrefix:     "receipts",
			AlertEmail:        "stock@ninco.test",
		},
		SMTP: config.SMTPConfig{
			Host: "localhost",
			Port: 1025,
			From: "noreply@ninco.test",
		},
	}
}

// CreateTestProduct returns an unsaved product with valid defaults.
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	p := &domain.Product{
		Name:        "Colombian Coffee 500g",
		Description: "Medium roast, whole bean",
		Brand:       "Tinto",
		Price:       decimal.RequireFromString("12.50"),
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// CreateTestStore returns an unsaved store with valid defaults.
func CreateTestStore(overrides ...func(*domain.Store)) *domain.Store {
	s := &domain.Store{
		Name:    "Ninco Centro",
		Address: "Calle 10 # 5-20",
		Phone:   "+57 300 555 0101",
	}
	for _, override := range overrides {
		override(s)
	}
	return s
}

// InsertTestEmployee stores an employee for storeID and returns its id.
func InsertTestEmployee(t testing.TB, pool *pgxpool.Pool, storeID int64, role domain.EmployeeRole) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO employees (store_id, first_name, last_name, email, role)
		VALUES ($1, 'Ana', 'Torres', $2, $3)
		RETURNING employee_id`,
		storeID, fmt.Sprintf("ana.%d.%d@ninco.test", storeID, time.Now().UnixNano()), role,
	).Scan(&id)
	require.NoError(t, err, "Failed to insert employee")
	return id
}

// SeedStock sets the quantity of a product in a store.
func SeedStock(t testing.TB, pool *pgxpool.Pool, storeID, productID int64, quantity int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO stock (product_id, store_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (product_id, store_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		productID, storeID, quantity)
	require.NoError(t, err, "Failed to seed stock")
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err, "Failed to count %s", table)
	return n
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables empties every application table and resets sequences.
func TruncateAllTables(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()

	tables := []string{"sales", "invoices", "stock", "import_jobs", "employees", "products", "stores"}
	_, err := pool.Exec(context.Background(),
		fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err, "Failed to truncate tables")
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")
	require.NoError(t, file.Close())

	return file.Name()
}
