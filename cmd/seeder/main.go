package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ninco/ninco-be/internal/adapters/db"
	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/pkg/logger"
	"github.com/ninco/ninco-be/internal/workers"
)

type seedProduct struct {
	Name        string
	Description string
	Brand       string
	Price       string
}

var catalog = []seedProduct{
	{"Café molido 500g", "Tostión media", "Sello Rojo", "12.50"},
	{"Panela 1kg", "Bloque tradicional", "La Rosita", "2.50"},
	{"Arroz blanco 1kg", "Grano largo", "Diana", "3.10"},
	{"Aceite de girasol 1L", "Botella PET", "Premier", "6.80"},
	{"Chocolate de mesa", "Pastillas con canela", "Corona", "4.20"},
	{"Leche entera 1L", "Bolsa", "Alpina", "1.90"},
	{"Galletas de soda", "Paquete familiar", "Saltín Noel", "2.75"},
	{"Atún en aceite", "Lata 170g", "Van Camps", "3.60"},
	{"Jabón de barra", "Azul, 300g", "Rey", "1.40"},
	{"Papel higiénico x4", "Doble hoja", "Familia", "3.95"},
}

type seedStore struct {
	Name    string
	Address string
	Phone   string
}

var storeTemplates = []seedStore{
	{"Ninco Centro", "Calle 10 # 5-21", "+57 601 555 0101"},
	{"Ninco Norte", "Avenida 19 # 120-33", "+57 601 555 0102"},
	{"Ninco Chapinero", "Carrera 13 # 54-10", "+57 601 555 0103"},
	{"Ninco Sur", "Autopista Sur # 60-40", "+57 601 555 0104"},
}

var employeeNames = [][2]string{
	{"Ana", "Torres"}, {"Luis", "Gómez"}, {"Marta", "Rojas"}, {"Jorge", "Pérez"},
	{"Camila", "Díaz"}, {"Andrés", "Ruiz"}, {"Sofía", "Castro"}, {"Diego", "Vargas"},
}

func main() {
	var (
		storeCount = flag.Int("stores", 2, "Number of stores to create (max 4)")
		quantity   = flag.Int("quantity", 25, "Initial stock per product and store")
		stockFile  = flag.String("stock-file", "", "Optional .xlsx or .pdf stock file applied to the first store")
		logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun     = flag.Bool("dry-run", false, "Preview changes without modifying database")
		reset      = flag.Bool("reset", false, "Drop every table and re-run migrations before seeding")
		rollback   = flag.Bool("rollback", false, "Roll back the last migration and exit")
	)
	flag.Parse()

	log := logger.SetupLogger(*logLevel, "json")
	slog.SetDefault(log)

	if *storeCount < 1 || *storeCount > len(storeTemplates) {
		log.Error("invalid store count", slog.Int("stores", *storeCount))
		os.Exit(2)
	}

	var fileAdjustments []domain.StockAdjustment
	if *stockFile != "" {
		adjustments, err := loadStockFile(*stockFile)
		if err != nil {
			log.Error("failed to read stock file", slog.String("file", *stockFile), slog.String("error", err.Error()))
			os.Exit(1)
		}
		fileAdjustments = adjustments
		log.Info("stock file parsed", slog.Int("rows", len(adjustments)))
	}

	if *dryRun {
		log.Info("dry run",
			slog.Int("stores", *storeCount),
			slog.Int("employees", *storeCount*2),
			slog.Int("products", len(catalog)),
			slog.Int("stock_rows", *storeCount*len(catalog)),
			slog.Int("file_rows", len(fileAdjustments)))
		return
	}

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "ninco"),
		getEnv("DB_PASSWORD", "ninco_dev"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "ninco"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	migrations := &db.MigrationConfig{DatabaseURL: dbURL}

	if *rollback {
		version, err := db.RollbackLast(ctx, migrations, log)
		if err != nil {
			log.Error("rollback failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("rolled back last migration", slog.Uint64("version", uint64(version)))
		return
	}

	if *reset {
		version, err := db.ResetSchema(ctx, migrations, log)
		if err != nil {
			log.Error("schema reset failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Warn("schema reset", slog.Uint64("version", uint64(version)))
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		storeIDs, err := seedStores(ctx, tx, storeTemplates[:*storeCount])
		if err != nil {
			return err
		}
		if err := seedEmployees(ctx, tx, storeIDs); err != nil {
			return err
		}
		productIDs, err := seedProducts(ctx, tx)
		if err != nil {
			return err
		}
		if err := seedStock(ctx, tx, storeIDs, productIDs, *quantity); err != nil {
			return err
		}
		return applyAdjustments(ctx, tx, storeIDs[0], fileAdjustments)
	})
	if err != nil {
		log.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seeding complete",
		slog.Int("stores", *storeCount),
		slog.Int("products", len(catalog)))
}

func seedStores(ctx context.Context, tx pgx.Tx, stores []seedStore) ([]int64, error) {
	ids := make([]int64, 0, len(stores))
	for _, s := range stores {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO stores (name, address, phone) VALUES ($1, $2, $3)
			ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name
			RETURNING store_id`, s.Name, s.Address, s.Phone).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert store %q: %w", s.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedEmployees(ctx context.Context, tx pgx.Tx, storeIDs []int64) error {
	batch := &pgx.Batch{}
	for i, storeID := range storeIDs {
		for j := 0; j < 2; j++ {
			name := employeeNames[(i*2+j)%len(employeeNames)]
			role := domain.RoleCashier
			if j == 0 {
				role = domain.RoleAdmin
			}
			email := fmt.Sprintf("%s.%s.%d@ninco.co", strings.ToLower(name[0]), strings.ToLower(name[1]), storeID)
			batch.Queue(`
				INSERT INTO employees (store_id, first_name, last_name, email, role)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (email) DO NOTHING`, storeID, name[0], name[1], email, string(role))
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert employees: %w", err)
	}
	return nil
}

func seedProducts(ctx context.Context, tx pgx.Tx) ([]int64, error) {
	ids := make([]int64, 0, len(catalog))
	for _, p := range catalog {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %q: %w", p.Name, err)
		}
		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO products (name, description, brand, price)
			VALUES ($1, $2, $3, $4)
			RETURNING product_id`, p.Name, p.Description, p.Brand, price).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedStock(ctx context.Context, tx pgx.Tx, storeIDs, productIDs []int64, quantity int) error {
	batch := &pgx.Batch{}
	for _, storeID := range storeIDs {
		for _, productID := range productIDs {
			batch.Queue(`
				INSERT INTO stock (product_id, store_id, quantity) VALUES ($1, $2, $3)
				ON CONFLICT (product_id, store_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`,
				productID, storeID, quantity)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	return nil
}

func applyAdjustments(ctx context.Context, tx pgx.Tx, storeID int64, adjustments []domain.StockAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, adj := range adjustments {
		batch.Queue(`
			INSERT INTO stock (product_id, store_id, quantity) VALUES ($1, $2, $3)
			ON CONFLICT (product_id, store_id) DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = NOW()`,
			adj.ProductID, storeID, adj.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to apply stock file: %w", err)
	}
	return nil
}

func loadStockFile(path string) ([]domain.StockAdjustment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fileType := domain.ImportFileType(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	return workers.ParseStockFile(fileType, data)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
