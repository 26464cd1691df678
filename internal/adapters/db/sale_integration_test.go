//go:build integration
// +build integration

package db_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ninco/ninco-be/internal/adapters/db"
	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/test/helpers"
)

type SaleSuite struct {
	suite.Suite
	testDB      *helpers.TestDB
	invoices    *db.InvoiceRepository
	stock       *db.StockRepository
	products    *db.ProductRepository
	stores      *db.StoreRepository
	employees   *db.EmployeeRepository
	jobs        *db.ImportJobRepository
	reports     *db.ReportRepository
	coordinator *db.SaleCoordinator
	ctx         context.Context

	storeID    int64
	employeeID int64
	productA   *domain.Product
	productB   *domain.Product
}

func (s *SaleSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()
	database := s.testDB.Database

	s.invoices = db.NewInvoiceRepository(database, logger)
	s.stock = db.NewStockRepository(database, logger)
	s.products = db.NewProductRepository(database, logger)
	s.stores = db.NewStoreRepository(database, logger)
	s.employees = db.NewEmployeeRepository(database, logger)
	s.jobs = db.NewImportJobRepository(database, logger)
	s.reports = db.NewReportRepository(database.SQLDB(), logger)
	s.coordinator = db.NewSaleCoordinator(database, s.invoices, s.stock, logger)
	s.ctx = context.Background()
}

func (s *SaleSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)

	store := helpers.CreateTestStore()
	s.Require().NoError(s.stores.Create(s.ctx, store))
	s.storeID = store.ID
	s.employeeID = helpers.InsertTestEmployee(s.T(), s.testDB.PgxPool, store.ID, domain.RoleCashier)

	s.productA = helpers.CreateTestProduct()
	s.productB = helpers.CreateTestProduct(func(p *domain.Product) {
		p.Name = "Panela Organica"
		p.Brand = "Trapiche"
		p.Price = decimal.RequireFromString("2.50")
	})
	s.Require().NoError(s.products.Create(s.ctx, s.productA))
	s.Require().NoError(s.products.Create(s.ctx, s.productB))
}

func (s *SaleSuite) cart(qtyA, qtyB int) []domain.CartItem {
	var items []domain.CartItem
	if qtyA > 0 {
		items = append(items, domain.CartItem{ProductID: s.productA.ID, Name: s.productA.Name, Quantity: qtyA, UnitPrice: s.productA.Price})
	}
	if qtyB > 0 {
		items = append(items, domain.CartItem{ProductID: s.productB.ID, Name: s.productB.Name, Quantity: qtyB, UnitPrice: s.productB.Price})
	}
	return items
}

func (s *SaleSuite) quantity(productID int64) int {
	q, err := s.stock.CurrentQuantity(s.ctx, s.storeID, productID)
	s.Require().NoError(err)
	return q
}

func (s *SaleSuite) TestExecuteSale_Success() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 5)
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productB.ID, 3)

	id, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Maria Lopez", s.cart(2, 1))
	s.Require().NoError(err)
	s.Positive(id)

	s.Equal(3, s.quantity(s.productA.ID))
	s.Equal(2, s.quantity(s.productB.ID))
	s.Equal(1, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
	s.Equal(2, helpers.CountRows(s.T(), s.testDB.PgxPool, "sales"))

	invoice, err := s.invoices.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(invoice)
	s.Equal("Maria Lopez", invoice.ClientName)
	s.Require().Len(invoice.Lines, 2)
	s.Equal(s.productA.Name, invoice.Lines[0].ProductName)
	s.Equal(s.employeeID, invoice.Lines[0].EmployeeID)
	s.True(decimal.RequireFromString("27.50").Equal(invoice.Total()))
}

func (s *SaleSuite) TestExecuteSale_InsufficientStock() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 5)

	id, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Maria Lopez", s.cart(10, 0))
	s.Zero(id)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrInsufficientStock)

	s.Equal(5, s.quantity(s.productA.ID))
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "sales"))
}

func (s *SaleSuite) TestExecuteSale_OneShortLineRollsBackAll() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 5)
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productB.ID, 1)

	_, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Maria Lopez", s.cart(2, 2))
	s.ErrorIs(err, domain.ErrInsufficientStock)

	s.Equal(5, s.quantity(s.productA.ID))
	s.Equal(1, s.quantity(s.productB.ID))
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "sales"))
}

func (s *SaleSuite) TestExecuteSale_NoStockEntry() {
	_, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Maria Lopez", s.cart(1, 0))
	s.ErrorIs(err, domain.ErrInsufficientStock)
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
}

func (s *SaleSuite) TestExecuteSale_UnknownEmployeeThenRetry() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 5)

	_, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, 999999, "Maria Lopez", s.cart(1, 0))
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrTransactionFailure)
	s.Equal(domain.KindTransactionFailure, domain.KindOf(err))

	s.Equal(5, s.quantity(s.productA.ID))
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "sales"))

	id, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Maria Lopez", s.cart(1, 0))
	s.Require().NoError(err)
	s.Positive(id)
	s.Equal(4, s.quantity(s.productA.ID))
	s.Equal(1, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
}

func (s *SaleSuite) TestExecuteSale_CancelledCallerStillCommits() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 2)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	id, err := s.coordinator.ExecuteSale(ctx, s.storeID, s.employeeID, "Maria Lopez", s.cart(1, 0))
	s.Require().NoError(err)
	s.Positive(id)
	s.Equal(1, s.quantity(s.productA.ID))
}

func (s *SaleSuite) TestExecuteSale_LastUnitRace() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 1)

	const buyers = 8
	var (
		wg           sync.WaitGroup
		successes    atomic.Int32
		insufficient atomic.Int32
		other        atomic.Int32
		start        = make(chan struct{})
	)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Race", s.cart(1, 0))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient.Add(1)
			default:
				other.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(buyers-1), insufficient.Load())
	s.Zero(other.Load())
	s.Equal(0, s.quantity(s.productA.ID))
	s.Equal(1, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
}

func (s *SaleSuite) TestStock_ListAndRestock() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 5)

	err := s.stock.Restock(s.ctx, s.storeID, []domain.StockAdjustment{
		{ProductID: s.productA.ID, Quantity: 3},
		{ProductID: s.productB.ID, Quantity: 7},
	})
	s.Require().NoError(err)

	entries, err := s.stock.ListByStore(s.ctx, s.storeID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(8, entries[0].Quantity)
	s.Equal(7, entries[1].Quantity)
	s.Equal(s.productB.Name, entries[1].ProductName)

	all, err := s.stock.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	low, err := s.stock.ListBelow(s.ctx, s.storeID, 8, nil)
	s.Require().NoError(err)
	s.Require().Len(low, 1)
	s.Equal(s.productB.ID, low[0].ProductID)

	err = s.stock.Restock(s.ctx, s.storeID, []domain.StockAdjustment{{ProductID: 424242, Quantity: 1}})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *SaleSuite) TestStock_ApplyImportOnce() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 5)

	job := &domain.ImportJob{StoreID: s.storeID, FileKey: "imports/a.xlsx", FileType: domain.ImportXLSX}
	s.Require().NoError(s.jobs.Create(s.ctx, job))
	s.Require().NoError(s.jobs.UpdateStatus(s.ctx, job.ID, domain.ImportProcessing, 0, nil))

	adjustments := []domain.StockAdjustment{{ProductID: s.productA.ID, Quantity: 4}}

	applied, err := s.stock.ApplyImport(s.ctx, job.ID, s.storeID, adjustments)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.stock.ApplyImport(s.ctx, job.ID, s.storeID, adjustments)
	s.Require().NoError(err)
	s.False(applied)

	s.Equal(9, s.quantity(s.productA.ID))
	stored, err := s.jobs.FindByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(domain.ImportCompleted, stored.Status)
	s.Equal(1, stored.RowsProcessed)

	failing := &domain.ImportJob{StoreID: s.storeID, FileKey: "imports/b.xlsx", FileType: domain.ImportXLSX}
	s.Require().NoError(s.jobs.Create(s.ctx, failing))
	_, err = s.stock.ApplyImport(s.ctx, failing.ID, s.storeID, []domain.StockAdjustment{{ProductID: 424242, Quantity: 1}})
	s.ErrorIs(err, domain.ErrNotFound)

	stored, err = s.jobs.FindByID(s.ctx, failing.ID)
	s.Require().NoError(err)
	s.Equal(domain.ImportPending, stored.Status, "rolled back with the restock")
}

func (s *SaleSuite) TestCatalog() {
	found, err := s.products.FindProduct(s.ctx, s.productA.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(s.productA.Name, found.Name)
	s.True(s.productA.Price.Equal(found.Price))

	missing, err := s.products.FindProduct(s.ctx, 424242)
	s.NoError(err)
	s.Nil(missing)

	byID, err := s.products.FindProducts(s.ctx, []int64{s.productA.ID, s.productB.ID, 424242})
	s.Require().NoError(err)
	s.Len(byID, 2)

	store, err := s.stores.FindStore(s.ctx, s.storeID)
	s.Require().NoError(err)
	s.Require().NotNil(store)
	s.Equal(1, store.EmployeeCount)

	dup := helpers.CreateTestStore(func(st *domain.Store) { st.Name = "Ninco Norte" })
	s.ErrorIs(s.stores.Create(s.ctx, dup), domain.ErrConflict)

	store.Address = "Carrera 7 # 12-30"
	s.Require().NoError(s.stores.Update(s.ctx, store))
	byPhone, err := s.stores.FindByPhone(s.ctx, store.Phone)
	s.Require().NoError(err)
	s.Equal("Carrera 7 # 12-30", byPhone.Address)

	ghost := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 424242; st.Phone = "+57 300 000 0000" })
	s.ErrorIs(s.stores.Update(s.ctx, ghost), domain.ErrNotFound)

	employee, err := s.employees.FindEmployee(s.ctx, s.employeeID)
	s.Require().NoError(err)
	s.Equal(s.storeID, employee.StoreID)
}

func (s *SaleSuite) TestInvoices_ListAndReceiptKey() {
	helpers.SeedStock(s.T(), s.testDB.PgxPool, s.storeID, s.productA.ID, 10)
	for i := 0; i < 3; i++ {
		_, err := s.coordinator.ExecuteSale(s.ctx, s.storeID, s.employeeID, "Client", s.cart(1, 0))
		s.Require().NoError(err)
	}

	page, total, err := s.invoices.List(s.ctx, domain.InvoiceFilter{StoreID: &s.storeID, PageSize: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(page, 2)

	s.Require().NoError(s.invoices.SetReceiptKey(s.ctx, page[0].ID, "receipts/x.txt"))
	invoice, err := s.invoices.FindByID(s.ctx, page[0].ID)
	s.Require().NoError(err)
	s.Require().NotNil(invoice.ReceiptKey)
	s.Equal("receipts/x.txt", *invoice.ReceiptKey)

	s.ErrorIs(s.invoices.SetReceiptKey(s.ctx, 424242, "k"), domain.ErrNotFound)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	daily, err := s.reports.DailySales(s.ctx, from, to, nil)
	s.Require().NoError(err)
	s.Require().Len(daily, 1)
	s.Equal(int64(3), daily[0].Invoices)

	top, err := s.reports.TopProducts(s.ctx, from, to, 5)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(int64(3), top[0].Units)
}

func (s *SaleSuite) TestImportJobs() {
	job := &domain.ImportJob{StoreID: s.storeID, FileKey: "imports/a.xlsx", FileType: domain.ImportXLSX}
	s.Require().NoError(s.jobs.Create(s.ctx, job))
	s.NotEqual(uuid.Nil, job.ID)
	s.Equal(domain.ImportPending, job.Status)

	s.Require().NoError(s.jobs.UpdateStatus(s.ctx, job.ID, domain.ImportCompleted, 4, nil))
	found, err := s.jobs.FindByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(domain.ImportCompleted, found.Status)
	s.Equal(4, found.RowsProcessed)

	s.ErrorIs(s.jobs.UpdateStatus(s.ctx, uuid.New(), domain.ImportFailed, 0, nil), domain.ErrNotFound)

	deleted, err := s.jobs.DeleteFinishedBefore(s.ctx, time.Now().Add(time.Minute))
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.Equal("imports/a.xlsx", deleted[0].FileKey)
}

func (s *SaleSuite) TestEmployees_CreateAndList() {
	other := helpers.CreateTestStore(func(st *domain.Store) { st.Phone = "+57 300 555 0199" })
	s.Require().NoError(s.stores.Create(s.ctx, other))

	e := &domain.Employee{StoreID: other.ID, FirstName: "Sofía", LastName: "Peña", Email: "sofia@ninco.test", Role: domain.RoleAdmin}
	s.Require().NoError(s.employees.Create(s.ctx, e))
	s.NotZero(e.ID)
	s.False(e.CreatedAt.IsZero())

	dup := &domain.Employee{StoreID: s.storeID, FirstName: "Luis", LastName: "Gómez", Email: "sofia@ninco.test", Role: domain.RoleCashier}
	s.ErrorIs(s.employees.Create(s.ctx, dup), domain.ErrConflict)

	orphan := &domain.Employee{StoreID: 999999, FirstName: "Luis", LastName: "Gómez", Email: "luis@ninco.test", Role: domain.RoleCashier}
	s.ErrorIs(s.employees.Create(s.ctx, orphan), domain.ErrNotFound)

	byStore, err := s.employees.List(s.ctx, &other.ID)
	s.Require().NoError(err)
	s.Require().Len(byStore, 1)
	s.Equal("sofia@ninco.test", byStore[0].Email)
	s.Equal(domain.RoleAdmin, byStore[0].Role)

	all, err := s.employees.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func TestSaleSuite(t *testing.T) {
	suite.Run(t, new(SaleSuite))
}
