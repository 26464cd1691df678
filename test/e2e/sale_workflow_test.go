//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/suite"
	"github.com/tealeg/xlsx/v3"

	"github.com/ninco/ninco-be/internal/adapters/db"
	redis_a "github.com/ninco/ninco-be/internal/adapters/redis_adapter"
	"github.com/ninco/ninco-be/internal/adapters/storage"
	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/services"
	"github.com/ninco/ninco-be/internal/handlers"
	"github.com/ninco/ninco-be/internal/handlers/middleware"
	"github.com/ninco/ninco-be/internal/workers"
	"github.com/ninco/ninco-be/test/helpers"
)

// inlineQueue runs every enqueued task immediately on the worker mux.
type inlineQueue struct {
	mu      sync.Mutex
	mux     *asynq.ServeMux
	handled map[string]int
	failed  []error
}

func (q *inlineQueue) EnqueueContext(ctx context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	err := q.mux.ProcessTask(ctx, task)

	q.mu.Lock()
	q.handled[task.Type()]++
	if err != nil {
		q.failed = append(q.failed, err)
	}
	q.mu.Unlock()

	return &asynq.TaskInfo{ID: task.Type(), Type: task.Type()}, nil
}

func (q *inlineQueue) reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handled = make(map[string]int)
	q.failed = nil
}

func (q *inlineQueue) count(taskType string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.handled[taskType]
}

type SaleE2ESuite struct {
	suite.Suite
	server  *httptest.Server
	client  *http.Client
	baseURL string
	testDB  *helpers.TestDB
	redis   *helpers.TestRedis
	queue   *inlineQueue
	storage *storage.LocalStorage

	storeID    int64
	employeeID int64
	productID  int64
}

func (s *SaleE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.redis = helpers.SetupTestRedis(s.T())

	var err error
	s.storage, err = storage.NewLocalStorage(s.T().TempDir(), helpers.TestLogger())
	s.Require().NoError(err)

	s.server = s.startTestServer(s.redis)
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *SaleE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *SaleE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.queue.reset()
	s.redis.Server.FlushAll()

	resp := s.makeRequest(http.MethodPost, "/stores", map[string]interface{}{
		"name": "Ninco Centro", "address": "Calle 10 # 5-21", "phone": "+57 601 555 0101",
	}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var store domain.Store
	s.decodeResponse(resp, &store)
	s.storeID = store.ID

	resp = s.makeRequest(http.MethodPost, "/products", map[string]interface{}{
		"name": "Café molido", "brand": "Sello Rojo", "price": "12.50",
	}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var product domain.Product
	s.decodeResponse(resp, &product)
	s.productID = product.ID

	s.employeeID = helpers.InsertTestEmployee(s.T(), s.testDB.PgxPool, s.storeID, domain.RoleCashier)
}

func (s *SaleE2ESuite) restock(qty int) {
	resp := s.makeRequest(http.MethodPost, fmt.Sprintf("/stores/%d/stock", s.storeID), map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": s.productID, "quantity": qty}},
	}, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *SaleE2ESuite) quantity() int {
	resp := s.makeRequest(http.MethodGet, fmt.Sprintf("/stores/%d/stock/%d", s.storeID, s.productID), nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var body struct {
		Quantity int `json:"quantity"`
	}
	s.decodeResponse(resp, &body)
	return body.Quantity
}

func (s *SaleE2ESuite) checkout(qty int, idempotencyKey string) *http.Response {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	return s.makeRequest(http.MethodPost, "/sales", map[string]interface{}{
		"store_id":    s.storeID,
		"employee_id": s.employeeID,
		"client_name": "Cliente E2E",
		"items":       []map[string]interface{}{{"product_id": s.productID, "quantity": qty}},
	}, headers)
}

func (s *SaleE2ESuite) TestCompleteSaleWorkflow() {
	s.restock(5)

	resp := s.checkout(2, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var sale domain.Sale
	s.decodeResponse(resp, &sale)
	s.Equal("25", sale.Total.String())

	s.Equal(3, s.quantity())

	resp = s.makeRequest(http.MethodGet, fmt.Sprintf("/invoices/%d", sale.InvoiceID), nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var invoice domain.Invoice
	s.decodeResponse(resp, &invoice)
	s.Len(invoice.Lines, 1)
	s.Require().NotNil(invoice.ReceiptKey, "receipt task should have stored the receipt")

	stored, err := s.storage.Download(context.Background(), *invoice.ReceiptKey)
	s.Require().NoError(err)
	s.Contains(string(stored), "Cliente E2E")

	s.Equal(1, s.queue.count(workers.TypeReceiptGenerate))
	s.Equal(1, s.queue.count(workers.TypeLowStockCheck))
	s.Equal(1, s.queue.count(workers.TypeSendEmail), "3 left is under the threshold of 5")
	s.Empty(s.queue.failed)
}

func (s *SaleE2ESuite) TestInsufficientStockChangesNothing() {
	s.restock(5)

	resp := s.checkout(10, "")
	s.Equal(http.StatusConflict, resp.StatusCode)
	var body handlers.ErrorResponse
	s.decodeResponse(resp, &body)
	s.Equal(string(domain.KindInsufficientStock), body.Kind)

	s.Equal(5, s.quantity())
	s.Equal(0, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
}

func (s *SaleE2ESuite) TestIdempotentCheckout() {
	s.restock(5)

	first := s.checkout(1, "e2e-key-1")
	s.Require().Equal(http.StatusCreated, first.StatusCode)
	var a domain.Sale
	s.decodeResponse(first, &a)

	second := s.checkout(1, "e2e-key-1")
	s.Require().Equal(http.StatusCreated, second.StatusCode)
	var b domain.Sale
	s.decodeResponse(second, &b)

	s.Equal(a.InvoiceID, b.InvoiceID)
	s.Equal(4, s.quantity())
	s.Equal(1, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))

	changed := s.checkout(2, "e2e-key-1")
	s.Equal(http.StatusConflict, changed.StatusCode)
	changed.Body.Close()
	s.Equal(4, s.quantity())
	s.Equal(1, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
}

func (s *SaleE2ESuite) TestConcurrentSalesForLastUnit() {
	s.restock(1)

	const buyers = 8
	statuses := make(chan int, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.checkout(1, "")
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	won := 0
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			won++
		case http.StatusConflict:
		default:
			s.Failf("unexpected status", "got %d", code)
		}
	}

	s.Equal(1, won)
	s.Equal(0, s.quantity())
	s.Equal(1, helpers.CountRows(s.T(), s.testDB.PgxPool, "invoices"))
}

func (s *SaleE2ESuite) TestStockImportWorkflow() {
	s.restock(2)

	book := xlsx.NewFile()
	sheet, err := book.AddSheet("Stock")
	s.Require().NoError(err)
	header := sheet.AddRow()
	header.AddCell().SetString("product_id")
	header.AddCell().SetString("quantity")
	row := sheet.AddRow()
	row.AddCell().SetString(fmt.Sprint(s.productID))
	row.AddCell().SetString("8")
	var content bytes.Buffer
	s.Require().NoError(book.Write(&content))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "stock.xlsx")
	s.Require().NoError(err)
	_, err = part.Write(content.Bytes())
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/stores/%d/stock/imports", s.baseURL, s.storeID), &body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusAccepted, resp.StatusCode)
	var job domain.ImportJob
	s.decodeResponse(resp, &job)

	resp = s.makeRequest(http.MethodGet, "/imports/"+job.ID.String(), nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &job)
	s.Equal(domain.ImportCompleted, job.Status)
	s.Equal(1, job.RowsProcessed)

	s.Equal(10, s.quantity())
}

func (s *SaleE2ESuite) TestHealthCheck() {
	resp, err := s.client.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, err = s.client.Get(s.server.URL + "/ready")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *SaleE2ESuite) startTestServer(testRedis *helpers.TestRedis) *httptest.Server {
	cfg := helpers.LoadTestConfig()
	logger := helpers.TestLogger()
	database := s.testDB.Database

	cache := redis_a.NewCache(testRedis.Client, time.Minute, logger)
	s.queue = &inlineQueue{handled: make(map[string]int)}

	products := db.NewProductRepository(database, logger)
	stores := db.NewStoreRepository(database, logger)
	employees := db.NewEmployeeRepository(database, logger)
	invoices := db.NewInvoiceRepository(database, logger)
	stock := db.NewStockRepository(database, logger)
	importJobs := db.NewImportJobRepository(database, logger)
	reports := db.NewReportRepository(database.SQLDB(), logger)

	saleService := services.NewSaleService(services.SaleServiceDeps{
		Coordinator: db.NewSaleCoordinator(database, invoices, stock, logger),
		Invoices:    invoices,
		Products:    products,
		Stores:      stores,
		Employees:   employees,
		Cache:       cache,
		Tasks:       s.queue,
	}, logger)
	stockService := services.NewStockService(stock, cache, time.Minute, logger)
	catalogService := services.NewCatalogService(products, stores, employees, cache, time.Minute, logger)
	reportService := services.NewReportService(reports, stock, cache, time.Minute, cfg.Sales.LowStockThreshold, logger)

	s.queue.mux = workers.NewServeMux(workers.Processors{
		Receipt:   workers.NewReceiptProcessor(saleService, invoices, s.storage, "receipts", logger),
		LowStock:  workers.NewLowStockProcessor(stock, s.queue, cfg.Sales.LowStockThreshold, cfg.Sales.AlertEmail, logger),
		Email:     workers.NewNotificationProcessor(workers.NewLogMailer(logger), logger),
		Import:    workers.NewImportProcessor(importJobs, s.storage, stockService, logger),
		Cleanup:   workers.NewCleanupProcessor(importJobs, s.storage, time.Hour, logger),
		Analytics: workers.NewAnalyticsProcessor(reportService, logger),
	}, nil, logger)

	router := handlers.NewRouter(handlers.Handlers{
		Health:  handlers.NewHealthHandler(database, cache, nil, handlers.BuildInfo{Version: "e2e"}, logger),
		Sales:   handlers.NewSaleHandler(saleService, logger),
		Stock:   handlers.NewStockHandler(stockService, logger),
		Catalog: handlers.NewCatalogHandler(catalogService, logger),
		Imports: handlers.NewImportHandler(importJobs, s.storage, s.queue, catalogService,
			handlers.ImportLimits{ExcelMaxBytes: 1 << 20, PDFMaxBytes: 1 << 20}, logger),
		Exports:   handlers.NewExportHandler(stockService, reports, logger),
		Dashboard: handlers.NewDashboardHandler(reportService, logger),
	})

	return httptest.NewServer(middleware.Chain(router,
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
	))
}

func (s *SaleE2ESuite) makeRequest(method, path string, body interface{}, headers map[string]string) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *SaleE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func TestSaleE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e suite in short mode")
	}
	suite.Run(t, new(SaleE2ESuite))
}
