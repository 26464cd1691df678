package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/workers"
	"github.com/ninco/ninco-be/test/mocks"
)

func TestStockHandler_ListByStore(t *testing.T) {
	router, m := newTestRouter(t)
	m.stock.EXPECT().ListByStore(gomock.Any(), int64(1)).Return([]domain.StockEntry{
		{ProductID: 10, StoreID: 1, ProductName: "Café", Quantity: 4},
	}, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/stores/1/stock", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		StoreID int64               `json:"store_id"`
		Stock   []domain.StockEntry `json:"stock"`
		Count   int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 4, resp.Stock[0].Quantity)
}

func TestStockHandler_ListAll_Empty(t *testing.T) {
	router, m := newTestRouter(t)
	m.stock.EXPECT().ListAll(gomock.Any()).Return(nil, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/stock", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":[]`)
}

func TestStockHandler_GetQuantity(t *testing.T) {
	router, m := newTestRouter(t)
	m.stock.EXPECT().CurrentQuantity(gomock.Any(), int64(2), int64(10)).Return(7, nil)
	m.stock.EXPECT().CurrentQuantity(gomock.Any(), int64(2), int64(99)).Return(0, domain.ErrNotFound)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/stores/2/stock/10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":7`)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/stores/2/stock/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/stores/0/stock/10", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockHandler_Restock(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockStockService)
		wantStatus int
	}{
		{
			name: "applied",
			body: `{"items":[{"product_id":10,"quantity":5},{"product_id":20,"quantity":1}]}`,
			setup: func(m *mocks.MockStockService) {
				m.EXPECT().Restock(gomock.Any(), int64(1), []domain.StockAdjustment{
					{ProductID: 10, Quantity: 5},
					{ProductID: 20, Quantity: 1},
				}).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid_adjustment",
			body: `{"items":[{"product_id":10,"quantity":0}]}`,
			setup: func(m *mocks.MockStockService) {
				m.EXPECT().Restock(gomock.Any(), int64(1), gomock.Any()).
					Return(errors.Join(domain.ErrInvalidInput, errors.New("quantity must be positive")))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad_json",
			body:       `[]`,
			setup:      func(*mocks.MockStockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ledger_down",
			body: `{"items":[{"product_id":10,"quantity":5}]}`,
			setup: func(m *mocks.MockStockService) {
				m.EXPECT().Restock(gomock.Any(), int64(1), gomock.Any()).Return(errors.New("pool closed"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			tt.setup(m.stock)

			rec := doRequest(t, router, http.MethodPost, "/api/v1/stores/1/stock", []byte(tt.body), nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", decodeError(t, rec).Error)
			}
		})
	}
}

func TestCatalogHandler_Products(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{{ID: 1, Name: "Café", Price: decimal.RequireFromString("12.50")}}, nil)
	rec := doRequest(t, router, http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)

	m.catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Product) error {
			assert.Zero(t, p.ID)
			p.ID = 77
			return nil
		})
	rec = doRequest(t, router, http.MethodPost, "/api/v1/products",
		[]byte(`{"product_id":5,"name":"Arepa","brand":"Ninco","price":"3.10","stock":0}`), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"product_id":77`)

	m.catalog.EXPECT().GetProduct(gomock.Any(), int64(404)).Return(nil, domain.ErrNotFound)
	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/404", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_Stores(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().CreateStore(gomock.Any(), gomock.Any()).Return(domain.ErrConflict)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/stores",
		[]byte(`{"name":"Centro","address":"Calle 1","phone":"+57 300 000 0000"}`), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	m.catalog.EXPECT().UpdateStore(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.Store) error {
			assert.Equal(t, int64(3), s.ID)
			return nil
		})
	rec = doRequest(t, router, http.MethodPut, "/api/v1/stores/3",
		[]byte(`{"name":"Norte","address":"Calle 2","phone":"+57 300 000 0001"}`), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	m.catalog.EXPECT().GetEmployee(gomock.Any(), int64(7)).Return(&domain.Employee{ID: 7, StoreID: 1, FirstName: "Ana"}, nil)
	rec = doRequest(t, router, http.MethodGet, "/api/v1/employees/7", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana")
}

func TestCatalogHandler_Employees(t *testing.T) {
	router, m := newTestRouter(t)

	storeID := int64(2)
	m.catalog.EXPECT().ListEmployees(gomock.Any(), &storeID).
		Return([]domain.Employee{{ID: 7, StoreID: 2, FirstName: "Ana"}, {ID: 8, StoreID: 2, FirstName: "Luis"}}, nil)
	rec := doRequest(t, router, http.MethodGet, "/api/v1/employees?store_id=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Employees []domain.Employee `json:"employees"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	m.catalog.EXPECT().ListEmployees(gomock.Any(), nil).Return(nil, nil)
	rec = doRequest(t, router, http.MethodGet, "/api/v1/employees", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"employees":[]`)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/employees?store_id=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	m.catalog.EXPECT().CreateEmployee(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.Employee) error {
			assert.Zero(t, e.ID)
			assert.Equal(t, "Peña", e.LastName)
			e.ID = 31
			return nil
		})
	rec = doRequest(t, router, http.MethodPost, "/api/v1/employees",
		[]byte(`{"employee_id":4,"store_id":2,"first_name":"Sofía","last_name":"Peña","email":"sofia@ninco.co","role":"cashier"}`), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"employee_id":31`)

	m.catalog.EXPECT().CreateEmployee(gomock.Any(), gomock.Any()).Return(fmt.Errorf("email taken: %w", domain.ErrConflict))
	rec = doRequest(t, router, http.MethodPost, "/api/v1/employees",
		[]byte(`{"store_id":2,"first_name":"Sofía","last_name":"Peña","email":"sofia@ninco.co"}`), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func multipartUpload(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportHandler_Upload(t *testing.T) {
	router, m := newTestRouter(t)

	var createdID uuid.UUID
	gomock.InOrder(
		m.catalog.EXPECT().GetStore(gomock.Any(), int64(1)).Return(&domain.Store{ID: 1}, nil),
		m.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), "application/pdf").
			DoAndReturn(func(_ context.Context, key string, body io.Reader, _ string) (string, error) {
				assert.True(t, strings.HasPrefix(key, "imports/store-1/"))
				assert.True(t, strings.HasSuffix(key, ".pdf"))
				data, err := io.ReadAll(body)
				require.NoError(t, err)
				assert.Equal(t, "%PDF-1.4", string(data))
				return key, nil
			}),
		m.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, job *domain.ImportJob) error {
				assert.Equal(t, domain.ImportPending, job.Status)
				assert.Equal(t, domain.ImportPDF, job.FileType)
				createdID = job.ID
				return nil
			}),
		m.tasks.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
				assert.Equal(t, workers.TypeStockImport, task.Type())
				return &asynq.TaskInfo{ID: "t1"}, nil
			}),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/api/v1/stores/1/stock/imports", "stock.PDF", []byte("%PDF-1.4")))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/v1/imports/"+createdID.String(), rec.Header().Get("Location"))
}

func TestImportHandler_Upload_Rejections(t *testing.T) {
	t.Run("unsupported_extension", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartUpload(t, "/api/v1/stores/1/stock/imports", "stock.csv", []byte("10,5")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing_file", func(t *testing.T) {
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stores/1/stock/imports", strings.NewReader("x"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_store", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.catalog.EXPECT().GetStore(gomock.Any(), int64(9)).Return(nil, domain.ErrNotFound)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartUpload(t, "/api/v1/stores/9/stock/imports", "stock.xlsx", []byte("PK")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enqueue_failure_marks_job_failed", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.catalog.EXPECT().GetStore(gomock.Any(), int64(1)).Return(&domain.Store{ID: 1}, nil)
		m.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("k", nil)
		m.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.tasks.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
		m.jobs.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), domain.ImportFailed, 0, gomock.Any()).Return(nil)
		m.storage.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartUpload(t, "/api/v1/stores/1/stock/imports", "stock.xlsx", []byte("PK")))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestImportHandler_Status(t *testing.T) {
	router, m := newTestRouter(t)
	id := uuid.New()
	m.jobs.EXPECT().FindByID(gomock.Any(), id).Return(&domain.ImportJob{ID: id, Status: domain.ImportCompleted, RowsProcessed: 12}, nil)
	m.jobs.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/imports/"+id.String(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows_processed":12`)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/imports/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/imports/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandler_ExportStock(t *testing.T) {
	router, m := newTestRouter(t)
	m.stock.EXPECT().ListByStore(gomock.Any(), int64(1)).Return([]domain.StockEntry{
		{StoreID: 1, StoreName: "Centro", ProductID: 10, ProductName: "Café", Quantity: 4},
		{StoreID: 1, StoreName: "Centro", ProductID: 20, ProductName: "Panela", Quantity: 0},
	}, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/export/stock?store_id=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "stock_export_")

	wb, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	sheet := wb.Sheets[0]
	assert.Equal(t, "Stock", sheet.Name)

	var got [][]string
	require.NoError(t, sheet.ForEachRow(func(r *xlsx.Row) error {
		got = append(got, []string{r.GetCell(1).String(), r.GetCell(3).String(), r.GetCell(4).String()})
		return nil
	}))
	assert.Equal(t, [][]string{
		{"Store", "Product", "Quantity"},
		{"Centro", "Café", "4"},
		{"Centro", "Panela", "0"},
	}, got)
}

func TestExportHandler_ExportSales(t *testing.T) {
	router, m := newTestRouter(t)
	m.reports.EXPECT().DailySales(gomock.Any(), gomock.Any(), gomock.Any(), nil).
		DoAndReturn(func(_ context.Context, from, to time.Time, _ *int64) ([]domain.DailySales, error) {
			assert.Equal(t, "2026-03-01", from.Format("2006-01-02"))
			assert.Equal(t, "2026-03-08", to.Format("2006-01-02"))
			return []domain.DailySales{
				{Day: from, StoreID: 1, Invoices: 3, Units: 9, Revenue: decimal.RequireFromString("45.5")},
			}, nil
		})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/export/sales?from=2026-03-01&to=2026-03-08", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	wb, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	row, err := wb.Sheets[0].Row(1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", row.GetCell(0).String())
	assert.Equal(t, "45.50", row.GetCell(4).String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/export/sales?from=2026-03-08&to=2026-03-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	router, m := newTestRouter(t)
	m.reportS.EXPECT().Dashboard(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, from, to time.Time) (*domain.Dashboard, error) {
			assert.True(t, from.Before(to))
			return &domain.Dashboard{From: from, To: to, TotalInvoices: 4, TotalRevenue: decimal.RequireFromString("45.50")}, nil
		})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dashboard", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_invoices":4`)

	m.reportS.EXPECT().Dashboard(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.Join(domain.ErrInvalidInput, errors.New("from must be before to")))
	rec = doRequest(t, router, http.MethodGet, "/api/v1/dashboard?from=2026-02-01&to=2026-01-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	router, m := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)

	m.db.EXPECT().Ping(gomock.Any()).Return(nil)
	m.db.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"total_conns": 4})
	m.cache.EXPECT().Ping(gomock.Any()).Return(nil)
	rec = doRequest(t, router, http.MethodGet, "/ready", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":true`)

	m.db.EXPECT().Ping(gomock.Any()).Return(nil)
	m.db.EXPECT().Health(gomock.Any()).Return(nil)
	m.cache.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rec = doRequest(t, router, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
