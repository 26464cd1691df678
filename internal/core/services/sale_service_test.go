package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ninco/ninco-be/internal/core/domain"
	"github.com/ninco/ninco-be/internal/core/services"
	"github.com/ninco/ninco-be/internal/workers"
	"github.com/ninco/ninco-be/test/helpers"
	"github.com/ninco/ninco-be/test/mocks"
)

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveSale(outcome string, _ int, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

type saleFixture struct {
	coordinator *mocks.MockSaleCoordinator
	invoices    *mocks.MockInvoiceRepository
	products    *mocks.MockProductRepository
	stores      *mocks.MockStoreRepository
	employees   *mocks.MockEmployeeRepository
	cache       *mocks.MockCacheRepository
	tasks       *mocks.MockTaskEnqueuer
	observer    *recordingObserver
	svc         *services.SaleService
}

func newSaleFixture(t *testing.T) *saleFixture {
	ctrl := gomock.NewController(t)
	f := &saleFixture{
		coordinator: mocks.NewMockSaleCoordinator(ctrl),
		invoices:    mocks.NewMockInvoiceRepository(ctrl),
		products:    mocks.NewMockProductRepository(ctrl),
		stores:      mocks.NewMockStoreRepository(ctrl),
		employees:   mocks.NewMockEmployeeRepository(ctrl),
		cache:       mocks.NewMockCacheRepository(ctrl),
		tasks:       mocks.NewMockTaskEnqueuer(ctrl),
		observer:    &recordingObserver{},
	}
	f.svc = services.NewSaleService(services.SaleServiceDeps{
		Coordinator:    f.coordinator,
		Invoices:       f.invoices,
		Products:       f.products,
		Stores:         f.stores,
		Employees:      f.employees,
		Cache:          f.cache,
		Tasks:          f.tasks,
		Metrics:        f.observer,
		IdempotencyTTL: time.Hour,
	}, helpers.TestLogger())
	return f
}

var (
	testStore    = &domain.Store{ID: 1, Name: "Ninco Centro", Address: "Calle 10 # 5-20", Phone: "+57 300 555 0101"}
	testEmployee = &domain.Employee{ID: 7, StoreID: 1, FirstName: "Ana", LastName: "Torres", Role: domain.RoleCashier}
	testCatalog  = map[int64]*domain.Product{
		10: {ID: 10, Name: "Colombian Coffee 500g", Price: decimal.RequireFromString("12.50")},
		20: {ID: 20, Name: "Panela", Price: decimal.RequireFromString("2.50")},
	}
)

func (f *saleFixture) expectLookups() {
	f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(testStore, nil)
	f.employees.EXPECT().FindEmployee(gomock.Any(), int64(7)).Return(testEmployee, nil)
	f.products.EXPECT().FindProducts(gomock.Any(), gomock.Any()).Return(testCatalog, nil)
}

func (f *saleFixture) expectAfterCommit() {
	f.cache.EXPECT().DeletePattern(gomock.Any(), "stock:*").Return(nil)
	f.cache.EXPECT().DeletePattern(gomock.Any(), "dashboard:*").Return(nil)
	f.tasks.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).
		Return(&asynq.TaskInfo{ID: "task-1"}, nil).Times(2)
}

func validRequest() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		StoreID:    1,
		EmployeeID: 7,
		ClientName: "  Maria Lopez ",
		Items: []domain.CheckoutItem{
			{ProductID: 10, Quantity: 2},
			{ProductID: 20, Quantity: 1},
			{ProductID: 10, Quantity: 1},
		},
	}
}

func TestSaleService_Checkout_Success(t *testing.T) {
	f := newSaleFixture(t)
	f.expectLookups()

	f.coordinator.EXPECT().
		ExecuteSale(gomock.Any(), int64(1), int64(7), "Maria Lopez", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ int64, _ string, items []domain.CartItem) (int64, error) {
			require.Len(t, items, 2)
			assert.Equal(t, int64(10), items[0].ProductID)
			assert.Equal(t, 3, items[0].Quantity)
			assert.True(t, decimal.RequireFromString("12.50").Equal(items[0].UnitPrice))
			assert.Equal(t, "Panela", items[1].Name)
			return 42, nil
		})

	f.cache.EXPECT().DeletePattern(gomock.Any(), "stock:*").Return(nil)
	f.cache.EXPECT().DeletePattern(gomock.Any(), "dashboard:*").Return(nil)

	var taskTypes []string
	f.tasks.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
			taskTypes = append(taskTypes, task.Type())
			return &asynq.TaskInfo{ID: task.Type()}, nil
		}).Times(2)

	sale, err := f.svc.Checkout(context.Background(), validRequest(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(42), sale.InvoiceID)
	assert.Equal(t, "Maria Lopez", sale.ClientName)
	assert.True(t, decimal.RequireFromString("40.00").Equal(sale.Total), "total was %s", sale.Total)
	assert.ElementsMatch(t, []string{workers.TypeReceiptGenerate, workers.TypeLowStockCheck}, taskTypes)
	assert.Equal(t, []string{"committed"}, f.observer.outcomes)
}

func TestSaleService_Checkout_Validation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*domain.CheckoutRequest)
		setupMocks    func(*saleFixture)
		errorContains string
	}{
		{
			name:          "blank_client_name",
			mutate:        func(r *domain.CheckoutRequest) { r.ClientName = "   " },
			setupMocks:    func(*saleFixture) {},
			errorContains: "client_name is required",
		},
		{
			name:          "client_name_too_long",
			mutate:        func(r *domain.CheckoutRequest) { r.ClientName = strings.Repeat("x", 129) },
			setupMocks:    func(*saleFixture) {},
			errorContains: "at most 128",
		},
		{
			name:          "multibyte_client_name_too_long",
			mutate:        func(r *domain.CheckoutRequest) { r.ClientName = strings.Repeat("ñ", 129) },
			setupMocks:    func(*saleFixture) {},
			errorContains: "at most 128",
		},
		{
			// passes the name check and fails on the store lookup
			name:   "multibyte_client_name_within_limit",
			mutate: func(r *domain.CheckoutRequest) { r.ClientName = strings.Repeat("ñ", 128) },
			setupMocks: func(f *saleFixture) {
				f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(nil, nil)
			},
			errorContains: "store 1 does not exist",
		},
		{
			name:          "empty_cart",
			mutate:        func(r *domain.CheckoutRequest) { r.Items = nil },
			setupMocks:    func(*saleFixture) {},
			errorContains: "at least one item",
		},
		{
			name:          "zero_quantity",
			mutate:        func(r *domain.CheckoutRequest) { r.Items[1].Quantity = 0 },
			setupMocks:    func(*saleFixture) {},
			errorContains: "quantity must be positive",
		},
		{
			name:   "unknown_store",
			mutate: func(*domain.CheckoutRequest) {},
			setupMocks: func(f *saleFixture) {
				f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(nil, nil)
			},
			errorContains: "store 1 does not exist",
		},
		{
			name:   "employee_from_other_store",
			mutate: func(*domain.CheckoutRequest) {},
			setupMocks: func(f *saleFixture) {
				f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(testStore, nil)
				f.employees.EXPECT().FindEmployee(gomock.Any(), int64(7)).
					Return(&domain.Employee{ID: 7, StoreID: 2}, nil)
			},
			errorContains: "does not work at store 1",
		},
		{
			name:   "unknown_product",
			mutate: func(r *domain.CheckoutRequest) { r.Items[1].ProductID = 99 },
			setupMocks: func(f *saleFixture) {
				f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(testStore, nil)
				f.employees.EXPECT().FindEmployee(gomock.Any(), int64(7)).Return(testEmployee, nil)
				f.products.EXPECT().FindProducts(gomock.Any(), []int64{10, 99}).Return(testCatalog, nil)
			},
			errorContains: "product 99 does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaleFixture(t)
			tt.setupMocks(f)

			req := validRequest()
			tt.mutate(&req)

			sale, err := f.svc.Checkout(context.Background(), req, "")
			require.Error(t, err)
			assert.Nil(t, sale)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Equal(t, []string{"validation_failure"}, f.observer.outcomes)
		})
	}
}

func TestSaleService_Checkout_InsufficientStock(t *testing.T) {
	f := newSaleFixture(t)
	f.expectLookups()

	f.coordinator.EXPECT().
		ExecuteSale(gomock.Any(), int64(1), int64(7), "Maria Lopez", gomock.Any()).
		Return(int64(0), domain.NewInsufficientStockError(errors.New("check violation")))

	sale, err := f.svc.Checkout(context.Background(), validRequest(), "")
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	assert.Equal(t, []string{"insufficient_stock"}, f.observer.outcomes)
}

func TestSaleService_Checkout_LookupFailureIsTransactionFailure(t *testing.T) {
	f := newSaleFixture(t)
	f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(nil, errors.New("pool closed"))

	_, err := f.svc.Checkout(context.Background(), validRequest(), "")
	assert.ErrorIs(t, err, domain.ErrTransactionFailure)
	assert.Equal(t, []string{"transaction_failure"}, f.observer.outcomes)
}

func TestSaleService_Checkout_EnqueueFailureKeepsSale(t *testing.T) {
	f := newSaleFixture(t)
	f.expectLookups()
	f.coordinator.EXPECT().ExecuteSale(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(5), nil)
	f.cache.EXPECT().DeletePattern(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(2)
	f.tasks.EXPECT().EnqueueContext(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down")).Times(2)

	sale, err := f.svc.Checkout(context.Background(), validRequest(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), sale.InvoiceID)
}

func TestSaleService_Checkout_Idempotency(t *testing.T) {
	t.Run("first_request_stores_result", func(t *testing.T) {
		f := newSaleFixture(t)
		req := validRequest()
		fingerprint := req.Fingerprint()
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).
			DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) (bool, error) {
				assert.Contains(t, string(mustJSON(t, value)), fingerprint)
				return true, nil
			})
		f.expectLookups()
		f.coordinator.EXPECT().ExecuteSale(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(9), nil)
		f.cache.EXPECT().SetWithTTL(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).
			DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) error {
				stored := string(mustJSON(t, value))
				assert.Contains(t, stored, `"status":"done"`)
				assert.Contains(t, stored, fingerprint)
				return nil
			})
		f.expectAfterCommit()

		sale, err := f.svc.Checkout(context.Background(), validRequest(), "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(9), sale.InvoiceID)
	})

	t.Run("completed_request_is_replayed", func(t *testing.T) {
		f := newSaleFixture(t)
		req := validRequest()
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(false, nil)
		f.cache.EXPECT().Get(gomock.Any(), "idem:abc", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				return json.Unmarshal(storedRecord(t, "done", req.Fingerprint(), `{"invoice_id":9,"store_id":1,"total":"40"}`), dest)
			})

		sale, err := f.svc.Checkout(context.Background(), req, "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(9), sale.InvoiceID)
		assert.Empty(t, f.observer.outcomes)
	})

	t.Run("reordered_cart_is_replayed", func(t *testing.T) {
		f := newSaleFixture(t)
		stored := validRequest()
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(false, nil)
		f.cache.EXPECT().Get(gomock.Any(), "idem:abc", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				return json.Unmarshal(storedRecord(t, "done", stored.Fingerprint(), `{"invoice_id":9,"store_id":1,"total":"40"}`), dest)
			})

		req := validRequest()
		req.ClientName = "Maria Lopez"
		req.Items = []domain.CheckoutItem{{ProductID: 20, Quantity: 1}, {ProductID: 10, Quantity: 3}}

		sale, err := f.svc.Checkout(context.Background(), req, "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(9), sale.InvoiceID)
	})

	t.Run("key_reused_with_different_cart_conflicts", func(t *testing.T) {
		f := newSaleFixture(t)
		stored := validRequest()
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(false, nil)
		f.cache.EXPECT().Get(gomock.Any(), "idem:abc", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				return json.Unmarshal(storedRecord(t, "done", stored.Fingerprint(), `{"invoice_id":9,"store_id":1,"total":"40"}`), dest)
			})

		req := validRequest()
		req.Items = append(req.Items, domain.CheckoutItem{ProductID: 20, Quantity: 5})

		sale, err := f.svc.Checkout(context.Background(), req, "abc")
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Nil(t, sale)
		assert.Empty(t, f.observer.outcomes)
	})

	t.Run("request_in_flight_conflicts", func(t *testing.T) {
		f := newSaleFixture(t)
		pending := validRequest()
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(false, nil)
		f.cache.EXPECT().Get(gomock.Any(), "idem:abc", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				return json.Unmarshal(storedRecord(t, "pending", pending.Fingerprint(), ""), dest)
			})

		_, err := f.svc.Checkout(context.Background(), validRequest(), "abc")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("failed_sale_releases_key", func(t *testing.T) {
		f := newSaleFixture(t)
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(true, nil)
		f.expectLookups()
		f.coordinator.EXPECT().ExecuteSale(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), domain.NewTransactionFailure(errors.New("fk")))
		f.cache.EXPECT().Delete(gomock.Any(), "idem:abc").Return(nil)

		_, err := f.svc.Checkout(context.Background(), validRequest(), "abc")
		assert.ErrorIs(t, err, domain.ErrTransactionFailure)
	})

	t.Run("cache_down_runs_without_key", func(t *testing.T) {
		f := newSaleFixture(t)
		f.cache.EXPECT().SetNX(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(false, errors.New("redis down"))
		f.expectLookups()
		f.coordinator.EXPECT().ExecuteSale(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(3), nil)
		f.cache.EXPECT().SetWithTTL(gomock.Any(), "idem:abc", gomock.Any(), time.Hour).Return(errors.New("redis down"))
		f.expectAfterCommit()

		sale, err := f.svc.Checkout(context.Background(), validRequest(), "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(3), sale.InvoiceID)
	})
}

func storedRecord(t *testing.T, status, hash, sale string) []byte {
	t.Helper()
	record := map[string]any{"status": status, "request_hash": hash}
	if sale != "" {
		record["sale"] = json.RawMessage(sale)
	}
	return mustJSON(t, record)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestCheckoutRequest_Fingerprint(t *testing.T) {
	base := validRequest()

	same := validRequest()
	same.ClientName = "Maria Lopez"
	same.Items = []domain.CheckoutItem{{ProductID: 20, Quantity: 1}, {ProductID: 10, Quantity: 3}}
	assert.Equal(t, base.Fingerprint(), same.Fingerprint())

	for name, mutate := range map[string]func(*domain.CheckoutRequest){
		"store":    func(r *domain.CheckoutRequest) { r.StoreID = 2 },
		"employee": func(r *domain.CheckoutRequest) { r.EmployeeID = 8 },
		"client":   func(r *domain.CheckoutRequest) { r.ClientName = "Mario Lopez" },
		"quantity": func(r *domain.CheckoutRequest) { r.Items[0].Quantity = 4 },
		"product":  func(r *domain.CheckoutRequest) { r.Items[1].ProductID = 30 },
	} {
		t.Run(name, func(t *testing.T) {
			changed := validRequest()
			mutate(&changed)
			assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
		})
	}
}

func TestSaleService_GetInvoice(t *testing.T) {
	f := newSaleFixture(t)
	f.invoices.EXPECT().FindByID(gomock.Any(), int64(3)).Return(nil, nil)

	_, err := f.svc.GetInvoice(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleService_ListInvoices(t *testing.T) {
	f := newSaleFixture(t)
	f.invoices.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int64, error) {
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 50, filter.PageSize)
			return []domain.Invoice{{ID: 1}}, 101, nil
		})

	list, err := f.svc.ListInvoices(context.Background(), domain.InvoiceFilter{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, int64(101), list.TotalCount)
}

func TestSaleService_RenderReceipt(t *testing.T) {
	f := newSaleFixture(t)
	invoice := &domain.Invoice{
		ID:         42,
		StoreID:    1,
		ClientName: "Maria Lopez",
		CreatedAt:  time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		Lines: []domain.SaleLine{
			{EmployeeID: 7, ProductID: 10, ProductName: "Colombian Coffee 500g", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")},
		},
	}
	f.invoices.EXPECT().FindByID(gomock.Any(), int64(42)).Return(invoice, nil)
	f.stores.EXPECT().FindStore(gomock.Any(), int64(1)).Return(testStore, nil)
	f.employees.EXPECT().FindEmployee(gomock.Any(), int64(7)).Return(testEmployee, nil)

	receipt, err := f.svc.RenderReceipt(context.Background(), 42)
	require.NoError(t, err)

	text := string(receipt)
	assert.Contains(t, text, "Store:   Ninco Centro")
	assert.Contains(t, text, "CLIENT:  Maria Lopez")
	assert.Contains(t, text, "Colombian Coffee ...")
	assert.Contains(t, text, "37.50")
	assert.Contains(t, text, "Cashier: Ana Torres")
	assert.Contains(t, text, "2024-03-01 14:30:00")
}
