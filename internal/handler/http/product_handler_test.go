package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	handler "github.com/toronyi/bakery-api/internal/handler/http"
	"github.com/toronyi/bakery-api/internal/product"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetProducts(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) UpdatePrice(ctx context.Context, id int64, price int) (*product.Product, error) {
	args := m.Called(ctx, id, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) SetActive(ctx context.Context, id int64, active bool) (*product.Product, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func newProductRouter(svc product.Service) *chi.Mux {
	r := chi.NewRouter()
	handler.NewProductHandler(svc).RegisterRoutes(r)
	return r
}

func TestProductHandler_GetProducts(t *testing.T) {
	mockService := new(MockProductService)
	router := newProductRouter(mockService)

	products := []product.Product{
		{ID: 1, Name: "1kg Toronyi kenyér egész", Price: 860, IsActive: true},
		{ID: 5, Name: "Buci", Price: 370, IsActive: true},
	}
	mockService.On("GetProducts", mock.Anything).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
}

func TestProductHandler_GetProductByID_NotFound(t *testing.T) {
	mockService := new(MockProductService)
	router := newProductRouter(mockService)

	mockService.On("GetProductByID", mock.Anything, int64(42)).Return(nil, product.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/products/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_UpdatePrice(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *MockProductService)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"price": 900}`,
			setupMock: func(m *MockProductService) {
				m.On("UpdatePrice", mock.Anything, int64(1), 900).
					Return(&product.Product{ID: 1, Name: "Buci", Price: 900, IsActive: true}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing_price",
			body:       `{}`,
			setupMock:  func(m *MockProductService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative_price",
			body:       `{"price": -10}`,
			setupMock:  func(m *MockProductService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_product",
			body: `{"price": 500}`,
			setupMock: func(m *MockProductService) {
				m.On("UpdatePrice", mock.Anything, int64(1), 500).Return(nil, product.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			tt.setupMock(mockService)
			router := newProductRouter(mockService)

			req := httptest.NewRequest(http.MethodPut, "/products/1/price", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_UpdateStatus(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductRouter(mockService)

		mockService.On("SetActive", mock.Anything, int64(3), false).
			Return(&product.Product{ID: 3, Name: "Buci", Price: 370, IsActive: false}, nil)

		req := httptest.NewRequest(http.MethodPut, "/products/3/status", bytes.NewBufferString(`{"is_active": false}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Product deactivated", env.Message)
	})

	t.Run("missing_flag", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductRouter(mockService)

		req := httptest.NewRequest(http.MethodPut, "/products/3/status", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})
}
