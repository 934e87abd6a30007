package product_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toronyi/bakery-api/internal/product"
)

type mockProductRepository struct {
	getAllFunc      func(ctx context.Context) ([]product.Product, error)
	getByIDFunc     func(ctx context.Context, id int64) (*product.Product, error)
	updatePriceFunc func(ctx context.Context, id int64, price int) (*product.Product, error)
	setActiveFunc   func(ctx context.Context, id int64, active bool) (*product.Product, error)
}

func (m *mockProductRepository) GetAll(ctx context.Context) ([]product.Product, error) {
	return m.getAllFunc(ctx)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepository) UpdatePrice(ctx context.Context, id int64, price int) (*product.Product, error) {
	return m.updatePriceFunc(ctx, id, price)
}

func (m *mockProductRepository) SetActive(ctx context.Context, id int64, active bool) (*product.Product, error) {
	return m.setActiveFunc(ctx, id, active)
}

func TestService_GetProducts(t *testing.T) {
	want := []product.Product{
		{ID: 1, Name: "1kg Toronyi kenyér egész", Price: 860, IsActive: true},
		{ID: 5, Name: "Buci", Price: 370, IsActive: true},
	}
	repo := &mockProductRepository{
		getAllFunc: func(ctx context.Context) ([]product.Product, error) {
			return want, nil
		},
	}
	svc := product.NewService(repo)

	got, err := svc.GetProducts(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetProducts() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_UpdatePrice_RejectsNonPositive(t *testing.T) {
	svc := product.NewService(&mockProductRepository{})

	for _, price := range []int{0, -1, -500} {
		_, err := svc.UpdatePrice(context.Background(), 1, price)
		assert.Error(t, err, "price %d must be rejected", price)
	}
}

func TestService_UpdatePrice_NotFound(t *testing.T) {
	repo := &mockProductRepository{
		updatePriceFunc: func(ctx context.Context, id int64, price int) (*product.Product, error) {
			return nil, product.ErrNotFound
		},
	}
	svc := product.NewService(repo)

	_, err := svc.UpdatePrice(context.Background(), 42, 500)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestService_SetActive(t *testing.T) {
	repo := &mockProductRepository{
		setActiveFunc: func(ctx context.Context, id int64, active bool) (*product.Product, error) {
			return &product.Product{ID: id, Name: "Buci", Price: 370, IsActive: active}, nil
		},
	}
	svc := product.NewService(repo)

	p, err := svc.SetActive(context.Background(), 5, false)
	require.NoError(t, err)
	assert.False(t, p.IsActive)
}
