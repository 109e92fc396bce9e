package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type fakeProductStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{items: make(map[int64]*domain.Product)}
}

func (f *fakeProductStore) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.SKU == p.SKU {
			return nil, xerrors.ErrSKUAlreadyExists
		}
	}
	f.nextID++
	saved := *p
	saved.ID = f.nextID
	saved.CreatedAt = time.Now()
	f.items[saved.ID] = &saved
	out := saved
	return &out, nil
}

func (f *fakeProductStore) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeProductStore) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Product
	for _, p := range f.items {
		if filter.LowStock && !p.LowStock() {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (f *fakeProductStore) Update(_ context.Context, id int64, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return nil, xerrors.ErrNotFound
	}
	saved := *p
	saved.ID = id
	f.items[id] = &saved
	out := saved
	return &out, nil
}

func (f *fakeProductStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProductStore) UpdateQuantity(_ context.Context, id int64, quantity int) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	p.Quantity = quantity
	out := *p
	return &out, nil
}

func (f *fakeProductStore) ListByCustomer(_ context.Context, customerID string) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Product
	for _, p := range f.items {
		if p.CustomerID == customerID && p.IsActive {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func validProduct() *domain.Product {
	return &domain.Product{
		Name:        "Widget",
		SKU:         "wgt-001",
		Price:       9.99,
		Quantity:    10,
		MinQuantity: 2,
		IsActive:    true,
	}
}

func TestProductCreate(t *testing.T) {
	t.Run("normalizes sku to uppercase", func(t *testing.T) {
		uc := NewProductUsecase(newFakeProductStore())
		p, err := uc.Create(context.Background(), validProduct())
		require.NoError(t, err)
		assert.Equal(t, "WGT-001", p.SKU)
	})

	t.Run("duplicate sku rejected", func(t *testing.T) {
		uc := NewProductUsecase(newFakeProductStore())
		_, err := uc.Create(context.Background(), validProduct())
		require.NoError(t, err)
		_, err = uc.Create(context.Background(), validProduct())
		assert.ErrorIs(t, err, xerrors.ErrSKUAlreadyExists)
	})

	t.Run("invalid products rejected", func(t *testing.T) {
		uc := NewProductUsecase(newFakeProductStore())

		p := validProduct()
		p.Name = " "
		_, err := uc.Create(context.Background(), p)
		assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)

		p = validProduct()
		p.Price = -1
		_, err = uc.Create(context.Background(), p)
		assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)
	})
}

func TestProductUpdateKeepsSKU(t *testing.T) {
	uc := NewProductUsecase(newFakeProductStore())
	created, err := uc.Create(context.Background(), validProduct())
	require.NoError(t, err)

	upd := validProduct()
	upd.SKU = "HIJACKED"
	upd.Name = "Widget v2"
	updated, err := uc.Update(context.Background(), created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "WGT-001", updated.SKU, "sku is immutable")
	assert.Equal(t, "Widget v2", updated.Name)
}

func TestProductQuantityAndLowStock(t *testing.T) {
	uc := NewProductUsecase(newFakeProductStore())
	created, err := uc.Create(context.Background(), validProduct())
	require.NoError(t, err)

	_, err = uc.UpdateQuantity(context.Background(), created.ID, -1)
	assert.ErrorIs(t, err, xerrors.ErrInvalidRequest)

	p, err := uc.UpdateQuantity(context.Background(), created.ID, 2)
	require.NoError(t, err)
	assert.True(t, p.LowStock(), "quantity at min_quantity counts as low stock")

	low, total, err := uc.LowStock(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, low, 1)
	assert.Equal(t, created.ID, low[0].ID)
}

func TestProductListByCustomer(t *testing.T) {
	store := newFakeProductStore()
	uc := NewProductUsecase(store)

	mine := validProduct()
	mine.CustomerID = "7"
	_, err := uc.Create(context.Background(), mine)
	require.NoError(t, err)

	others := validProduct()
	others.SKU = "WGT-002"
	others.CustomerID = "8"
	_, err = uc.Create(context.Background(), others)
	require.NoError(t, err)

	got, err := uc.ListByCustomer(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].CustomerID)
}
