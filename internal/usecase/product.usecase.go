package usecase

import (
	"context"
	"strings"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type ProductUsecase struct {
	products repository.ProductStore
}

func NewProductUsecase(products repository.ProductStore) *ProductUsecase {
	return &ProductUsecase{products: products}
}

func validateProduct(p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.SKU) == "" {
		return xerrors.ErrInvalidRequest
	}
	if p.Price < 0 || p.Quantity < 0 || p.MinQuantity < 0 {
		return xerrors.ErrInvalidRequest
	}
	return nil
}

func (uc *ProductUsecase) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	return uc.products.Create(ctx, p)
}

func (uc *ProductUsecase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return uc.products.GetByID(ctx, id)
}

func (uc *ProductUsecase) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int, error) {
	return uc.products.List(ctx, f)
}

// Update replaces the mutable fields of a product. The SKU is immutable
// once assigned; the stored value wins over whatever the caller sends.
func (uc *ProductUsecase) Update(ctx context.Context, id int64, p *domain.Product) (*domain.Product, error) {
	existing, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SKU = existing.SKU
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	return uc.products.Update(ctx, id, p)
}

func (uc *ProductUsecase) Delete(ctx context.Context, id int64) error {
	return uc.products.Delete(ctx, id)
}

func (uc *ProductUsecase) UpdateQuantity(ctx context.Context, id int64, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, xerrors.ErrInvalidRequest
	}
	return uc.products.UpdateQuantity(ctx, id, quantity)
}

// LowStock lists active products at or below their reorder threshold.
func (uc *ProductUsecase) LowStock(ctx context.Context, page, size int) ([]*domain.Product, int, error) {
	active := true
	return uc.products.List(ctx, domain.ProductFilter{
		IsActive: &active,
		LowStock: true,
		Page:     page,
		Size:     size,
	})
}

// ListByCustomer returns the active products assigned to a customer. Used
// by the customer-facing endpoint and by the internal call from the CRM
// service.
func (uc *ProductUsecase) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Product, error) {
	return uc.products.ListByCustomer(ctx, customerID)
}
