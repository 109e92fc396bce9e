package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int, error)
	Update(ctx context.Context, id int64, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*domain.Product, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Product, error)
}

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, sku, price, cost, quantity, min_quantity, max_quantity,
	is_active, category, brand, weight, dimensions, customer_id, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := new(domain.Product)
	var description, category, brand, dimensions, customerID *string
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.SKU, &p.Price, &p.Cost, &p.Quantity,
		&p.MinQuantity, &p.MaxQuantity, &p.IsActive, &category, &brand,
		&p.Weight, &dimensions, &customerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = deref(description)
	p.Category = deref(category)
	p.Brand = deref(brand)
	p.Dimensions = deref(dimensions)
	p.CustomerID = deref(customerID)
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, sku, price, cost, quantity, min_quantity,
			max_quantity, is_active, category, brand, weight, dimensions, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + productColumns

	row := r.db.QueryRow(ctx, query,
		p.Name, nilIfEmpty(p.Description), p.SKU, p.Price, p.Cost, p.Quantity, p.MinQuantity,
		p.MaxQuantity, p.IsActive, nilIfEmpty(p.Category), nilIfEmpty(p.Brand), p.Weight,
		nilIfEmpty(p.Dimensions), nilIfEmpty(p.CustomerID),
	)
	saved, err := scanProduct(row)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return nil, xerrors.ErrSKUAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return saved, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	return p, err
}

func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.SKU != "" {
		args = append(args, f.SKU)
		where = append(where, fmt.Sprintf("sku = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Brand != "" {
		args = append(args, f.Brand)
		where = append(where, fmt.Sprintf("brand = $%d", len(args)))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if f.LowStock {
		where = append(where, "quantity <= min_quantity")
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page, size := normalizePage(f.Page, f.Size)
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY id ASC LIMIT $%d OFFSET $%d`,
		productColumns, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, id int64, p *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, cost = $4, quantity = $5,
			min_quantity = $6, max_quantity = $7, is_active = $8, category = $9,
			brand = $10, weight = $11, dimensions = $12, customer_id = $13, updated_at = NOW()
		WHERE id = $14
		RETURNING ` + productColumns

	row := r.db.QueryRow(ctx, query,
		p.Name, nilIfEmpty(p.Description), p.Price, p.Cost, p.Quantity,
		p.MinQuantity, p.MaxQuantity, p.IsActive, nilIfEmpty(p.Category),
		nilIfEmpty(p.Brand), p.Weight, nilIfEmpty(p.Dimensions), nilIfEmpty(p.CustomerID), id,
	)
	saved, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	return saved, err
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) (*domain.Product, error) {
	query := `UPDATE products SET quantity = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query, quantity, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	return p, err
}

func (r *ProductRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE customer_id = $1 AND is_active = TRUE ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
