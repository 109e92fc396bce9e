package domain

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SKU         string    `json:"sku"`
	Price       float64   `json:"price"`
	Cost        *float64  `json:"cost,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	MaxQuantity *int      `json:"max_quantity,omitempty"`
	IsActive    bool      `json:"is_active"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Weight      *float64  `json:"weight,omitempty"`
	Dimensions  string    `json:"dimensions,omitempty"`
	CustomerID  string    `json:"customer_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the product has fallen to its reorder threshold.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Name       string
	SKU        string
	Category   string
	Brand      string
	CustomerID string
	IsActive   *bool
	LowStock   bool
	Page       int
	Size       int
}
