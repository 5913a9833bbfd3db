package domain

import "time"

// Product represents a catalog product. Prices are stored in cents.
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	PictureURL  string       `json:"picture_url,omitempty"`
	Stock       int          `json:"stock"`
	BrandID     int64        `json:"brand_id"`
	TypeID      int64        `json:"type_id"`
	Brand       *Brand       `json:"brand,omitempty"`
	Type        *ProductType `json:"type,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Brand represents a product brand.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductType represents a product category.
type ProductType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DeliveryMethod represents a shipping option with a fixed price in cents.
type DeliveryMethod struct {
	ID           int64  `json:"id"`
	ShortName    string `json:"short_name"`
	DeliveryTime string `json:"delivery_time"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
}

// InStock reports whether the product can satisfy the requested quantity.
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}
