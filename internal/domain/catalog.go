package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Brand represents a diecast manufacturer (AUTOart, Minichamps, ...)
type Brand struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	LogoURL     string    `json:"logo_url,omitempty" db:"logo_url"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Category represents a product category. Categories form a tree through
// ParentID; the catalog never walks the tree, so cycles are not checked.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description,omitempty" db:"description"`
	ImageURL    string     `json:"image_url,omitempty" db:"image_url"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Product is the denormalized product record the rest of the application
// works with: the full brand and category rows are embedded, not referenced.
type Product struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	Name          string              `json:"name" db:"name"`
	Slug          string              `json:"slug" db:"slug"`
	Scale         string              `json:"scale" db:"scale"`
	Price         decimal.Decimal     `json:"price" db:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price,omitempty" db:"original_price"`
	Description   string              `json:"description,omitempty" db:"description"`
	StockQuantity int                 `json:"stock_quantity" db:"stock_quantity"`
	IsFeatured    bool                `json:"is_featured" db:"is_featured"`
	IsNew         bool                `json:"is_new" db:"is_new"`
	Rating        decimal.Decimal     `json:"rating" db:"rating"`
	ReviewCount   int                 `json:"review_count" db:"review_count"`
	ImageURL      string              `json:"image_url,omitempty" db:"image_url"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`

	Brand    Brand    `json:"brand"`
	Category Category `json:"category"`
}

// Discounted reports whether the product carries a real discount. A present
// original price that is not strictly greater than the current price is not
// a discount; every view must go through this single rule.
func (p *Product) Discounted() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

// DiscountPercent returns the rounded percentage off, or 0 when the product
// is not discounted.
func (p *Product) DiscountPercent() int {
	if !p.Discounted() || p.OriginalPrice.Decimal.IsZero() {
		return 0
	}

	off := decimal.NewFromInt(1).
		Sub(p.Price.Div(p.OriginalPrice.Decimal)).
		Mul(decimal.NewFromInt(100))

	return int(off.Round(0).IntPart())
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Review represents a customer review attached to a product.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Author    string    `json:"author" db:"author"`
	Rating    int       `json:"rating" db:"rating"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
