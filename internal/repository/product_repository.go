package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"diecast-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidWindow   = errors.New("limit must be positive and offset non-negative")
)

// ListParams restricts and windows a product listing. Slugs are optional;
// an empty slug means no restriction on that axis.
type ListParams struct {
	CategorySlug string
	BrandSlug    string
	Limit        int
	Offset       int
}

// CountParams restricts a product count the same way ListParams restricts a
// listing, ignoring pagination.
type CountParams struct {
	CategorySlug string
	BrandSlug    string
}

// ProductRepository defines read access to denormalized product records.
// Every method is side-effect-free; the join against brands and categories
// happens once here at the store boundary, and callers treat the returned
// record as the immutable unit of work.
type ProductRepository interface {
	ListFeatured(ctx context.Context, limit int) ([]domain.Product, error)
	List(ctx context.Context, params ListParams) ([]domain.Product, error)
	Count(ctx context.Context, params CountParams) (int, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// productColumns is the denormalized select list shared by every product
// query: the product row followed by the full brand and category rows.
const productColumns = `
	p.id, p.name, p.slug, p.scale, p.price, p.original_price, p.description,
	p.stock_quantity, p.is_featured, p.is_new, p.rating, p.review_count,
	p.image_url, p.created_at, p.updated_at,
	b.id, b.name, b.slug, b.logo_url, b.description, b.created_at, b.updated_at,
	c.id, c.name, c.slug, c.description, c.image_url, c.parent_id, c.created_at, c.updated_at
`

const productJoins = `
	FROM products p
	JOIN brands b ON p.brand_id = b.id
	JOIN categories c ON p.category_id = c.id
`

// ListFeatured retrieves up to limit featured products, newest first.
func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return nil, ErrInvalidWindow
	}

	query := `SELECT ` + productColumns + productJoins + `
		WHERE p.is_featured = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// List retrieves a stable offset/limit window of products ordered by
// created_at descending, optionally restricted by category and brand slug.
func (r *productRepository) List(ctx context.Context, params ListParams) ([]domain.Product, error) {
	if params.Limit <= 0 || params.Offset < 0 {
		return nil, ErrInvalidWindow
	}

	whereClause, args := buildSlugFilter(params.CategorySlug, params.BrandSlug)
	argIndex := len(args) + 1

	query := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, productJoins, whereClause, argIndex, argIndex+1)

	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Count returns the number of products matching the same restriction as
// List, ignoring pagination.
func (r *productRepository) Count(ctx context.Context, params CountParams) (int, error) {
	whereClause, args := buildSlugFilter(params.CategorySlug, params.BrandSlug)

	query := fmt.Sprintf("SELECT COUNT(*) %s %s", productJoins, whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// FindBySlug retrieves exactly one denormalized product by its unique slug.
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + productJoins + ` WHERE p.slug = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	return product, nil
}

// buildSlugFilter assembles the optional WHERE clause shared by List and
// Count so both always agree on the matching set.
func buildSlugFilter(categorySlug, brandSlug string) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if categorySlug != "" {
		args = append(args, categorySlug)
		clauses = append(clauses, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if brandSlug != "" {
		args = append(args, brandSlug)
		clauses = append(clauses, fmt.Sprintf("b.slug = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}

	where := "WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct reads one denormalized product row in productColumns order.
func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product       domain.Product
		prDescription sql.NullString
		prImageURL    sql.NullString
		brLogoURL     sql.NullString
		brDescription sql.NullString
		catDesc       sql.NullString
		catImageURL   sql.NullString
		catParentID   uuid.NullUUID
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Scale,
		&product.Price,
		&product.OriginalPrice,
		&prDescription,
		&product.StockQuantity,
		&product.IsFeatured,
		&product.IsNew,
		&product.Rating,
		&product.ReviewCount,
		&prImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Brand.ID,
		&product.Brand.Name,
		&product.Brand.Slug,
		&brLogoURL,
		&brDescription,
		&product.Brand.CreatedAt,
		&product.Brand.UpdatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.Slug,
		&catDesc,
		&catImageURL,
		&catParentID,
		&product.Category.CreatedAt,
		&product.Category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Description = prDescription.String
	product.ImageURL = prImageURL.String
	product.Brand.LogoURL = brLogoURL.String
	product.Brand.Description = brDescription.String
	product.Category.Description = catDesc.String
	product.Category.ImageURL = catImageURL.String
	if catParentID.Valid {
		parentID := catParentID.UUID
		product.Category.ParentID = &parentID
	}

	return &product, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
