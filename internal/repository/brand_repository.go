package repository

import (
	"context"
	"database/sql"
	"fmt"

	"diecast-store/internal/domain"
)

// BrandRepository defines read access to the brand reference data.
type BrandRepository interface {
	List(ctx context.Context) ([]domain.Brand, error)
}

type brandRepository struct {
	db *sql.DB
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

// List retrieves all brands ordered by name
func (r *brandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	query := `
		SELECT id, name, slug, logo_url, description, created_at, updated_at
		FROM brands
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var (
			brand       domain.Brand
			logoURL     sql.NullString
			description sql.NullString
		)
		err := rows.Scan(
			&brand.ID,
			&brand.Name,
			&brand.Slug,
			&logoURL,
			&description,
			&brand.CreatedAt,
			&brand.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brand.LogoURL = logoURL.String
		brand.Description = description.String
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}
