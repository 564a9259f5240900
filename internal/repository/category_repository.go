package repository

import (
	"context"
	"database/sql"
	"fmt"

	"diecast-store/internal/domain"

	"github.com/google/uuid"
)

// CategoryRepository defines read access to the category reference data.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, slug, description, image_url, parent_id, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var (
			category    domain.Category
			description sql.NullString
			imageURL    sql.NullString
			parentID    uuid.NullUUID
		)
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&description,
			&imageURL,
			&parentID,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		category.Description = description.String
		category.ImageURL = imageURL.String
		if parentID.Valid {
			id := parentID.UUID
			category.ParentID = &id
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
