package repository

import (
	"context"
	"database/sql"
	"fmt"

	"diecast-store/internal/domain"

	"github.com/google/uuid"
)

// ReviewRepository defines access to product reviews. Create also refreshes
// the denormalized rating and review_count on the product row, inside the
// same transaction, so listing views never see the two drift apart.
type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Review, error)
	Create(ctx context.Context, review *domain.Review) error
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListByProduct retrieves all reviews for a product, newest first.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, author, rating, title, content, created_at
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var (
			review domain.Review
			title  sql.NullString
		)
		err := rows.Scan(
			&review.ID,
			&review.ProductID,
			&review.Author,
			&review.Rating,
			&title,
			&review.Content,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		review.Title = title.String
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// Create inserts a review and recomputes the product's rating and
// review_count from the review table.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO product_reviews (id, product_id, author, rating, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(
		ctx,
		insertQuery,
		review.ID,
		review.ProductID,
		review.Author,
		review.Rating,
		review.Title,
		review.Content,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	refreshQuery := `
		UPDATE products
		SET rating = (
				SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)
				FROM product_reviews
				WHERE product_id = $1
			),
			review_count = (
				SELECT COUNT(*)
				FROM product_reviews
				WHERE product_id = $1
			),
			updated_at = NOW()
		WHERE id = $1
	`

	if _, err = tx.ExecContext(ctx, refreshQuery, review.ProductID); err != nil {
		return fmt.Errorf("failed to refresh product rating: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review transaction: %w", err)
	}

	return nil
}
