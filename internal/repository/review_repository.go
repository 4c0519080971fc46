package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltride-motors/dealership-api/internal/models"
)

// ReviewRepository manages persistence for storefront reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, kind, customer_name, rating, review_text, review_date, verified_purchase, created_at`

// Create inserts a new review row.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if review.ReviewDate.IsZero() {
		review.ReviewDate = now
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	const query = `INSERT INTO reviews
	(id, kind, customer_name, rating, review_text, review_date, verified_purchase, created_at)
	VALUES (:id, :kind, :customer_name, :rating, :review_text, :review_date, :verified_purchase, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByKind returns reviews for one storefront surface, newest first.
func (r *ReviewRepository) ListByKind(ctx context.Context, kind models.ReviewKind, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE kind = $1 ORDER BY review_date DESC LIMIT %d OFFSET %d`,
		reviewColumns, limit, offset)
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, kind); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a review row.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check review delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
