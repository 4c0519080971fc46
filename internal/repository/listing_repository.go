package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltride-motors/dealership-api/internal/models"
)

// ListingRepository persists customer vehicle listings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository constructs the repository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, user_id, make, model, year, battery_capacity, condition, mileage, price,
       color, description, features, images, thumbnail_url, status, admin_notes, reviewed_by, reviewed_at,
       created_at, updated_at`

// Create inserts a new listing row.
func (r *ListingRepository) Create(ctx context.Context, listing *models.VehicleListing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.Status == "" {
		listing.Status = models.ListingStatusPending
	}
	now := time.Now().UTC()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now
	const query = `INSERT INTO vehicle_listings
	(id, user_id, make, model, year, battery_capacity, condition, mileage, price, color, description, features, images, thumbnail_url, status, admin_notes, reviewed_by, reviewed_at, created_at, updated_at)
	VALUES (:id, :user_id, :make, :model, :year, :battery_capacity, :condition, :mileage, :price, :color, :description, :features, :images, :thumbnail_url, :status, :admin_notes, :reviewed_by, :reviewed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, listing); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// GetByID fetches a listing by identifier.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.VehicleListing, error) {
	query := `SELECT ` + listingColumns + ` FROM vehicle_listings WHERE id = $1`
	var listing models.VehicleListing
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns listings matching the filter (newest first).
func (r *ListingRepository) List(ctx context.Context, filter models.ListingFilter) ([]models.VehicleListing, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + listingColumns + ` FROM vehicle_listings`)

	conditions := make([]string, 0, 2)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var listings []models.VehicleListing
	if err := r.db.SelectContext(ctx, &listings, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// UpdateReviewParams groups mutable columns for moderation decisions.
type UpdateReviewParams struct {
	ID         string
	Status     models.ListingStatus
	ReviewedBy string
	ReviewedAt time.Time
	AdminNotes *string
}

// UpdateStatus persists a moderation decision. The update only applies while
// the listing is still pending; a zero row count surfaces as sql.ErrNoRows so
// callers can detect a lost review race.
func (r *ListingRepository) UpdateStatus(ctx context.Context, params UpdateReviewParams) error {
	setParts := []string{
		"status = :status",
		"reviewed_by = :reviewed_by",
		"reviewed_at = :reviewed_at",
		"updated_at = :reviewed_at",
	}
	if params.AdminNotes != nil {
		setParts = append(setParts, "admin_notes = :admin_notes")
	}
	query := fmt.Sprintf("UPDATE vehicle_listings SET %s WHERE id = :id AND status = '%s'",
		strings.Join(setParts, ", "),
		models.ListingStatusPending,
	)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":          params.ID,
		"status":      params.Status,
		"reviewed_by": params.ReviewedBy,
		"reviewed_at": params.ReviewedAt,
		"admin_notes": params.AdminNotes,
	})
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check listing update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a listing row.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicle_listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check listing delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListImagePaths returns every image and thumbnail URI referenced by listings.
// The storage sweeper uses this to keep orphan detection honest.
func (r *ListingRepository) ListImagePaths(ctx context.Context) ([]string, error) {
	const query = `SELECT unnest(images) FROM vehicle_listings
	UNION
	SELECT thumbnail_url FROM vehicle_listings WHERE thumbnail_url IS NOT NULL`
	var paths []string
	if err := r.db.SelectContext(ctx, &paths, query); err != nil {
		return nil, fmt.Errorf("list listing image paths: %w", err)
	}
	return paths, nil
}
