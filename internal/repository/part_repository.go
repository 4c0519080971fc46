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

// PartRepository manages persistence for the spare-part catalog.
type PartRepository struct {
	db *sqlx.DB
}

// NewPartRepository constructs a PartRepository.
func NewPartRepository(db *sqlx.DB) *PartRepository {
	return &PartRepository{db: db}
}

const partColumns = `id, name, category, price, description, image_url, in_stock,
       stock_quantity, compatible_models, is_featured, created_at`

// Create inserts a new part row.
func (r *PartRepository) Create(ctx context.Context, part *models.Part) error {
	if part.ID == "" {
		part.ID = uuid.NewString()
	}
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO parts
	(id, name, category, price, description, image_url, in_stock, stock_quantity, compatible_models, is_featured, created_at)
	VALUES (:id, :name, :category, :price, :description, :image_url, :in_stock, :stock_quantity, :compatible_models, :is_featured, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, part); err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	return nil
}

// GetByID fetches a part by identifier.
func (r *PartRepository) GetByID(ctx context.Context, id string) (*models.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	var part models.Part
	if err := r.db.GetContext(ctx, &part, query, id); err != nil {
		return nil, err
	}
	return &part, nil
}

// List returns parts matching the filter, newest first.
func (r *PartRepository) List(ctx context.Context, filter models.PartFilter) ([]models.Part, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT ` + partColumns + ` FROM parts`)

	conditions := make([]string, 0, 3)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.InStock != nil {
		args = append(args, *filter.InStock)
		conditions = append(conditions, fmt.Sprintf("in_stock = $%d", len(args)))
	}
	if filter.IsFeatured != nil {
		args = append(args, *filter.IsFeatured)
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", len(args)))
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

	var parts []models.Part
	if err := r.db.SelectContext(ctx, &parts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	return parts, nil
}

// Update replaces the mutable columns of a part row.
func (r *PartRepository) Update(ctx context.Context, part *models.Part) error {
	const query = `UPDATE parts SET
	name = :name, category = :category, price = :price, description = :description,
	image_url = :image_url, in_stock = :in_stock, stock_quantity = :stock_quantity,
	compatible_models = :compatible_models, is_featured = :is_featured
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, part)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check part update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a part row.
func (r *PartRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check part delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
