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

// BatteryRepository manages persistence for the battery catalog.
type BatteryRepository struct {
	db *sqlx.DB
}

// NewBatteryRepository constructs a BatteryRepository.
func NewBatteryRepository(db *sqlx.DB) *BatteryRepository {
	return &BatteryRepository{db: db}
}

const batteryColumns = `id, name, capacity, brand, price, description, image_url, in_stock,
       warranty_years, range_with_ac, range_without_ac, is_featured, created_at`

// Create inserts a new battery row.
func (r *BatteryRepository) Create(ctx context.Context, battery *models.Battery) error {
	if battery.ID == "" {
		battery.ID = uuid.NewString()
	}
	if battery.CreatedAt.IsZero() {
		battery.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO batteries
	(id, name, capacity, brand, price, description, image_url, in_stock, warranty_years, range_with_ac, range_without_ac, is_featured, created_at)
	VALUES (:id, :name, :capacity, :brand, :price, :description, :image_url, :in_stock, :warranty_years, :range_with_ac, :range_without_ac, :is_featured, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, battery); err != nil {
		return fmt.Errorf("create battery: %w", err)
	}
	return nil
}

// GetByID fetches a battery by identifier.
func (r *BatteryRepository) GetByID(ctx context.Context, id string) (*models.Battery, error) {
	query := `SELECT ` + batteryColumns + ` FROM batteries WHERE id = $1`
	var battery models.Battery
	if err := r.db.GetContext(ctx, &battery, query, id); err != nil {
		return nil, err
	}
	return &battery, nil
}

// List returns batteries matching the filter, newest first.
func (r *BatteryRepository) List(ctx context.Context, filter models.BatteryFilter) ([]models.Battery, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT ` + batteryColumns + ` FROM batteries`)

	conditions := make([]string, 0, 2)
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

	var batteries []models.Battery
	if err := r.db.SelectContext(ctx, &batteries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list batteries: %w", err)
	}
	return batteries, nil
}

// Update replaces the mutable columns of a battery row.
func (r *BatteryRepository) Update(ctx context.Context, battery *models.Battery) error {
	const query = `UPDATE batteries SET
	name = :name, capacity = :capacity, brand = :brand, price = :price, description = :description,
	image_url = :image_url, in_stock = :in_stock, warranty_years = :warranty_years,
	range_with_ac = :range_with_ac, range_without_ac = :range_without_ac, is_featured = :is_featured
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, battery)
	if err != nil {
		return fmt.Errorf("update battery: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check battery update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a battery row.
func (r *BatteryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM batteries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete battery: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check battery delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
