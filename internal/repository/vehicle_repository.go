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

// VehicleRepository manages persistence for inventory vehicles.
type VehicleRepository struct {
	db *sqlx.DB
}

// NewVehicleRepository constructs a VehicleRepository.
func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, make, model, year, battery_capacity, condition, mileage, price, color,
       description, features, images, image_url, available, is_featured, created_at, updated_at`

// Create inserts a new inventory vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = now
	}
	vehicle.UpdatedAt = now
	const query = `INSERT INTO vehicles
	(id, make, model, year, battery_capacity, condition, mileage, price, color, description, features, images, image_url, available, is_featured, created_at, updated_at)
	VALUES (:id, :make, :model, :year, :battery_capacity, :condition, :mileage, :price, :color, :description, :features, :images, :image_url, :available, :is_featured, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vehicle); err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

// GetByID fetches an inventory vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	var vehicle models.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// List returns vehicles matching the filter, newest first.
func (r *VehicleRepository) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT ` + vehicleColumns + ` FROM vehicles`)

	conditions := make([]string, 0, 3)
	if filter.Condition != "" {
		args = append(args, filter.Condition)
		conditions = append(conditions, fmt.Sprintf("condition = $%d", len(args)))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		conditions = append(conditions, fmt.Sprintf("available = $%d", len(args)))
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

	var vehicles []models.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// Update replaces the mutable columns of a vehicle row.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.UpdatedAt = time.Now().UTC()
	const query = `UPDATE vehicles SET
	make = :make, model = :model, year = :year, battery_capacity = :battery_capacity,
	condition = :condition, mileage = :mileage, price = :price, color = :color,
	description = :description, features = :features, images = :images, image_url = :image_url,
	available = :available, is_featured = :is_featured, updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, vehicle)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check vehicle update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a vehicle row.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check vehicle delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetFeatured toggles homepage promotion for a vehicle.
func (r *VehicleRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET is_featured = $2, updated_at = NOW() WHERE id = $1`, id, featured)
	if err != nil {
		return fmt.Errorf("set vehicle featured: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check vehicle featured rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListImagePaths returns every image URI referenced by inventory vehicles.
func (r *VehicleRepository) ListImagePaths(ctx context.Context) ([]string, error) {
	const query = `SELECT unnest(images) FROM vehicles
	UNION
	SELECT image_url FROM vehicles WHERE image_url IS NOT NULL`
	var paths []string
	if err := r.db.SelectContext(ctx, &paths, query); err != nil {
		return nil, fmt.Errorf("list vehicle image paths: %w", err)
	}
	return paths, nil
}
