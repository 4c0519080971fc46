package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltride-motors/dealership-api/internal/models"
)

// ProfileRepository manages persistence for customer contact profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, full_name, email, phone, address, created_at, updated_at`

// Create inserts a profile row for a newly registered customer.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.CustomerProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO customer_profiles
	(id, user_id, full_name, email, phone, address, created_at, updated_at)
	VALUES (:id, :user_id, :full_name, :email, :phone, :address, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetByUserID fetches the profile linked to a user account.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.CustomerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM customer_profiles WHERE user_id = $1`
	var profile models.CustomerProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserIDs fetches profiles for a batch of user accounts keyed by user id.
// Missing profiles are simply absent from the result.
func (r *ProfileRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.CustomerProfile, error) {
	if len(userIDs) == 0 {
		return map[string]models.CustomerProfile{}, nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + profileColumns + ` FROM customer_profiles WHERE user_id IN (` + strings.Join(placeholders, ",") + `)`
	var profiles []models.CustomerProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("batch profiles: %w", err)
	}
	byUser := make(map[string]models.CustomerProfile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

// List returns customer profiles newest first for the admin panel.
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]models.CustomerProfile, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + profileColumns + ` FROM customer_profiles ORDER BY created_at DESC` +
		fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	var profiles []models.CustomerProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Update edits the caller-owned contact fields.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.CustomerProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE customer_profiles SET
	full_name = :full_name, phone = :phone, address = :address, updated_at = :updated_at
	WHERE user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
