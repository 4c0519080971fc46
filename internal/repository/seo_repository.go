package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltride-motors/dealership-api/internal/models"
)

// SEORepository manages persistence for per-page SEO settings.
type SEORepository struct {
	db *sqlx.DB
}

// NewSEORepository constructs a SEORepository.
func NewSEORepository(db *sqlx.DB) *SEORepository {
	return &SEORepository{db: db}
}

// GetByPageType fetches settings for one page.
func (r *SEORepository) GetByPageType(ctx context.Context, pageType string) (*models.SEOSettings, error) {
	const query = `SELECT id, page_type, meta_title, meta_description, meta_keywords, og_title, og_description, updated_at
	FROM seo_settings WHERE page_type = $1`
	var settings models.SEOSettings
	if err := r.db.GetContext(ctx, &settings, query, pageType); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ListAll returns every configured page.
func (r *SEORepository) ListAll(ctx context.Context) ([]models.SEOSettings, error) {
	const query = `SELECT id, page_type, meta_title, meta_description, meta_keywords, og_title, og_description, updated_at
	FROM seo_settings ORDER BY page_type`
	var settings []models.SEOSettings
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("list seo settings: %w", err)
	}
	return settings, nil
}

// Upsert writes settings keyed by page_type.
func (r *SEORepository) Upsert(ctx context.Context, settings *models.SEOSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO seo_settings
	(id, page_type, meta_title, meta_description, meta_keywords, og_title, og_description, updated_at)
	VALUES (:id, :page_type, :meta_title, :meta_description, :meta_keywords, :og_title, :og_description, :updated_at)
	ON CONFLICT (page_type) DO UPDATE SET
	meta_title = EXCLUDED.meta_title, meta_description = EXCLUDED.meta_description,
	meta_keywords = EXCLUDED.meta_keywords, og_title = EXCLUDED.og_title,
	og_description = EXCLUDED.og_description, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert seo settings: %w", err)
	}
	return nil
}
