package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type seoStore interface {
	GetByPageType(ctx context.Context, pageType string) (*models.SEOSettings, error)
	ListAll(ctx context.Context) ([]models.SEOSettings, error)
	Upsert(ctx context.Context, settings *models.SEOSettings) error
}

// SEOService manages per-page meta tags.
type SEOService struct {
	repo      seoStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSEOService constructs the service.
func NewSEOService(repo seoStore, validate *validator.Validate, logger *zap.Logger) *SEOService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SEOService{repo: repo, validator: validate, logger: logger}
}

// Get returns settings for one page.
func (s *SEOService) Get(ctx context.Context, pageType string) (*models.SEOSettings, error) {
	settings, err := s.repo.GetByPageType(ctx, pageType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seo settings")
	}
	return settings, nil
}

// ListAll returns every configured page.
func (s *SEOService) ListAll(ctx context.Context) ([]models.SEOSettings, error) {
	settings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seo settings")
	}
	return settings, nil
}

// Upsert writes settings keyed by page type.
func (s *SEOService) Upsert(ctx context.Context, req dto.UpsertSEORequest) (*models.SEOSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seo payload")
	}
	settings := &models.SEOSettings{
		PageType:        req.PageType,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		OGTitle:         req.OGTitle,
		OGDescription:   req.OGDescription,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save seo settings")
	}
	return settings, nil
}
