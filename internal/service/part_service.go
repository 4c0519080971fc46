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

type partStore interface {
	Create(ctx context.Context, part *models.Part) error
	GetByID(ctx context.Context, id string) (*models.Part, error)
	List(ctx context.Context, filter models.PartFilter) ([]models.Part, error)
	Update(ctx context.Context, part *models.Part) error
	Delete(ctx context.Context, id string) error
}

// PartService manages the spare-part catalog.
type PartService struct {
	repo      partStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPartService constructs the service.
func NewPartService(repo partStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *PartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PartService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns catalog parts.
func (s *PartService) List(ctx context.Context, filter models.PartFilter) ([]models.Part, error) {
	parts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list parts")
	}
	return parts, nil
}

// Get returns one part.
func (s *PartService) Get(ctx context.Context, id string) (*models.Part, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load part")
	}
	return part, nil
}

// Create adds a part to the catalog.
func (s *PartService) Create(ctx context.Context, req dto.CreatePartRequest) (*models.Part, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid part payload")
	}
	part := partFromRequest(req)
	if err := s.repo.Create(ctx, part); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create part")
	}
	s.invalidate(ctx)
	return part, nil
}

// Update replaces a part's mutable fields.
func (s *PartService) Update(ctx context.Context, id string, req dto.CreatePartRequest) (*models.Part, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid part payload")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load part")
	}
	part := partFromRequest(req)
	part.ID = existing.ID
	part.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, part); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update part")
	}
	s.invalidate(ctx)
	return part, nil
}

// Delete removes a part.
func (s *PartService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete part")
	}
	s.invalidate(ctx)
	return nil
}

func (s *PartService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "featured:*"); err != nil {
		s.logger.Warn("failed to invalidate featured cache", zap.Error(err))
	}
}

func partFromRequest(req dto.CreatePartRequest) *models.Part {
	part := &models.Part{
		Name:             req.Name,
		Category:         req.Category,
		Price:            req.Price,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		InStock:          true,
		StockQuantity:    req.StockQuantity,
		CompatibleModels: req.CompatibleModels,
	}
	if req.InStock != nil {
		part.InStock = *req.InStock
	}
	if req.IsFeatured != nil {
		part.IsFeatured = *req.IsFeatured
	}
	return part
}
