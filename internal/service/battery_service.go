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

type batteryStore interface {
	Create(ctx context.Context, battery *models.Battery) error
	GetByID(ctx context.Context, id string) (*models.Battery, error)
	List(ctx context.Context, filter models.BatteryFilter) ([]models.Battery, error)
	Update(ctx context.Context, battery *models.Battery) error
	Delete(ctx context.Context, id string) error
}

// BatteryService manages the battery catalog.
type BatteryService struct {
	repo      batteryStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatteryService constructs the service.
func NewBatteryService(repo batteryStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BatteryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BatteryService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns catalog batteries.
func (s *BatteryService) List(ctx context.Context, filter models.BatteryFilter) ([]models.Battery, error) {
	batteries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batteries")
	}
	return batteries, nil
}

// Get returns one battery.
func (s *BatteryService) Get(ctx context.Context, id string) (*models.Battery, error) {
	battery, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load battery")
	}
	return battery, nil
}

// Create adds a battery to the catalog.
func (s *BatteryService) Create(ctx context.Context, req dto.CreateBatteryRequest) (*models.Battery, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid battery payload")
	}
	battery := batteryFromRequest(req)
	if err := s.repo.Create(ctx, battery); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create battery")
	}
	s.invalidate(ctx)
	return battery, nil
}

// Update replaces a battery's mutable fields.
func (s *BatteryService) Update(ctx context.Context, id string, req dto.CreateBatteryRequest) (*models.Battery, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid battery payload")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load battery")
	}
	battery := batteryFromRequest(req)
	battery.ID = existing.ID
	battery.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, battery); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update battery")
	}
	s.invalidate(ctx)
	return battery, nil
}

// Delete removes a battery.
func (s *BatteryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete battery")
	}
	s.invalidate(ctx)
	return nil
}

func (s *BatteryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "featured:*"); err != nil {
		s.logger.Warn("failed to invalidate featured cache", zap.Error(err))
	}
}

func batteryFromRequest(req dto.CreateBatteryRequest) *models.Battery {
	battery := &models.Battery{
		Name:           req.Name,
		Capacity:       req.Capacity,
		Brand:          req.Brand,
		Price:          req.Price,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		InStock:        true,
		WarrantyYears:  req.WarrantyYears,
		RangeWithAC:    req.RangeWithAC,
		RangeWithoutAC: req.RangeWithoutAC,
	}
	if battery.Brand == "" {
		battery.Brand = "CATL"
	}
	if req.InStock != nil {
		battery.InStock = *req.InStock
	}
	if req.IsFeatured != nil {
		battery.IsFeatured = *req.IsFeatured
	}
	return battery
}
