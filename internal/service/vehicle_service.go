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

type vehicleStore interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error
}

// VehicleService manages the vehicle inventory catalog.
type VehicleService struct {
	repo      vehicleStore
	audit     auditLogger
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVehicleService constructs the service.
func NewVehicleService(repo vehicleStore, audit auditLogger, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *VehicleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VehicleService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns storefront vehicles.
func (s *VehicleService) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	vehicles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vehicles")
	}
	return vehicles, nil
}

// Get returns one vehicle.
func (s *VehicleService) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}
	return vehicle, nil
}

// Create adds a vehicle directly to inventory.
func (s *VehicleService) Create(ctx context.Context, req dto.CreateVehicleRequest, actorID string) (*models.Vehicle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vehicle payload")
	}
	if !models.ValidCondition(models.VehicleCondition(req.Condition)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "condition must be Excellent, Good, or Fair")
	}
	vehicle := vehicleFromRequest(req)
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vehicle")
	}
	s.recordWrite(ctx, actorID, vehicle.ID, "created")
	s.invalidate(ctx)
	return vehicle, nil
}

// Update replaces a vehicle's mutable fields.
func (s *VehicleService) Update(ctx context.Context, id string, req dto.UpdateVehicleRequest, actorID string) (*models.Vehicle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vehicle payload")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicle")
	}
	vehicle := vehicleFromRequest(req)
	vehicle.ID = existing.ID
	vehicle.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, vehicle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vehicle")
	}
	s.recordWrite(ctx, actorID, vehicle.ID, "updated")
	s.invalidate(ctx)
	return vehicle, nil
}

// Delete removes a vehicle from inventory.
func (s *VehicleService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vehicle")
	}
	s.recordWrite(ctx, actorID, id, "deleted")
	s.invalidate(ctx)
	return nil
}

// SetFeatured toggles homepage promotion.
func (s *VehicleService) SetFeatured(ctx context.Context, id string, featured bool, actorID string) error {
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vehicle")
	}
	s.recordWrite(ctx, actorID, id, "featured")
	s.invalidate(ctx)
	return nil
}

func (s *VehicleService) recordWrite(ctx context.Context, actorID, vehicleID, action string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     models.AuditActionInventoryWrite,
		Resource:   "vehicle",
		ResourceID: &vehicleID,
		NewValues:  []byte(`{"change":"` + action + `"}`),
		IPAddress:  "system",
		UserAgent:  "vehicle-service",
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func (s *VehicleService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "featured:*"); err != nil {
		s.logger.Warn("failed to invalidate featured cache", zap.Error(err))
	}
}

func vehicleFromRequest(req dto.CreateVehicleRequest) *models.Vehicle {
	vehicle := &models.Vehicle{
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		BatteryCapacity: req.BatteryCapacity,
		Condition:       models.VehicleCondition(req.Condition),
		Mileage:         req.Mileage,
		Price:           req.Price,
		Color:           req.Color,
		Description:     req.Description,
		Features:        req.Features,
		Images:          req.Images,
		ImageURL:        req.ImageURL,
		Available:       true,
	}
	if req.Available != nil {
		vehicle.Available = *req.Available
	}
	if req.IsFeatured != nil {
		vehicle.IsFeatured = *req.IsFeatured
	}
	if vehicle.ImageURL == nil && len(vehicle.Images) > 0 {
		primary := vehicle.Images[0]
		vehicle.ImageURL = &primary
	}
	return vehicle
}
