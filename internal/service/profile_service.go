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

type profileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.CustomerProfile, error)
	List(ctx context.Context, limit, offset int) ([]models.CustomerProfile, error)
	Update(ctx context.Context, profile *models.CustomerProfile) error
}

// ProfileService manages customer contact profiles.
type ProfileService struct {
	repo      profileStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(repo profileStore, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{repo: repo, validator: validate, logger: logger}
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.CustomerProfile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// ListCustomers returns registered customer profiles. Admin only, enforced
// at routing.
func (s *ProfileService) ListCustomers(ctx context.Context, limit, offset int) ([]models.CustomerProfile, error) {
	profiles, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list customers")
	}
	return profiles, nil
}

// Update edits the caller's contact details.
func (s *ProfileService) Update(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.CustomerProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	profile.FullName = req.FullName
	profile.Phone = req.Phone
	profile.Address = req.Address
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return profile, nil
}
