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

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByKind(ctx context.Context, kind models.ReviewKind, limit, offset int) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
}

// ReviewService manages storefront testimonials.
type ReviewService struct {
	repo      reviewStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(repo reviewStore, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{repo: repo, validator: validate, logger: logger}
}

// ListByKind returns reviews for one storefront surface.
func (s *ReviewService) ListByKind(ctx context.Context, kind models.ReviewKind, limit, offset int) ([]models.Review, error) {
	if !models.ValidReviewKind(kind) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown review kind")
	}
	reviews, err := s.repo.ListByKind(ctx, kind, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// Create stores a new testimonial.
func (s *ReviewService) Create(ctx context.Context, req dto.CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	kind := models.ReviewKind(req.Kind)
	if !models.ValidReviewKind(kind) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown review kind")
	}
	review := &models.Review{
		Kind:             kind,
		CustomerName:     req.CustomerName,
		Rating:           req.Rating,
		ReviewText:       req.ReviewText,
		VerifiedPurchase: req.VerifiedPurchase,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, nil
}

// Delete removes a testimonial. Admin only, enforced at routing.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete review")
	}
	return nil
}
