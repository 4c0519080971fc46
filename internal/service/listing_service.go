package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	"github.com/voltride-motors/dealership-api/internal/repository"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type listingStore interface {
	Create(ctx context.Context, listing *models.VehicleListing) error
	GetByID(ctx context.Context, id string) (*models.VehicleListing, error)
	List(ctx context.Context, filter models.ListingFilter) ([]models.VehicleListing, error)
	UpdateStatus(ctx context.Context, params repository.UpdateReviewParams) error
	Delete(ctx context.Context, id string) error
}

type inventoryWriter interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id string) error
}

type profileResolver interface {
	GetByUserID(ctx context.Context, userID string) (*models.CustomerProfile, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.CustomerProfile, error)
}

type listingImageStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
	PublicURL(filename string) string
	PathFromPublicURL(url string) (string, bool)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ListingUpload carries one photo's metadata and stream reader.
type ListingUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// ListingServiceConfig holds validation parameters for submissions.
type ListingServiceConfig struct {
	MaxImages      int
	MaxImageBytes  int64
	ThumbnailWidth int
}

// ListingService manages the customer submission and moderation workflow.
type ListingService struct {
	repo      listingStore
	inventory inventoryWriter
	profiles  profileResolver
	storage   listingImageStorage
	audit     auditLogger
	cache     cacheInvalidator
	logger    *zap.Logger
	cfg       ListingServiceConfig
}

// NewListingService constructs the service with defaults.
func NewListingService(repo listingStore, inventory inventoryWriter, profiles profileResolver, storage listingImageStorage, audit auditLogger, cache cacheInvalidator, logger *zap.Logger, cfg ListingServiceConfig) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = models.MaxListingImages
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 5 * 1024 * 1024
	}
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = 480
	}
	return &ListingService{
		repo:      repo,
		inventory: inventory,
		profiles:  profiles,
		storage:   storage,
		audit:     audit,
		cache:     cache,
		logger:    logger,
		cfg:       cfg,
	}
}

// Submit validates a customer's vehicle submission, stores its photos, and
// queues the listing for moderation. All field and photo validation happens
// before any byte is written to storage.
func (s *ListingService) Submit(ctx context.Context, req dto.CreateListingRequest, uploads []ListingUpload, actor *models.JWTClaims) (*models.VehicleListing, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validateSubmission(req); err != nil {
		return nil, err
	}
	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	imageURLs := make([]string, 0, len(uploads))
	storedPaths := make([]string, 0, len(uploads)+1)
	for i, upload := range uploads {
		if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
			s.discardStored(storedPaths)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
		}
		filename := s.generateFilename(i, upload.Filename)
		path, err := s.storage.SaveStream(filename, upload.Content)
		if err != nil {
			s.discardStored(storedPaths)
			return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to store listing photo")
		}
		storedPaths = append(storedPaths, path)
		imageURLs = append(imageURLs, s.storage.PublicURL(path))
	}

	var thumbnailURL *string
	if len(uploads) > 0 {
		if url, err := s.makeThumbnail(uploads[0], storedPaths[0]); err != nil {
			s.logger.Warn("failed to generate listing thumbnail", zap.Error(err))
		} else {
			thumbnailURL = &url
		}
	}

	listing := &models.VehicleListing{
		UserID:          actor.UserID,
		Make:            strings.TrimSpace(req.Make),
		Model:           strings.TrimSpace(req.Model),
		Year:            req.Year,
		BatteryCapacity: strings.TrimSpace(req.BatteryCapacity),
		Condition:       models.VehicleCondition(req.Condition),
		Mileage:         req.Mileage,
		Price:           req.Price,
		Color:           optionalString(req.Color),
		Description:     optionalString(req.Description),
		Features:        req.Features,
		Images:          imageURLs,
		ThumbnailURL:    thumbnailURL,
		Status:          models.ListingStatusPending,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		s.discardStored(storedPaths)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create listing")
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionListingSubmit,
		Resource:   "listing",
		ResourceID: &listing.ID,
		NewValues:  []byte(fmt.Sprintf(`{"make":%q,"model":%q,"year":%d}`, listing.Make, listing.Model, listing.Year)),
	})
	return listing, nil
}

// List returns listings for the moderation queue or the caller's own
// submissions. Admins see everything; customers only their own rows.
// Submitter profiles are attached best effort: a failed profile lookup never
// fails the listing query.
func (s *ListingService) List(ctx context.Context, query dto.ListingQuery, actor *models.JWTClaims) ([]models.VehicleListing, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.ListingFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Status != "" {
		status := models.ListingStatus(strings.ToLower(query.Status))
		switch status {
		case models.ListingStatusPending, models.ListingStatusApproved, models.ListingStatusRejected:
			filter.Status = []models.ListingStatus{status}
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown listing status")
		}
	}
	if actor.Role != models.RoleAdmin {
		filter.UserID = actor.UserID
	}
	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listings")
	}
	if actor.Role == models.RoleAdmin {
		s.attachProfiles(ctx, listings)
	}
	return listings, nil
}

// Get returns a single listing enforcing ownership for customers.
func (s *ListingService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.VehicleListing, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}
	if actor.Role != models.RoleAdmin && listing.UserID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	if actor.Role == models.RoleAdmin {
		if profile, err := s.profiles.GetByUserID(ctx, listing.UserID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("failed to load submitter profile", zap.String("listing_id", listing.ID), zap.Error(err))
			}
		} else {
			listing.Profile = profile
		}
	}
	return listing, nil
}

// Approve publishes a pending listing into the vehicle inventory. The listing
// is flipped approved only while still pending; losing that race removes the
// just-created inventory record again and reports a conflict.
func (s *ListingService) Approve(ctx context.Context, id string, reviewerID string) (*dto.ApproveListingResponse, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}
	if listing.Status != models.ListingStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "listing already reviewed")
	}

	vehicle := vehicleFromListing(listing)
	if err := s.inventory.Create(ctx, vehicle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inventory record")
	}

	now := time.Now().UTC()
	err = s.repo.UpdateStatus(ctx, repository.UpdateReviewParams{
		ID:         listing.ID,
		Status:     models.ListingStatusApproved,
		ReviewedBy: reviewerID,
		ReviewedAt: now,
	})
	if err != nil {
		if deleteErr := s.inventory.Delete(ctx, vehicle.ID); deleteErr != nil {
			s.logger.Error("failed to remove inventory record after lost review race",
				zap.String("vehicle_id", vehicle.ID), zap.Error(deleteErr))
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "listing already reviewed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update listing status")
	}

	listing.Status = models.ListingStatusApproved
	listing.ReviewedBy = &reviewerID
	listing.ReviewedAt = &now

	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &reviewerID,
		Action:     models.AuditActionListingApprove,
		Resource:   "listing",
		ResourceID: &listing.ID,
		NewValues:  []byte(fmt.Sprintf(`{"vehicle_id":%q}`, vehicle.ID)),
	})
	s.invalidateFeatured(ctx)

	return &dto.ApproveListingResponse{Listing: listing, Vehicle: vehicle}, nil
}

// Reject declines a pending listing. Moderator notes are optional and
// recorded verbatim when given.
func (s *ListingService) Reject(ctx context.Context, id string, req dto.RejectListingRequest, reviewerID string) (*models.VehicleListing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}
	if listing.Status != models.ListingStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "listing already reviewed")
	}

	now := time.Now().UTC()
	params := repository.UpdateReviewParams{
		ID:         listing.ID,
		Status:     models.ListingStatusRejected,
		ReviewedBy: reviewerID,
		ReviewedAt: now,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		params.AdminNotes = &notes
	}
	if err := s.repo.UpdateStatus(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "listing already reviewed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update listing status")
	}

	listing.Status = models.ListingStatusRejected
	listing.AdminNotes = params.AdminNotes
	listing.ReviewedBy = &reviewerID
	listing.ReviewedAt = &now

	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &reviewerID,
		Action:     models.AuditActionListingReject,
		Resource:   "listing",
		ResourceID: &listing.ID,
		NewValues:  []byte(fmt.Sprintf(`{"notes":%q}`, req.Notes)),
	})
	return listing, nil
}

// Delete removes a listing and its stored photos. Admin only.
func (s *ListingService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin {
		return appErrors.ErrForbidden
	}
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete listing")
	}

	urls := append([]string{}, listing.Images...)
	if listing.ThumbnailURL != nil {
		urls = append(urls, *listing.ThumbnailURL)
	}
	for _, url := range urls {
		if path, ok := s.storage.PathFromPublicURL(url); ok {
			if err := s.storage.Delete(path); err != nil {
				s.logger.Warn("failed to delete listing photo", zap.String("path", path), zap.Error(err))
			}
		}
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionListingDelete,
		Resource:   "listing",
		ResourceID: &id,
	})
	return nil
}

func (s *ListingService) validateSubmission(req dto.CreateListingRequest) error {
	if strings.TrimSpace(req.Make) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "make is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "model is required")
	}
	maxYear := time.Now().Year() + 1
	if req.Year < 2008 || req.Year > maxYear {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("year must be between 2008 and %d", maxYear))
	}
	if strings.TrimSpace(req.BatteryCapacity) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "battery capacity is required")
	}
	if !models.ValidCondition(models.VehicleCondition(req.Condition)) {
		return appErrors.Clone(appErrors.ErrValidation, "condition must be Excellent, Good, or Fair")
	}
	if req.Mileage < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "mileage cannot be negative")
	}
	if req.Price < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "price cannot be negative")
	}
	return nil
}

func (s *ListingService) validateUploads(uploads []ListingUpload) error {
	if len(uploads) > s.cfg.MaxImages {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d photos are allowed", s.cfg.MaxImages))
	}
	for _, upload := range uploads {
		if upload.Content == nil || upload.Size <= 0 {
			return appErrors.Clone(appErrors.ErrValidation, "empty photo upload")
		}
		if upload.Size > s.cfg.MaxImageBytes {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("photo %s exceeds %d bytes limit", upload.Filename, s.cfg.MaxImageBytes))
		}
		mimeType, err := sniffMime(upload.Content)
		if err != nil {
			return err
		}
		switch mimeType {
		case "image/jpeg", "image/png", "image/webp":
		default:
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("photo %s is not a supported image type", upload.Filename))
		}
	}
	return nil
}

func (s *ListingService) makeThumbnail(upload ListingUpload, storedPath string) (string, error) {
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	img, err := imaging.Decode(upload.Content)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", storedPath, err)
	}
	thumb := imaging.Resize(img, s.cfg.ThumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	ext := filepath.Ext(storedPath)
	thumbPath := strings.TrimSuffix(storedPath, ext) + "_thumb.jpg"
	if _, err := s.storage.Save(thumbPath, buf.Bytes()); err != nil {
		return "", err
	}
	return s.storage.PublicURL(thumbPath), nil
}

func (s *ListingService) attachProfiles(ctx context.Context, listings []models.VehicleListing) {
	if len(listings) == 0 {
		return
	}
	userIDs := make([]string, 0, len(listings))
	seen := make(map[string]struct{}, len(listings))
	for _, listing := range listings {
		if _, ok := seen[listing.UserID]; ok {
			continue
		}
		seen[listing.UserID] = struct{}{}
		userIDs = append(userIDs, listing.UserID)
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, userIDs)
	if err != nil {
		s.logger.Warn("failed to load submitter profiles", zap.Error(err))
		return
	}
	for i := range listings {
		if profile, ok := profiles[listings[i].UserID]; ok {
			p := profile
			listings[i].Profile = &p
		}
	}
}

func (s *ListingService) discardStored(paths []string) {
	for _, path := range paths {
		if err := s.storage.Delete(path); err != nil {
			s.logger.Warn("failed to remove stored photo", zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *ListingService) generateFilename(index int, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("listings/listing_%d_%d_%s%s", time.Now().Unix(), index, randomSuffix(), ext)
}

func (s *ListingService) invalidateFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "featured:*"); err != nil {
		s.logger.Warn("failed to invalidate featured cache", zap.Error(err))
	}
}

func (s *ListingService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "listing-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func vehicleFromListing(listing *models.VehicleListing) *models.Vehicle {
	vehicle := &models.Vehicle{
		Make:            listing.Make,
		Model:           listing.Model,
		Year:            listing.Year,
		BatteryCapacity: listing.BatteryCapacity,
		Condition:       listing.Condition,
		Mileage:         listing.Mileage,
		Price:           listing.Price,
		Color:           listing.Color,
		Description:     listing.Description,
		Features:        listing.Features,
		Images:          listing.Images,
		Available:       true,
		IsFeatured:      false,
	}
	if len(listing.Images) > 0 {
		primary := listing.Images[0]
		vehicle.ImageURL = &primary
	}
	return vehicle
}

func sniffMime(content io.ReadSeeker) (string, error) {
	header := make([]byte, 512)
	n, err := content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect photo")
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty photo upload")
	}
	return http.DetectContentType(header[:n]), nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
