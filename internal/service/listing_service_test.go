package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	"github.com/voltride-motors/dealership-api/internal/repository"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type listingRepoStub struct {
	listings map[string]*models.VehicleListing
	failCAS  bool
}

func newListingRepoStub() *listingRepoStub {
	return &listingRepoStub{listings: make(map[string]*models.VehicleListing)}
}

func (m *listingRepoStub) Create(ctx context.Context, listing *models.VehicleListing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.Status == "" {
		listing.Status = models.ListingStatusPending
	}
	m.listings[listing.ID] = listing
	return nil
}

func (m *listingRepoStub) GetByID(ctx context.Context, id string) (*models.VehicleListing, error) {
	if l, ok := m.listings[id]; ok {
		copy := *l
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *listingRepoStub) List(ctx context.Context, filter models.ListingFilter) ([]models.VehicleListing, error) {
	result := make([]models.VehicleListing, 0, len(m.listings))
	for _, l := range m.listings {
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if len(filter.Status) > 0 && l.Status != filter.Status[0] {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *listingRepoStub) UpdateStatus(ctx context.Context, params repository.UpdateReviewParams) error {
	l, ok := m.listings[params.ID]
	if !ok || m.failCAS || l.Status != models.ListingStatusPending {
		return sql.ErrNoRows
	}
	l.Status = params.Status
	l.ReviewedBy = &params.ReviewedBy
	l.ReviewedAt = &params.ReviewedAt
	if params.AdminNotes != nil {
		l.AdminNotes = params.AdminNotes
	}
	return nil
}

func (m *listingRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := m.listings[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.listings, id)
	return nil
}

type inventoryStub struct {
	created []*models.Vehicle
	deleted []string
}

func (m *inventoryStub) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = uuid.NewString()
	}
	m.created = append(m.created, vehicle)
	return nil
}

func (m *inventoryStub) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type profileStub struct {
	profiles map[string]models.CustomerProfile
}

func (m *profileStub) GetByUserID(ctx context.Context, userID string) (*models.CustomerProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *profileStub) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.CustomerProfile, error) {
	result := make(map[string]models.CustomerProfile)
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

type storageStub struct {
	files   map[string][]byte
	deleted []string
	failAt  int
	saves   int
}

func newStorageStub() *storageStub {
	return &storageStub{files: make(map[string][]byte), failAt: -1}
}

func (m *storageStub) SaveStream(filename string, r io.Reader) (string, error) {
	if m.failAt >= 0 && m.saves == m.failAt {
		return "", errors.New("disk full")
	}
	m.saves++
	data, _ := io.ReadAll(r)
	m.files[filename] = data
	return filename, nil
}

func (m *storageStub) Save(filename string, data []byte) (string, error) {
	m.files[filename] = data
	return filename, nil
}

func (m *storageStub) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	delete(m.files, filename)
	return nil
}

func (m *storageStub) PublicURL(filename string) string {
	return "/static/" + filename
}

func (m *storageStub) PathFromPublicURL(url string) (string, bool) {
	if strings.HasPrefix(url, "/static/") {
		return strings.TrimPrefix(url, "/static/"), true
	}
	return "", false
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type invalidatorStub struct {
	patterns []string
}

func (m *invalidatorStub) Invalidate(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func pngUpload(t *testing.T, name string) ListingUpload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return ListingUpload{
		Filename: name,
		Size:     int64(buf.Len()),
		Content:  bytes.NewReader(buf.Bytes()),
	}
}

func validListingRequest() dto.CreateListingRequest {
	return dto.CreateListingRequest{
		Make:            "Tata",
		Model:           "Nexon EV",
		Year:            2022,
		BatteryCapacity: "40.5 kWh",
		Condition:       "Good",
		Mileage:         18000,
		Price:           1150000,
		Features:        []string{"Fast charging"},
	}
}

func customerClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleCustomer}
}

func newTestListingService(repo *listingRepoStub, inventory *inventoryStub, storage *storageStub, cache *invalidatorStub) *ListingService {
	return NewListingService(repo, inventory, &profileStub{profiles: map[string]models.CustomerProfile{}}, storage, &auditStub{}, cache, nil, ListingServiceConfig{})
}

func TestListingServiceSubmit(t *testing.T) {
	repo := newListingRepoStub()
	storage := newStorageStub()
	svc := newTestListingService(repo, &inventoryStub{}, storage, &invalidatorStub{})

	listing, err := svc.Submit(context.Background(), validListingRequest(), []ListingUpload{pngUpload(t, "front.png")}, customerClaims("user-1"))
	require.NoError(t, err)
	require.Equal(t, models.ListingStatusPending, listing.Status)
	require.Equal(t, "user-1", listing.UserID)
	require.Len(t, listing.Images, 1)
	require.NotNil(t, listing.ThumbnailURL)
}

func TestListingServiceSubmitWithoutPhotos(t *testing.T) {
	repo := newListingRepoStub()
	storage := newStorageStub()
	svc := newTestListingService(repo, &inventoryStub{}, storage, &invalidatorStub{})

	req := validListingRequest()
	req.Price = 0
	listing, err := svc.Submit(context.Background(), req, nil, customerClaims("user-1"))
	require.NoError(t, err)
	require.Equal(t, models.ListingStatusPending, listing.Status)
	require.Empty(t, listing.Images)
	require.Nil(t, listing.ThumbnailURL)
	require.Zero(t, storage.saves)
}

func TestListingServiceSubmitRejectsTooManyImages(t *testing.T) {
	repo := newListingRepoStub()
	storage := newStorageStub()
	svc := newTestListingService(repo, &inventoryStub{}, storage, &invalidatorStub{})

	uploads := make([]ListingUpload, 0, models.MaxListingImages+1)
	for i := 0; i <= models.MaxListingImages; i++ {
		uploads = append(uploads, pngUpload(t, "photo.png"))
	}
	_, err := svc.Submit(context.Background(), validListingRequest(), uploads, customerClaims("user-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Zero(t, storage.saves)
	require.Empty(t, repo.listings)
}

func TestListingServiceSubmitRejectsBadFields(t *testing.T) {
	svc := newTestListingService(newListingRepoStub(), &inventoryStub{}, newStorageStub(), &invalidatorStub{})
	uploads := []ListingUpload{pngUpload(t, "photo.png")}

	cases := map[string]func(*dto.CreateListingRequest){
		"future year":    func(r *dto.CreateListingRequest) { r.Year = 2100 },
		"too old":        func(r *dto.CreateListingRequest) { r.Year = 2000 },
		"negative miles": func(r *dto.CreateListingRequest) { r.Mileage = -1 },
		"negative price": func(r *dto.CreateListingRequest) { r.Price = -1 },
		"bad condition":  func(r *dto.CreateListingRequest) { r.Condition = "Mint" },
		"missing make":   func(r *dto.CreateListingRequest) { r.Make = " " },
	}
	for name, mutate := range cases {
		req := validListingRequest()
		mutate(&req)
		_, err := svc.Submit(context.Background(), req, uploads, customerClaims("user-1"))
		require.Error(t, err, name)
		require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code, name)
	}
}

func TestListingServiceSubmitRejectsOversizedImage(t *testing.T) {
	svc := newTestListingService(newListingRepoStub(), &inventoryStub{}, newStorageStub(), &invalidatorStub{})
	upload := pngUpload(t, "big.png")
	upload.Size = 6 * 1024 * 1024
	_, err := svc.Submit(context.Background(), validListingRequest(), []ListingUpload{upload}, customerClaims("user-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListingServiceSubmitRejectsNonImage(t *testing.T) {
	svc := newTestListingService(newListingRepoStub(), &inventoryStub{}, newStorageStub(), &invalidatorStub{})
	payload := []byte("%PDF-1.4 not a photo")
	upload := ListingUpload{Filename: "doc.pdf", Size: int64(len(payload)), Content: bytes.NewReader(payload)}
	_, err := svc.Submit(context.Background(), validListingRequest(), []ListingUpload{upload}, customerClaims("user-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListingServiceSubmitCleansUpOnStorageFailure(t *testing.T) {
	repo := newListingRepoStub()
	storage := newStorageStub()
	storage.failAt = 1
	svc := newTestListingService(repo, &inventoryStub{}, storage, &invalidatorStub{})

	uploads := []ListingUpload{pngUpload(t, "one.png"), pngUpload(t, "two.png")}
	_, err := svc.Submit(context.Background(), validListingRequest(), uploads, customerClaims("user-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUploadFailed.Code, appErrors.FromError(err).Code)
	require.Len(t, storage.deleted, 1)
	require.Empty(t, repo.listings)
}

func TestListingServiceApprove(t *testing.T) {
	repo := newListingRepoStub()
	inventory := &inventoryStub{}
	cache := &invalidatorStub{}
	svc := newTestListingService(repo, inventory, newStorageStub(), cache)

	listing := &models.VehicleListing{
		ID:              "listing-1",
		UserID:          "user-1",
		Make:            "MG",
		Model:           "ZS EV",
		Year:            2023,
		BatteryCapacity: "50.3 kWh",
		Condition:       models.ConditionExcellent,
		Mileage:         5000,
		Price:           1850000,
		Images:          []string{"/static/listings/a.jpg", "/static/listings/b.jpg"},
		Status:          models.ListingStatusPending,
	}
	repo.listings[listing.ID] = listing

	result, err := svc.Approve(context.Background(), listing.ID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, models.ListingStatusApproved, result.Listing.Status)
	require.Len(t, inventory.created, 1)

	vehicle := inventory.created[0]
	require.Equal(t, "MG", vehicle.Make)
	require.Equal(t, "ZS EV", vehicle.Model)
	require.True(t, vehicle.Available)
	require.False(t, vehicle.IsFeatured)
	require.NotNil(t, vehicle.ImageURL)
	require.Equal(t, "/static/listings/a.jpg", *vehicle.ImageURL)
	require.Contains(t, cache.patterns, "featured:*")
}

func TestListingServiceApproveAlreadyReviewed(t *testing.T) {
	repo := newListingRepoStub()
	inventory := &inventoryStub{}
	svc := newTestListingService(repo, inventory, newStorageStub(), &invalidatorStub{})

	repo.listings["listing-1"] = &models.VehicleListing{
		ID:     "listing-1",
		Status: models.ListingStatusRejected,
	}
	_, err := svc.Approve(context.Background(), "listing-1", "admin-1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Empty(t, inventory.created)
}

func TestListingServiceApproveCompensatesOnLostRace(t *testing.T) {
	repo := newListingRepoStub()
	repo.failCAS = true
	inventory := &inventoryStub{}
	svc := newTestListingService(repo, inventory, newStorageStub(), &invalidatorStub{})

	repo.listings["listing-1"] = &models.VehicleListing{
		ID:        "listing-1",
		Make:      "Tata",
		Model:     "Tiago EV",
		Year:      2023,
		Condition: models.ConditionGood,
		Price:     900000,
		Status:    models.ListingStatusPending,
	}
	_, err := svc.Approve(context.Background(), "listing-1", "admin-1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Len(t, inventory.created, 1)
	require.Equal(t, []string{inventory.created[0].ID}, inventory.deleted)
}

func TestListingServiceReject(t *testing.T) {
	repo := newListingRepoStub()
	svc := newTestListingService(repo, &inventoryStub{}, newStorageStub(), &invalidatorStub{})

	repo.listings["listing-1"] = &models.VehicleListing{
		ID:     "listing-1",
		Status: models.ListingStatusPending,
	}
	notes := "odometer photo is unreadable, please resubmit"
	result, err := svc.Reject(context.Background(), "listing-1", dto.RejectListingRequest{Notes: notes}, "admin-1")
	require.NoError(t, err)
	require.Equal(t, models.ListingStatusRejected, result.Status)
	require.NotNil(t, result.AdminNotes)
	require.Equal(t, notes, *result.AdminNotes)

	stored := repo.listings["listing-1"]
	require.Equal(t, notes, *stored.AdminNotes)
}

func TestListingServiceRejectWithoutNotes(t *testing.T) {
	repo := newListingRepoStub()
	svc := newTestListingService(repo, &inventoryStub{}, newStorageStub(), &invalidatorStub{})

	repo.listings["listing-1"] = &models.VehicleListing{
		ID:     "listing-1",
		Status: models.ListingStatusPending,
	}
	result, err := svc.Reject(context.Background(), "listing-1", dto.RejectListingRequest{Notes: "  "}, "admin-1")
	require.NoError(t, err)
	require.Equal(t, models.ListingStatusRejected, result.Status)
	require.Nil(t, result.AdminNotes)
	require.Nil(t, repo.listings["listing-1"].AdminNotes)
}

func TestListingServiceListScopesCustomers(t *testing.T) {
	repo := newListingRepoStub()
	svc := newTestListingService(repo, &inventoryStub{}, newStorageStub(), &invalidatorStub{})

	repo.listings["a"] = &models.VehicleListing{ID: "a", UserID: "user-1", Status: models.ListingStatusPending}
	repo.listings["b"] = &models.VehicleListing{ID: "b", UserID: "user-2", Status: models.ListingStatusPending}

	mine, err := svc.List(context.Background(), dto.ListingQuery{}, customerClaims("user-1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "a", mine[0].ID)

	all, err := svc.List(context.Background(), dto.ListingQuery{}, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestListingServiceListAttachesProfilesBestEffort(t *testing.T) {
	repo := newListingRepoStub()
	profiles := &profileStub{profiles: map[string]models.CustomerProfile{
		"user-1": {UserID: "user-1", FullName: "Asha Verma", Email: "asha@example.com"},
	}}
	svc := NewListingService(repo, &inventoryStub{}, profiles, newStorageStub(), &auditStub{}, &invalidatorStub{}, nil, ListingServiceConfig{})

	repo.listings["a"] = &models.VehicleListing{ID: "a", UserID: "user-1", Status: models.ListingStatusPending}
	repo.listings["b"] = &models.VehicleListing{ID: "b", UserID: "user-2", Status: models.ListingStatusPending}

	all, err := svc.List(context.Background(), dto.ListingQuery{}, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, l := range all {
		if l.UserID == "user-1" {
			require.NotNil(t, l.Profile)
			require.Equal(t, "Asha Verma", l.Profile.FullName)
		} else {
			require.Nil(t, l.Profile)
		}
	}
}

func TestListingServiceDeleteRemovesPhotos(t *testing.T) {
	repo := newListingRepoStub()
	storage := newStorageStub()
	storage.files["listings/a.jpg"] = []byte("x")
	svc := newTestListingService(repo, &inventoryStub{}, storage, &invalidatorStub{})

	repo.listings["listing-1"] = &models.VehicleListing{
		ID:     "listing-1",
		Images: []string{"/static/listings/a.jpg"},
		Status: models.ListingStatusPending,
	}
	err := svc.Delete(context.Background(), "listing-1", &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Contains(t, storage.deleted, "listings/a.jpg")
	require.Empty(t, repo.listings)

	err = svc.Delete(context.Background(), "listing-1", customerClaims("user-1"))
	require.Error(t, err)
}
