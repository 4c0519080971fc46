package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/middleware"
	"github.com/voltride-motors/dealership-api/internal/models"
	"github.com/voltride-motors/dealership-api/internal/service"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type listingServiceMock struct {
	submitResp    *models.VehicleListing
	submitErr     error
	submitReq     dto.CreateListingRequest
	submitUploads []service.ListingUpload
	listResp      []models.VehicleListing
	listErr       error
	getResp       *models.VehicleListing
	getErr        error
	approveResp   *dto.ApproveListingResponse
	approveErr    error
	rejectResp    *models.VehicleListing
	rejectErr     error
	rejectReq     dto.RejectListingRequest
	deleteErr     error
}

func (m *listingServiceMock) Submit(ctx context.Context, req dto.CreateListingRequest, uploads []service.ListingUpload, actor *models.JWTClaims) (*models.VehicleListing, error) {
	m.submitReq = req
	m.submitUploads = uploads
	return m.submitResp, m.submitErr
}

func (m *listingServiceMock) List(ctx context.Context, query dto.ListingQuery, actor *models.JWTClaims) ([]models.VehicleListing, error) {
	return m.listResp, m.listErr
}

func (m *listingServiceMock) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.VehicleListing, error) {
	return m.getResp, m.getErr
}

func (m *listingServiceMock) Approve(ctx context.Context, id string, reviewerID string) (*dto.ApproveListingResponse, error) {
	return m.approveResp, m.approveErr
}

func (m *listingServiceMock) Reject(ctx context.Context, id string, req dto.RejectListingRequest, reviewerID string) (*models.VehicleListing, error) {
	m.rejectReq = req
	return m.rejectResp, m.rejectErr
}

func (m *listingServiceMock) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	return m.deleteErr
}

func newListingContext(method, path string, body []byte, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.Request = req
	return c, w
}

func buildListingForm(t *testing.T, photos int) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"make":             "Tata",
		"model":            "Nexon EV",
		"year":             "2022",
		"battery_capacity": "40.5 kWh",
		"condition":        "Good",
		"mileage":          "12000",
		"price":            "1150000",
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for i := 0; i < photos; i++ {
		part, err := writer.CreateFormFile("images", "photo.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	}

	require.NoError(t, writer.Close())
	return buf.Bytes(), writer.FormDataContentType()
}

func TestListingHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &listingServiceMock{
		submitResp: &models.VehicleListing{ID: "lst-1", Status: models.ListingStatusPending},
	}
	handler := NewListingHandler(mockSvc)

	body, contentType := buildListingForm(t, 2)
	c, w := newListingContext(http.MethodPost, "/listings", body, contentType)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleCustomer})

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, int64(12000), mockSvc.submitReq.Mileage)
	require.Equal(t, 1150000.0, mockSvc.submitReq.Price)
	require.Len(t, mockSvc.submitUploads, 2)
	for _, upload := range mockSvc.submitUploads {
		require.Equal(t, "photo.png", upload.Filename)
		require.NotNil(t, upload.Content)
	}
}

func TestListingHandlerSubmitWithoutPhotos(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &listingServiceMock{
		submitResp: &models.VehicleListing{ID: "lst-1", Status: models.ListingStatusPending},
	}
	handler := NewListingHandler(mockSvc)

	body, contentType := buildListingForm(t, 0)
	c, w := newListingContext(http.MethodPost, "/listings", body, contentType)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleCustomer})

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Empty(t, mockSvc.submitUploads)
}

func TestListingHandlerSubmitRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewListingHandler(&listingServiceMock{})

	body, contentType := buildListingForm(t, 1)
	c, w := newListingContext(http.MethodPost, "/listings", body, contentType)

	handler.Submit(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListingHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &listingServiceMock{
		listResp: []models.VehicleListing{{ID: "lst-1"}, {ID: "lst-2"}},
	}
	handler := NewListingHandler(mockSvc)

	c, w := newListingContext(http.MethodGet, "/listings?status=pending", nil, "")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.VehicleListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
}

func TestListingHandlerApproveConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &listingServiceMock{
		approveErr: appErrors.Clone(appErrors.ErrConflict, "listing already reviewed"),
	}
	handler := NewListingHandler(mockSvc)

	c, w := newListingContext(http.MethodPost, "/admin/listings/lst-1/approve", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "lst-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Approve(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestListingHandlerReject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &listingServiceMock{
		rejectResp: &models.VehicleListing{ID: "lst-1", Status: models.ListingStatusRejected},
	}
	handler := NewListingHandler(mockSvc)

	payload, _ := json.Marshal(dto.RejectListingRequest{Notes: "photos too blurry"})
	c, w := newListingContext(http.MethodPost, "/admin/listings/lst-1/reject", payload, "application/json")
	c.Params = gin.Params{{Key: "id", Value: "lst-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Reject(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "photos too blurry", mockSvc.rejectReq.Notes)
}

func TestListingHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewListingHandler(&listingServiceMock{})

	c, w := newListingContext(http.MethodDelete, "/admin/listings/lst-1", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "lst-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
