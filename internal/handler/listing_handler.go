package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	"github.com/voltride-motors/dealership-api/internal/service"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/response"
)

type listingService interface {
	Submit(ctx context.Context, req dto.CreateListingRequest, uploads []service.ListingUpload, actor *models.JWTClaims) (*models.VehicleListing, error)
	List(ctx context.Context, query dto.ListingQuery, actor *models.JWTClaims) ([]models.VehicleListing, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.VehicleListing, error)
	Approve(ctx context.Context, id string, reviewerID string) (*dto.ApproveListingResponse, error)
	Reject(ctx context.Context, id string, req dto.RejectListingRequest, reviewerID string) (*models.VehicleListing, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// ListingHandler exposes the sell-your-EV intake and moderation endpoints.
type ListingHandler struct {
	service listingService
}

// NewListingHandler constructs the handler.
func NewListingHandler(service listingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Submit godoc
// @Summary Submit a vehicle listing with photos
// @Tags Listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param make formData string true "Manufacturer"
// @Param model formData string true "Model name"
// @Param year formData int true "Model year"
// @Param battery_capacity formData string true "Battery capacity"
// @Param condition formData string true "Excellent, Good or Fair"
// @Param mileage formData int true "Odometer reading in km"
// @Param price formData number true "Asking price"
// @Param images formData file false "Up to 5 photos, max 5MB each"
// @Success 201 {object} response.Envelope
// @Router /api/v1/listings [post]
func (h *ListingHandler) Submit(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "listing service not configured"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid listing payload"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart form is required"))
		return
	}

	uploads, err := collectUploads(form.File["images"])
	if err != nil {
		response.Error(c, err)
		return
	}

	listing, err := h.service.Submit(c.Request.Context(), req, uploads, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, listing)
}

// List godoc
// @Summary List vehicle listings
// @Description Admins see every listing with seller profiles attached. Customers only see their own.
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /api/v1/listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var query dto.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid listing query"))
		return
	}

	listings, err := h.service.List(c.Request.Context(), query, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listings, nil)
}

// Get godoc
// @Summary Fetch a single listing
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	listing, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing, nil)
}

// Approve godoc
// @Summary Approve a pending listing and publish it to the catalog
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/listings/{id}/approve [post]
func (h *ListingHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.service.Approve(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reject godoc
// @Summary Reject a pending listing, optionally with review notes
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param payload body dto.RejectListingRequest false "Rejection notes"
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/listings/{id}/reject [post]
func (h *ListingHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RejectListingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
			return
		}
	}

	listing, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing, nil)
}

// Delete godoc
// @Summary Delete a listing and its stored photos
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204 "deleted"
// @Router /api/v1/admin/listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// collectUploads buffers the multipart photo parts into seekable readers so
// the service can sniff content types before touching storage.
func collectUploads(files []*multipart.FileHeader) ([]service.ListingUpload, error) {
	uploads := make([]service.ListingUpload, 0, len(files))
	for _, header := range files {
		src, err := header.Open()
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "could not read uploaded image")
		}

		reader, ok := src.(io.ReadSeeker)
		if !ok {
			data, readErr := io.ReadAll(src)
			src.Close()
			if readErr != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "could not read uploaded image")
			}
			reader = bytes.NewReader(data)
		} else {
			defer src.Close()
		}

		uploads = append(uploads, service.ListingUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  reader,
		})
	}
	return uploads, nil
}
