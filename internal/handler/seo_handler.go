package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/response"
)

type seoService interface {
	Get(ctx context.Context, pageType string) (*models.SEOSettings, error)
	ListAll(ctx context.Context) ([]models.SEOSettings, error)
	Upsert(ctx context.Context, req dto.UpsertSEORequest) (*models.SEOSettings, error)
}

// SEOHandler exposes per-page meta tag endpoints.
type SEOHandler struct {
	service seoService
}

// NewSEOHandler constructs the handler.
func NewSEOHandler(service seoService) *SEOHandler {
	return &SEOHandler{service: service}
}

// Get godoc
// @Summary Fetch meta tags for a storefront page
// @Tags SEO
// @Produce json
// @Param page_type path string true "Page identifier"
// @Success 200 {object} response.Envelope
// @Router /api/v1/seo/{page_type} [get]
func (h *SEOHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context(), c.Param("page_type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// List godoc
// @Summary List meta tags for every configured page
// @Tags SEO
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/seo [get]
func (h *SEOHandler) List(c *gin.Context) {
	settings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Upsert godoc
// @Summary Create or replace meta tags for a page
// @Tags SEO
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpsertSEORequest true "SEO payload"
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/seo [put]
func (h *SEOHandler) Upsert(c *gin.Context) {
	var req dto.UpsertSEORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid seo payload"))
		return
	}

	settings, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
