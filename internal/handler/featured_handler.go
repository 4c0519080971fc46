package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/middleware"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/response"
)

type featuredService interface {
	Featured(ctx context.Context) ([]dto.FeaturedProduct, bool, error)
	Invalidate(ctx context.Context) error
}

// FeaturedHandler serves the homepage featured-products selection.
type FeaturedHandler struct {
	service featuredService
}

// NewFeaturedHandler constructs the handler.
func NewFeaturedHandler(service featuredService) *FeaturedHandler {
	return &FeaturedHandler{service: service}
}

// Featured godoc
// @Summary Fetch the homepage featured products
// @Tags Featured
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/v1/featured [get]
func (h *FeaturedHandler) Featured(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "featured service not configured"))
		return
	}

	products, cacheHit, err := h.service.Featured(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		response.JSON(c, http.StatusOK, products, nil)
		return
	}
	response.JSON(c, http.StatusOK, products, nil, meta)
}

// Invalidate godoc
// @Summary Drop the cached featured selection
// @Tags Featured
// @Produce json
// @Security BearerAuth
// @Success 204 "invalidated"
// @Router /api/v1/admin/featured/cache [delete]
func (h *FeaturedHandler) Invalidate(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
