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

type partService interface {
	List(ctx context.Context, filter models.PartFilter) ([]models.Part, error)
	Get(ctx context.Context, id string) (*models.Part, error)
	Create(ctx context.Context, req dto.CreatePartRequest) (*models.Part, error)
	Update(ctx context.Context, id string, req dto.CreatePartRequest) (*models.Part, error)
	Delete(ctx context.Context, id string) error
}

// PartHandler exposes the spare-parts catalog endpoints.
type PartHandler struct {
	service partService
}

// NewPartHandler constructs the handler.
func NewPartHandler(service partService) *PartHandler {
	return &PartHandler{service: service}
}

// List godoc
// @Summary List spare parts
// @Tags Parts
// @Produce json
// @Param category query string false "Part category"
// @Param in_stock query bool false "Only in-stock parts"
// @Param featured query bool false "Only featured parts"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /api/v1/parts [get]
func (h *PartHandler) List(c *gin.Context) {
	filter := models.PartFilter{
		Category:   c.Query("category"),
		InStock:    parseBoolQuery(c, "in_stock"),
		IsFeatured: parseBoolQuery(c, "featured"),
	}
	filter.Limit, filter.Offset = parsePageQuery(c)

	parts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parts, nil)
}

// Get godoc
// @Summary Fetch a spare part by ID
// @Tags Parts
// @Produce json
// @Param id path string true "Part ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/parts/{id} [get]
func (h *PartHandler) Get(c *gin.Context) {
	part, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, part, nil)
}

// Create godoc
// @Summary Add a spare part
// @Tags Parts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreatePartRequest true "Part payload"
// @Success 201 {object} response.Envelope
// @Router /api/v1/admin/parts [post]
func (h *PartHandler) Create(c *gin.Context) {
	var req dto.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid part payload"))
		return
	}

	part, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, part)
}

// Update godoc
// @Summary Update a spare part
// @Tags Parts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Part ID"
// @Param payload body dto.CreatePartRequest true "Part payload"
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/parts/{id} [put]
func (h *PartHandler) Update(c *gin.Context) {
	var req dto.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid part payload"))
		return
	}

	part, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, part, nil)
}

// Delete godoc
// @Summary Remove a spare part
// @Tags Parts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Part ID"
// @Success 204 "deleted"
// @Router /api/v1/admin/parts/{id} [delete]
func (h *PartHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
