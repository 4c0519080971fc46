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

type batteryService interface {
	List(ctx context.Context, filter models.BatteryFilter) ([]models.Battery, error)
	Get(ctx context.Context, id string) (*models.Battery, error)
	Create(ctx context.Context, req dto.CreateBatteryRequest) (*models.Battery, error)
	Update(ctx context.Context, id string, req dto.CreateBatteryRequest) (*models.Battery, error)
	Delete(ctx context.Context, id string) error
}

// BatteryHandler exposes the battery catalog endpoints.
type BatteryHandler struct {
	service batteryService
}

// NewBatteryHandler constructs the handler.
func NewBatteryHandler(service batteryService) *BatteryHandler {
	return &BatteryHandler{service: service}
}

// List godoc
// @Summary List battery packs
// @Tags Batteries
// @Produce json
// @Param in_stock query bool false "Only in-stock packs"
// @Param featured query bool false "Only featured packs"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /api/v1/batteries [get]
func (h *BatteryHandler) List(c *gin.Context) {
	filter := models.BatteryFilter{
		InStock:    parseBoolQuery(c, "in_stock"),
		IsFeatured: parseBoolQuery(c, "featured"),
	}
	filter.Limit, filter.Offset = parsePageQuery(c)

	batteries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batteries, nil)
}

// Get godoc
// @Summary Fetch a battery pack by ID
// @Tags Batteries
// @Produce json
// @Param id path string true "Battery ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/batteries/{id} [get]
func (h *BatteryHandler) Get(c *gin.Context) {
	battery, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, battery, nil)
}

// Create godoc
// @Summary Add a battery pack
// @Tags Batteries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateBatteryRequest true "Battery payload"
// @Success 201 {object} response.Envelope
// @Router /api/v1/admin/batteries [post]
func (h *BatteryHandler) Create(c *gin.Context) {
	var req dto.CreateBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid battery payload"))
		return
	}

	battery, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, battery)
}

// Update godoc
// @Summary Update a battery pack
// @Tags Batteries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Battery ID"
// @Param payload body dto.CreateBatteryRequest true "Battery payload"
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/batteries/{id} [put]
func (h *BatteryHandler) Update(c *gin.Context) {
	var req dto.CreateBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid battery payload"))
		return
	}

	battery, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, battery, nil)
}

// Delete godoc
// @Summary Remove a battery pack
// @Tags Batteries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Battery ID"
// @Success 204 "deleted"
// @Router /api/v1/admin/batteries/{id} [delete]
func (h *BatteryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
