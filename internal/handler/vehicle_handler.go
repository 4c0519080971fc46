package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/response"
)

type vehicleService interface {
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	Create(ctx context.Context, req dto.CreateVehicleRequest, actorID string) (*models.Vehicle, error)
	Update(ctx context.Context, id string, req dto.UpdateVehicleRequest, actorID string) (*models.Vehicle, error)
	Delete(ctx context.Context, id string, actorID string) error
	SetFeatured(ctx context.Context, id string, featured bool, actorID string) error
}

// VehicleHandler exposes the vehicle catalog endpoints.
type VehicleHandler struct {
	service vehicleService
}

// NewVehicleHandler constructs the handler.
func NewVehicleHandler(service vehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// List godoc
// @Summary List catalog vehicles
// @Tags Vehicles
// @Produce json
// @Param condition query string false "Excellent, Good or Fair"
// @Param available query bool false "Only available vehicles"
// @Param featured query bool false "Only featured vehicles"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /api/v1/vehicles [get]
func (h *VehicleHandler) List(c *gin.Context) {
	filter := models.VehicleFilter{
		Condition:  models.VehicleCondition(c.Query("condition")),
		Available:  parseBoolQuery(c, "available"),
		IsFeatured: parseBoolQuery(c, "featured"),
	}
	filter.Limit, filter.Offset = parsePageQuery(c)

	vehicles, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicles, nil)
}

// Get godoc
// @Summary Fetch a vehicle by ID
// @Tags Vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/vehicles/{id} [get]
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicle, nil)
}

// Create godoc
// @Summary Add a vehicle to the catalog
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateVehicleRequest true "Vehicle payload"
// @Success 201 {object} response.Envelope
// @Router /api/v1/admin/vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid vehicle payload"))
		return
	}

	vehicle, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vehicle)
}

// Update godoc
// @Summary Update a catalog vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param payload body dto.UpdateVehicleRequest true "Vehicle payload"
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/vehicles/{id} [put]
func (h *VehicleHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid vehicle payload"))
		return
	}

	vehicle, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicle, nil)
}

// Delete godoc
// @Summary Remove a vehicle from the catalog
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Success 204 "deleted"
// @Router /api/v1/admin/vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetFeatured godoc
// @Summary Toggle the featured flag on a vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param payload body dto.SetFeaturedRequest true "Featured flag"
// @Success 204 "updated"
// @Router /api/v1/admin/vehicles/{id}/featured [put]
func (h *VehicleHandler) SetFeatured(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid featured payload"))
		return
	}

	if err := h.service.SetFeatured(c.Request.Context(), c.Param("id"), req.Featured, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parsePageQuery(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	return limit, offset
}
