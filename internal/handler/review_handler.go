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

type reviewService interface {
	ListByKind(ctx context.Context, kind models.ReviewKind, limit, offset int) ([]models.Review, error)
	Create(ctx context.Context, req dto.CreateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}

// ReviewHandler exposes customer review endpoints.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service reviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List godoc
// @Summary List reviews of a given kind
// @Tags Reviews
// @Produce json
// @Param kind query string true "vehicle, battery or part"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /api/v1/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	limit, offset := parsePageQuery(c)
	reviews, err := h.service.ListByKind(c.Request.Context(), models.ReviewKind(c.Query("kind")), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, nil)
}

// Create godoc
// @Summary Submit a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param payload body dto.CreateReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}

	review, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// Delete godoc
// @Summary Remove a review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 204 "deleted"
// @Router /api/v1/admin/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
