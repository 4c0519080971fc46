package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/response"
)

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// MetricsHandler exposes the ops snapshot endpoint.
type MetricsHandler struct {
	service metricsSnapshotter
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(service metricsSnapshotter) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Snapshot godoc
// @Summary Fetch aggregate runtime metrics
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/v1/admin/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "metrics service not configured"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Snapshot(), nil)
}
