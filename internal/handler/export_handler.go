package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/service"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/response"
)

type exportService interface {
	Inventory(ctx context.Context, format string) (*service.ExportResult, error)
}

// ExportHandler streams inventory reports to admins.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Inventory godoc
// @Summary Export the vehicle inventory as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file "inventory report"
// @Router /api/v1/admin/exports/inventory [get]
func (h *ExportHandler) Inventory(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}

	result, err := h.service.Inventory(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
