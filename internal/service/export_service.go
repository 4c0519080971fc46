package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
	"github.com/voltride-motors/dealership-api/pkg/export"
)

type exportVehicleLister interface {
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
}

// ExportResult carries the rendered bytes and response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the vehicle inventory as CSV or PDF downloads.
type ExportService struct {
	vehicles exportVehicleLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	enabled  bool
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(vehicles exportVehicleLister, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		vehicles: vehicles,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		enabled:  enabled,
		logger:   logger,
	}
}

// Inventory renders the current vehicle inventory in the requested format.
func (s *ExportService) Inventory(ctx context.Context, format string) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	vehicles, err := s.vehicles.List(ctx, models.VehicleFilter{Limit: 200})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory")
	}

	dataset := inventoryDataset(vehicles)
	stamp := time.Now().UTC().Format("20060102")

	switch strings.ToLower(format) {
	case "csv", "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("inventory_%s.csv", stamp),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, "Vehicle Inventory")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("inventory_%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func inventoryDataset(vehicles []models.Vehicle) export.Dataset {
	headers := []string{"Make", "Model", "Year", "Condition", "Mileage", "Price", "Available", "Featured"}
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []string{
			v.Make,
			v.Model,
			strconv.Itoa(v.Year),
			string(v.Condition),
			strconv.FormatInt(v.Mileage, 10),
			strconv.FormatFloat(v.Price, 'f', 2, 64),
			strconv.FormatBool(v.Available),
			strconv.FormatBool(v.IsFeatured),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
