package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type exportListerStub struct {
	vehicles []models.Vehicle
}

func (s *exportListerStub) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	return s.vehicles, nil
}

func exportFixtures() *exportListerStub {
	return &exportListerStub{vehicles: []models.Vehicle{
		{ID: "veh-1", Make: "Tata", Model: "Nexon EV", Year: 2022, Condition: models.ConditionGood, Mileage: 12000, Price: 1150000, Available: true},
		{ID: "veh-2", Make: "MG", Model: "ZS EV", Year: 2023, Condition: models.ConditionExcellent, Mileage: 4000, Price: 1850000, Available: true, IsFeatured: true},
	}}
}

func TestExportServiceInventoryCSV(t *testing.T) {
	svc := NewExportService(exportFixtures(), true, nil)

	result, err := svc.Inventory(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Content)
	assert.Contains(t, body, "Make,Model,Year,Condition,Mileage,Price,Available,Featured")
	assert.Contains(t, body, "Tata,Nexon EV,2022,Good,12000,1150000.00,true,false")
	assert.Contains(t, body, "MG,ZS EV,2023,Excellent,4000,1850000.00,true,true")
}

func TestExportServiceInventoryDefaultsToCSV(t *testing.T) {
	svc := NewExportService(exportFixtures(), true, nil)

	result, err := svc.Inventory(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportServiceInventoryPDF(t *testing.T) {
	svc := NewExportService(exportFixtures(), true, nil)

	result, err := svc.Inventory(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceInventoryUnknownFormat(t *testing.T) {
	svc := NewExportService(exportFixtures(), true, nil)

	_, err := svc.Inventory(context.Background(), "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceDisabled(t *testing.T) {
	svc := NewExportService(exportFixtures(), false, nil)

	_, err := svc.Inventory(context.Background(), "csv")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}
