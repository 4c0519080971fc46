package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type vehicleStoreStub struct {
	vehicles map[string]models.Vehicle
	featured map[string]bool
}

func newVehicleStoreStub() *vehicleStoreStub {
	return &vehicleStoreStub{vehicles: map[string]models.Vehicle{}, featured: map[string]bool{}}
}

func (s *vehicleStoreStub) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = "veh-new"
	}
	s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (s *vehicleStoreStub) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (s *vehicleStoreStub) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (s *vehicleStoreStub) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if _, ok := s.vehicles[vehicle.ID]; !ok {
		return sql.ErrNoRows
	}
	s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (s *vehicleStoreStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.vehicles[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.vehicles, id)
	return nil
}

func (s *vehicleStoreStub) SetFeatured(ctx context.Context, id string, featured bool) error {
	if _, ok := s.vehicles[id]; !ok {
		return sql.ErrNoRows
	}
	s.featured[id] = featured
	return nil
}

func validVehicleRequest() dto.CreateVehicleRequest {
	return dto.CreateVehicleRequest{
		Make:            "MG",
		Model:           "ZS EV",
		Year:            2023,
		BatteryCapacity: "50.3 kWh",
		Condition:       "Excellent",
		Mileage:         4000,
		Price:           1850000,
		Images:          []string{"/static/vehicles/zs_1.jpg"},
	}
}

func TestVehicleServiceCreate(t *testing.T) {
	store := newVehicleStoreStub()
	audit := &auditStub{}
	cache := &invalidatorStub{}
	svc := NewVehicleService(store, audit, cache, nil, nil)

	vehicle, err := svc.Create(context.Background(), validVehicleRequest(), "admin-1")
	require.NoError(t, err)
	assert.True(t, vehicle.Available)
	require.NotNil(t, vehicle.ImageURL)
	assert.Equal(t, "/static/vehicles/zs_1.jpg", *vehicle.ImageURL)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionInventoryWrite, audit.logs[0].Action)
	assert.Contains(t, cache.patterns, "featured:*")
}

func TestVehicleServiceCreateRejectsBadCondition(t *testing.T) {
	store := newVehicleStoreStub()
	svc := NewVehicleService(store, nil, nil, nil, nil)

	req := validVehicleRequest()
	req.Condition = "Mint"
	_, err := svc.Create(context.Background(), req, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, store.vehicles)
}

func TestVehicleServiceUpdatePreservesCreatedAt(t *testing.T) {
	store := newVehicleStoreStub()
	svc := NewVehicleService(store, nil, &invalidatorStub{}, nil, nil)

	created, err := svc.Create(context.Background(), validVehicleRequest(), "admin-1")
	require.NoError(t, err)

	req := validVehicleRequest()
	req.Price = 1790000
	updated, err := svc.Update(context.Background(), created.ID, req, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 1790000.0, updated.Price)
}

func TestVehicleServiceGetMissing(t *testing.T) {
	svc := NewVehicleService(newVehicleStoreStub(), nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestVehicleServiceSetFeaturedInvalidatesCache(t *testing.T) {
	store := newVehicleStoreStub()
	cache := &invalidatorStub{}
	svc := NewVehicleService(store, nil, cache, nil, nil)

	created, err := svc.Create(context.Background(), validVehicleRequest(), "admin-1")
	require.NoError(t, err)
	cache.patterns = nil

	require.NoError(t, svc.SetFeatured(context.Background(), created.ID, true, "admin-1"))
	assert.True(t, store.featured[created.ID])
	assert.Contains(t, cache.patterns, "featured:*")
}
