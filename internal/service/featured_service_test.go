package service

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

type batteryListerStub struct {
	batteries []models.Battery
	calls     int
}

func (m *batteryListerStub) List(ctx context.Context, filter models.BatteryFilter) ([]models.Battery, error) {
	m.calls++
	return m.batteries, nil
}

type vehicleListerStub struct {
	vehicles []models.Vehicle
}

func (m *vehicleListerStub) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	return m.vehicles, nil
}

type partListerStub struct {
	parts []models.Part
}

func (m *partListerStub) List(ctx context.Context, filter models.PartFilter) ([]models.Part, error) {
	return m.parts, nil
}

type memoryCacheRepo struct {
	values map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = make(map[string][]byte)
	return nil
}

func identityShuffle(products []dto.FeaturedProduct) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}

func fixtureCatalogs() (*batteryListerStub, *vehicleListerStub, *partListerStub) {
	desc := "described"
	img := "/static/products/x.jpg"
	batteries := &batteryListerStub{batteries: []models.Battery{
		{ID: "bat-1", Name: "PowerCell 40", Brand: "CATL", Capacity: "40 kWh", Price: 250000},
		{ID: "bat-2", Name: "PowerCell 60", Brand: "CATL", Capacity: "60 kWh", Price: 380000, Description: &desc, ImageURL: &img},
	}}
	vehicles := &vehicleListerStub{vehicles: []models.Vehicle{
		{ID: "veh-1", Make: "Tata", Model: "Nexon EV", Year: 2022, BatteryCapacity: "40.5 kWh", Price: 1150000},
		{ID: "veh-2", Make: "MG", Model: "ZS EV", Year: 2023, BatteryCapacity: "50.3 kWh", Price: 1850000},
		{ID: "veh-3", Make: "Tata", Model: "Tiago EV", Year: 2023, BatteryCapacity: "24 kWh", Price: 900000},
	}}
	parts := &partListerStub{parts: []models.Part{
		{ID: "part-1", Name: "Charging Cable", Category: "Charging", Price: 8500},
		{ID: "part-2", Name: "Brake Pads", Category: "Brakes", Price: 4200},
		{ID: "part-3", Name: "Cabin Filter", Category: "Filters", Price: 900},
	}}
	return batteries, vehicles, parts
}

func TestFeaturedServiceComposesAndCaches(t *testing.T) {
	batteries, vehicles, parts := fixtureCatalogs()
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Hour, nil, true)
	svc := NewFeaturedService(batteries, vehicles, parts, cache, identityShuffle, nil, FeaturedConfig{PickCount: 6})

	products, cached, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.False(t, cached)
	require.Len(t, products, 6)

	for _, p := range products {
		require.NotEmpty(t, p.ImageURL)
		require.NotEmpty(t, p.Description)
		require.NotEmpty(t, p.Category)
	}

	// A second read must come from cache without touching the catalogs.
	again, cached, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.True(t, cached)
	require.Equal(t, products, again)
	require.Equal(t, 1, batteries.calls)
}

func TestFeaturedServiceInvalidateForcesRecompose(t *testing.T) {
	batteries, vehicles, parts := fixtureCatalogs()
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Hour, nil, true)
	svc := NewFeaturedService(batteries, vehicles, parts, cache, identityShuffle, nil, FeaturedConfig{PickCount: 6})

	_, _, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background()))

	_, _, err = svc.Featured(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, batteries.calls)
}

func TestFeaturedServiceSmallCatalog(t *testing.T) {
	batteries := &batteryListerStub{}
	vehicles := &vehicleListerStub{vehicles: []models.Vehicle{
		{ID: "veh-1", Make: "Tata", Model: "Nexon EV", Year: 2022, Price: 1150000},
	}}
	parts := &partListerStub{}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Hour, nil, true)
	svc := NewFeaturedService(batteries, vehicles, parts, cache, identityShuffle, nil, FeaturedConfig{PickCount: 6})

	products, _, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Tata Nexon EV", products[0].Name)
}
