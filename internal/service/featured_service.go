package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/voltride-motors/dealership-api/internal/dto"
	"github.com/voltride-motors/dealership-api/internal/models"
	appErrors "github.com/voltride-motors/dealership-api/pkg/errors"
)

const featuredCacheKey = "featured:home"

const (
	defaultBatteryImage = "https://images.pexels.com/photos/9800029/pexels-photo-9800029.jpeg"
	defaultVehicleImage = "https://images.pexels.com/photos/7674867/pexels-photo-7674867.jpeg"
	defaultPartImage    = "https://images.pexels.com/photos/3846205/pexels-photo-3846205.jpeg"
)

type featuredBatteryLister interface {
	List(ctx context.Context, filter models.BatteryFilter) ([]models.Battery, error)
}

type featuredVehicleLister interface {
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
}

type featuredPartLister interface {
	List(ctx context.Context, filter models.PartFilter) ([]models.Part, error)
}

// FeaturedConfig tunes the homepage carousel composition.
type FeaturedConfig struct {
	PerCatalogMax int
	PickCount     int
	CacheTTL      time.Duration
}

// FeaturedService composes the homepage carousel from the three catalogs.
// The composed selection is cached; catalog writes invalidate it.
type FeaturedService struct {
	batteries featuredBatteryLister
	vehicles  featuredVehicleLister
	parts     featuredPartLister
	cache     *CacheService
	shuffle   func([]dto.FeaturedProduct)
	logger    *zap.Logger
	cfg       FeaturedConfig
}

// NewFeaturedService constructs the service. A nil shuffle falls back to
// rand.Shuffle.
func NewFeaturedService(batteries featuredBatteryLister, vehicles featuredVehicleLister, parts featuredPartLister, cache *CacheService, shuffle func([]dto.FeaturedProduct), logger *zap.Logger, cfg FeaturedConfig) *FeaturedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PerCatalogMax <= 0 {
		cfg.PerCatalogMax = 10
	}
	if cfg.PickCount <= 0 {
		cfg.PickCount = 6
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if shuffle == nil {
		shuffle = func(products []dto.FeaturedProduct) {
			rand.Shuffle(len(products), func(i, j int) {
				products[i], products[j] = products[j], products[i]
			})
		}
	}
	return &FeaturedService{
		batteries: batteries,
		vehicles:  vehicles,
		parts:     parts,
		cache:     cache,
		shuffle:   shuffle,
		logger:    logger,
		cfg:       cfg,
	}
}

// Featured returns the cached homepage selection, recomposing it on a miss.
// The second return reports whether the payload came from cache.
func (s *FeaturedService) Featured(ctx context.Context) ([]dto.FeaturedProduct, bool, error) {
	var cached []dto.FeaturedProduct
	if hit, err := s.cache.Get(ctx, featuredCacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	products, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, featuredCacheKey, products, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache featured products", zap.Error(err))
	}
	return products, false, nil
}

// Invalidate drops the cached selection.
func (s *FeaturedService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, "featured:*")
}

func (s *FeaturedService) compose(ctx context.Context) ([]dto.FeaturedProduct, error) {
	limit := s.cfg.PerCatalogMax
	pool := make([]dto.FeaturedProduct, 0, limit*3)

	batteries, err := s.batteries.List(ctx, models.BatteryFilter{Limit: limit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batteries")
	}
	for _, b := range batteries {
		pool = append(pool, dto.FeaturedProduct{
			ID:          b.ID,
			Name:        b.Name,
			Category:    "battery",
			Price:       b.Price,
			ImageURL:    stringOr(b.ImageURL, defaultBatteryImage),
			Description: stringOr(b.Description, fmt.Sprintf("%s battery pack, %s", b.Brand, b.Capacity)),
		})
	}

	vehicles, err := s.vehicles.List(ctx, models.VehicleFilter{Limit: limit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicles")
	}
	for _, v := range vehicles {
		pool = append(pool, dto.FeaturedProduct{
			ID:          v.ID,
			Name:        fmt.Sprintf("%s %s", v.Make, v.Model),
			Category:    "vehicle",
			Price:       v.Price,
			ImageURL:    stringOr(v.ImageURL, defaultVehicleImage),
			Description: stringOr(v.Description, fmt.Sprintf("%d %s %s, %s", v.Year, v.Make, v.Model, v.BatteryCapacity)),
		})
	}

	parts, err := s.parts.List(ctx, models.PartFilter{Limit: limit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parts")
	}
	for _, p := range parts {
		pool = append(pool, dto.FeaturedProduct{
			ID:          p.ID,
			Name:        p.Name,
			Category:    "part",
			Price:       p.Price,
			ImageURL:    stringOr(p.ImageURL, defaultPartImage),
			Description: stringOr(p.Description, p.Category),
		})
	}

	s.shuffle(pool)
	if len(pool) > s.cfg.PickCount {
		pool = pool[:s.cfg.PickCount]
	}
	return pool, nil
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
