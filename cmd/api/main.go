package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/voltride-motors/dealership-api/api/swagger"
	"github.com/voltride-motors/dealership-api/internal/handler"
	"github.com/voltride-motors/dealership-api/internal/middleware"
	"github.com/voltride-motors/dealership-api/internal/repository"
	"github.com/voltride-motors/dealership-api/internal/service"
	"github.com/voltride-motors/dealership-api/pkg/cache"
	"github.com/voltride-motors/dealership-api/pkg/config"
	"github.com/voltride-motors/dealership-api/pkg/database"
	"github.com/voltride-motors/dealership-api/pkg/logger"
	corsmiddleware "github.com/voltride-motors/dealership-api/pkg/middleware/cors"
	reqidmiddleware "github.com/voltride-motors/dealership-api/pkg/middleware/requestid"
	"github.com/voltride-motors/dealership-api/pkg/storage"
)

// @title VoltRide Dealership API
// @version 1.0.0
// @description EV dealership storefront, listing intake and moderation API
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewImageStore(cfg.Storage.BaseDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logr.Sugar().Fatalw("failed to init image storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	listingRepo := repository.NewListingRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	batteryRepo := repository.NewBatteryRepository(db)
	partRepo := repository.NewPartRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	seoRepo := repository.NewSEORepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Featured.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, profileRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	listingSvc := service.NewListingService(listingRepo, vehicleRepo, profileRepo, store, userRepo, cacheSvc, logr, service.ListingServiceConfig{
		MaxImages:      cfg.Listings.MaxImages,
		MaxImageBytes:  cfg.Listings.MaxImageBytes,
		ThumbnailWidth: cfg.Listings.ThumbnailWidth,
	})

	vehicleSvc := service.NewVehicleService(vehicleRepo, userRepo, cacheSvc, validate, logr)
	batterySvc := service.NewBatteryService(batteryRepo, cacheSvc, validate, logr)
	partSvc := service.NewPartService(partRepo, cacheSvc, validate, logr)
	reviewSvc := service.NewReviewService(reviewRepo, validate, logr)
	seoSvc := service.NewSEOService(seoRepo, validate, logr)
	profileSvc := service.NewProfileService(profileRepo, validate, logr)
	featuredSvc := service.NewFeaturedService(batteryRepo, vehicleRepo, partRepo, cacheSvc, nil, logr, service.FeaturedConfig{
		CacheTTL:      cfg.Featured.CacheTTL,
		PerCatalogMax: cfg.Featured.PerCatalogMax,
		PickCount:     cfg.Featured.PickCount,
	})
	exportSvc := service.NewExportService(vehicleRepo, cfg.Exports.Enabled, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanupSvc *service.CleanupService
	if cfg.Cleanup.Enabled {
		cleanupSvc = service.NewCleanupService(store, []service.ImagePathLister{listingRepo, vehicleRepo}, logr, service.CleanupConfig{
			Interval:  cfg.Cleanup.Interval,
			OrphanTTL: cfg.Cleanup.OrphanTTL,
		})
		cleanupSvc.Start(ctx)
		defer cleanupSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	listingHandler := handler.NewListingHandler(listingSvc)
	vehicleHandler := handler.NewVehicleHandler(vehicleSvc)
	batteryHandler := handler.NewBatteryHandler(batterySvc)
	partHandler := handler.NewPartHandler(partSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	seoHandler := handler.NewSEOHandler(seoSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	featuredHandler := handler.NewFeaturedHandler(featuredSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		cacheStatus := "disabled"
		if redisClient != nil {
			cacheStatus = "ok"
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				cacheStatus = "down"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": cacheStatus})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.Static(cfg.Storage.PublicBaseURL, store.BaseDir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.PUT("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/vehicles", vehicleHandler.List)
		api.GET("/vehicles/:id", vehicleHandler.Get)
		api.GET("/batteries", batteryHandler.List)
		api.GET("/batteries/:id", batteryHandler.Get)
		api.GET("/parts", partHandler.List)
		api.GET("/parts/:id", partHandler.Get)
		api.GET("/reviews", reviewHandler.List)
		api.POST("/reviews", reviewHandler.Create)
		api.GET("/seo/:page_type", seoHandler.Get)
		api.GET("/featured", middleware.WithResponseMeta(), featuredHandler.Featured)

		authed := api.Group("", middleware.JWT(authSvc))
		{
			authed.POST("/listings", listingHandler.Submit)
			authed.GET("/listings", listingHandler.List)
			authed.GET("/listings/:id", listingHandler.Get)
			authed.GET("/profile", profileHandler.Get)
			authed.PUT("/profile", profileHandler.Update)
		}

		admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RBAC("ADMIN"))
		{
			admin.GET("/listings", listingHandler.List)
			admin.GET("/listings/:id", listingHandler.Get)
			admin.POST("/listings/:id/approve", listingHandler.Approve)
			admin.POST("/listings/:id/reject", listingHandler.Reject)
			admin.DELETE("/listings/:id", listingHandler.Delete)

			admin.POST("/vehicles", vehicleHandler.Create)
			admin.PUT("/vehicles/:id", vehicleHandler.Update)
			admin.DELETE("/vehicles/:id", vehicleHandler.Delete)
			admin.PUT("/vehicles/:id/featured", vehicleHandler.SetFeatured)

			admin.POST("/batteries", batteryHandler.Create)
			admin.PUT("/batteries/:id", batteryHandler.Update)
			admin.DELETE("/batteries/:id", batteryHandler.Delete)

			admin.POST("/parts", partHandler.Create)
			admin.PUT("/parts/:id", partHandler.Update)
			admin.DELETE("/parts/:id", partHandler.Delete)

			admin.DELETE("/reviews/:id", reviewHandler.Delete)

			admin.GET("/customers", profileHandler.ListCustomers)

			admin.GET("/seo", seoHandler.List)
			admin.PUT("/seo", middleware.Audit(userRepo, "SEO_UPSERT", "seo_settings"), seoHandler.Upsert)

			admin.DELETE("/featured/cache", featuredHandler.Invalidate)
			admin.GET("/exports/inventory", exportHandler.Inventory)
			admin.GET("/metrics", metricsHandler.Snapshot)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
