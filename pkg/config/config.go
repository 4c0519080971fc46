package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Storage  StorageConfig
	Listings ListingsConfig
	Featured FeaturedConfig
	Cleanup  CleanupConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig locates the on-disk image store and its public URL base.
type StorageConfig struct {
	BaseDir       string
	PublicBaseURL string
}

// ListingsConfig bounds customer vehicle submissions.
type ListingsConfig struct {
	MaxImages      int
	MaxImageBytes  int64
	ThumbnailWidth int
}

// FeaturedConfig tunes the storefront featured-products cache.
type FeaturedConfig struct {
	CacheTTL      time.Duration
	PerCatalogMax int
	PickCount     int
}

// CleanupConfig gates the orphaned-image sweeper.
type CleanupConfig struct {
	Enabled   bool
	Interval  time.Duration
	OrphanTTL time.Duration
}

// ExportsConfig toggles the admin inventory export endpoints.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		MigrationsDir: v.GetString("DB_MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		BaseDir:       v.GetString("STORAGE_DIR"),
		PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
	}

	maxImageBytes := v.GetInt64("LISTINGS_MAX_IMAGE_BYTES")
	if maxImageBytes <= 0 {
		maxImageBytes = 5 * 1024 * 1024
	}
	cfg.Listings = ListingsConfig{
		MaxImages:      v.GetInt("LISTINGS_MAX_IMAGES"),
		MaxImageBytes:  maxImageBytes,
		ThumbnailWidth: v.GetInt("LISTINGS_THUMBNAIL_WIDTH"),
	}

	cfg.Featured = FeaturedConfig{
		CacheTTL:      parseDuration(v.GetString("FEATURED_CACHE_TTL"), time.Hour),
		PerCatalogMax: v.GetInt("FEATURED_PER_CATALOG_MAX"),
		PickCount:     v.GetInt("FEATURED_PICK_COUNT"),
	}

	cfg.Cleanup = CleanupConfig{
		Enabled:   v.GetBool("ENABLE_STORAGE_CLEANUP"),
		Interval:  parseDuration(v.GetString("STORAGE_CLEANUP_INTERVAL"), time.Hour),
		OrphanTTL: parseDuration(v.GetString("STORAGE_ORPHAN_TTL"), 24*time.Hour),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ev_dealership")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MIGRATIONS_DIR", "migrations")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "dealership-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_DIR", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "/static")

	v.SetDefault("LISTINGS_MAX_IMAGES", 5)
	v.SetDefault("LISTINGS_MAX_IMAGE_BYTES", 5*1024*1024)
	v.SetDefault("LISTINGS_THUMBNAIL_WIDTH", 480)

	v.SetDefault("FEATURED_CACHE_TTL", "1h")
	v.SetDefault("FEATURED_PER_CATALOG_MAX", 10)
	v.SetDefault("FEATURED_PICK_COUNT", 6)

	v.SetDefault("ENABLE_STORAGE_CLEANUP", false)
	v.SetDefault("STORAGE_CLEANUP_INTERVAL", "1h")
	v.SetDefault("STORAGE_ORPHAN_TTL", "24h")

	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
