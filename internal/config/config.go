package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the global solar forecast service
type Config struct {
	// Server configuration
	Port        string `env:"PORT,default=8980"`
	Environment string `env:"ENVIRONMENT,default=development"`

	// Deployment: "local" stores dashboards on disk, "gcs" in a bucket
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`

	// GCP configuration (required only for gcs deployment)
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Local deployment configuration
	LocalDashboardsDir string `env:"LOCAL_DASHBOARDS_DIR,default=./dashboards"`
	MockupMode         bool   `env:"MOCKUP_MODE,default=false"`

	// Country data files live under DataDir: solar_capacities.csv holds the
	// per-country installed capacity, countries.geojson the boundaries used
	// for centroids and the world map.
	DataDir string `env:"DATA_DIR,default=./data"`

	// Forecast provider
	QuartzAPIURL        string  `env:"QUARTZ_API_URL,default=https://api.quartz.solar"`
	ProviderRateLimit   float64 `env:"PROVIDER_RATE_LIMIT,default=5"` // requests per second
	ProviderConcurrency int     `env:"PROVIDER_CONCURRENCY,default=4"`

	// Seasonal norm estimation
	NormModel           string        `env:"NORM_MODEL,default=empirical"`     // empirical or analytic
	NormSampling        string        `env:"NORM_SAMPLING,default=multiyear"`  // multiyear or singleyear
	NormSampleYears     int           `env:"NORM_SAMPLE_YEARS,default=3"`      // multiyear only
	NormSamplesPerMonth int           `env:"NORM_SAMPLES_PER_MONTH,default=2"` // multiyear only
	NormCacheTTL        time.Duration `env:"NORM_CACHE_TTL"`                   // 0 means strategy default

	// Dashboard generation
	RefreshInterval    time.Duration `env:"REFRESH_INTERVAL,default=1h"`
	DashboardRetention time.Duration `env:"DASHBOARD_RETENTION,default=720h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.DeploymentMode {
	case "local", "gcs":
	default:
		return fmt.Errorf("invalid DEPLOYMENT_MODE %q: must be local or gcs", c.DeploymentMode)
	}
	if c.DeploymentMode == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required for gcs deployment")
	}
	switch c.NormModel {
	case "empirical", "analytic":
	default:
		return fmt.Errorf("invalid NORM_MODEL %q: must be empirical or analytic", c.NormModel)
	}
	switch c.NormSampling {
	case "multiyear", "singleyear":
	default:
		return fmt.Errorf("invalid NORM_SAMPLING %q: must be multiyear or singleyear", c.NormSampling)
	}
	return nil
}

// CapacitiesPath returns the path of the per-country capacity CSV.
func (c *Config) CapacitiesPath() string {
	return filepath.Join(c.DataDir, "solar_capacities.csv")
}

// BoundariesPath returns the path of the country boundary GeoJSON.
func (c *Config) BoundariesPath() string {
	return filepath.Join(c.DataDir, "countries.geojson")
}

// NormTTL returns the configured norm cache TTL, or the sampling strategy's
// default when unset: 30 days for the multiyear grid, 24 hours for the
// cheaper single-year sweep.
func (c *Config) NormTTL() time.Duration {
	if c.NormCacheTTL > 0 {
		return c.NormCacheTTL
	}
	if c.NormSampling == "singleyear" {
		return 24 * time.Hour
	}
	return 720 * time.Hour
}
