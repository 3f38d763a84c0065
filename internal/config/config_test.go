package config

import (
	"context"
	"os"
	"testing"
	"time"
)

// clearEnv removes service environment variables for the duration of a test
// so defaults are actually exercised.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "ENVIRONMENT", "DEPLOYMENT_MODE", "GCP_PROJECT_ID", "GCS_BUCKET",
		"LOCAL_DASHBOARDS_DIR", "MOCKUP_MODE", "DATA_DIR", "QUARTZ_API_URL",
		"PROVIDER_RATE_LIMIT", "PROVIDER_CONCURRENCY", "NORM_MODEL",
		"NORM_SAMPLING", "NORM_SAMPLE_YEARS", "NORM_SAMPLES_PER_MONTH",
		"NORM_CACHE_TTL", "REFRESH_INTERVAL", "DASHBOARD_RETENTION",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, v := range vars {
		if val, ok := os.LookupEnv(v); ok {
			os.Unsetenv(v)
			t.Cleanup(func() { os.Setenv(v, val) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8980" {
		t.Errorf("Expected default port 8980, got %s", cfg.Port)
	}
	if cfg.DeploymentMode != "local" {
		t.Errorf("Expected default deployment mode local, got %s", cfg.DeploymentMode)
	}
	if cfg.NormModel != "empirical" {
		t.Errorf("Expected default norm model empirical, got %s", cfg.NormModel)
	}
	if cfg.NormSampling != "multiyear" {
		t.Errorf("Expected default sampling multiyear, got %s", cfg.NormSampling)
	}
	if cfg.RefreshInterval != time.Hour {
		t.Errorf("Expected default refresh interval 1h, got %v", cfg.RefreshInterval)
	}
}

func TestLoadConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
	}{
		{
			name: "gcs mode requires bucket",
			envVars: map[string]string{
				"DEPLOYMENT_MODE": "gcs",
			},
			wantErr: true,
		},
		{
			name: "gcs mode with bucket",
			envVars: map[string]string{
				"DEPLOYMENT_MODE": "gcs",
				"GCS_BUCKET":      "solar-dashboards",
			},
			wantErr: false,
		},
		{
			name: "invalid norm model",
			envVars: map[string]string{
				"NORM_MODEL": "psychic",
			},
			wantErr: true,
		},
		{
			name: "invalid sampling strategy",
			envVars: map[string]string{
				"NORM_SAMPLING": "hourly",
			},
			wantErr: true,
		},
		{
			name: "invalid deployment mode",
			envVars: map[string]string{
				"DEPLOYMENT_MODE": "ftp",
			},
			wantErr: true,
		},
		{
			name: "analytic model accepted",
			envVars: map[string]string{
				"NORM_MODEL": "analytic",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := Load(context.Background())
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestNormTTL(t *testing.T) {
	cfg := &Config{NormSampling: "multiyear"}
	if ttl := cfg.NormTTL(); ttl != 720*time.Hour {
		t.Errorf("Expected multiyear TTL 720h, got %v", ttl)
	}

	cfg.NormSampling = "singleyear"
	if ttl := cfg.NormTTL(); ttl != 24*time.Hour {
		t.Errorf("Expected singleyear TTL 24h, got %v", ttl)
	}

	cfg.NormCacheTTL = 2 * time.Hour
	if ttl := cfg.NormTTL(); ttl != 2*time.Hour {
		t.Errorf("Expected explicit TTL to win, got %v", ttl)
	}
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{DataDir: "/srv/solar/data"}

	if got := cfg.CapacitiesPath(); got != "/srv/solar/data/solar_capacities.csv" {
		t.Errorf("Unexpected capacities path: %s", got)
	}
	if got := cfg.BoundariesPath(); got != "/srv/solar/data/countries.geojson" {
		t.Errorf("Unexpected boundaries path: %s", got)
	}
}

func TestGetVersion(t *testing.T) {
	t.Setenv("APP_VERSION", "2.3.4")
	if v := GetVersion(); v != "2.3.4" {
		t.Errorf("Expected APP_VERSION to win, got %s", v)
	}
}
