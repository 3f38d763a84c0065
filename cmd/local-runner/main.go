package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/config"
	"github.com/openclimatefix/global-solar-forecast/internal/countries"
	"github.com/openclimatefix/global-solar-forecast/internal/forecast"
	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
	"github.com/openclimatefix/global-solar-forecast/internal/norm"
	"github.com/openclimatefix/global-solar-forecast/internal/quartz"
	"github.com/openclimatefix/global-solar-forecast/internal/reports"
	"github.com/openclimatefix/global-solar-forecast/internal/storage"
)

// LocalRunner generates one dashboard on disk without starting the server
type LocalRunner struct {
	cfg      *config.Config
	registry *countries.Registry
	service  *forecast.Service
	reports  *reports.Service
	storage  *storage.LocalStorageClient
}

func NewLocalRunner(cfg *config.Config) (*LocalRunner, error) {
	registry, err := countries.LoadRegistry(cfg.CapacitiesPath(), cfg.BoundariesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load country registry: %w", err)
	}

	var source norm.ForecastSource
	if cfg.MockupMode {
		source = quartz.NewMockSource()
	} else {
		source = quartz.NewClient(cfg.QuartzAPIURL)
	}

	var norms norm.SeasonalNormProvider
	if cfg.NormModel == "analytic" {
		norms = norm.NewAnalyticModel()
	} else {
		norms = norm.NewEmpiricalProvider(norm.NewAggregator(source, norm.AggregatorConfig{
			Sampling:        cfg.NormSampling,
			SampleYears:     cfg.NormSampleYears,
			SamplesPerMonth: cfg.NormSamplesPerMonth,
			TTL:             cfg.NormTTL(),
			RateLimit:       cfg.ProviderRateLimit,
		}))
	}

	localStorage, err := storage.NewLocalStorageClient(cfg.LocalDashboardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	return &LocalRunner{
		cfg:      cfg,
		registry: registry,
		service:  forecast.NewService(registry, source, norms, cfg.ProviderConcurrency),
		reports:  reports.NewService(cfg.BoundariesPath()),
		storage:  localStorage,
	}, nil
}

func (lr *LocalRunner) GenerateDashboard() error {
	ctx := context.Background()
	startTime := time.Now()

	log.Println("🚀 Starting local dashboard generation...")
	if lr.cfg.MockupMode {
		log.Println("📡 Using synthetic forecasts (set MOCKUP_MODE=false for live Quartz data)")
	} else {
		log.Printf("📡 Fetching forecasts from %s...", lr.cfg.QuartzAPIURL)
	}

	snapshot, err := lr.service.BuildSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot build failed: %w", err)
	}

	log.Printf("✅ Snapshot built:")
	log.Printf("   Countries: %d of %d", len(snapshot.Countries), len(lr.registry.Forecastable()))
	log.Printf("   Installed capacity: %.1f GW", snapshot.TotalCapacityGW)
	log.Printf("   Timesteps: %d", len(snapshot.Global))
	log.Printf("   Peak forecast: %.1f GW", models.PeakPowerGW(snapshot.Global))

	log.Println("🎨 Rendering dashboard files...")
	files, err := lr.reports.GenerateAllFiles(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("dashboard rendering failed: %w", err)
	}

	if err := lr.storage.StoreFile(ctx, []byte(files.HTMLContent), "index.html", snapshot.GeneratedAt); err != nil {
		return fmt.Errorf("failed to store dashboard HTML: %w", err)
	}
	stored := 1
	for name, data := range files.JSONFiles {
		if err := lr.storage.StoreFile(ctx, data, name, snapshot.GeneratedAt); err != nil {
			log.Printf("Failed to store %s: %v", name, err)
			continue
		}
		stored++
	}
	for name, data := range files.AssetFiles {
		if err := lr.storage.StoreFile(ctx, data, name, snapshot.GeneratedAt); err != nil {
			log.Printf("Failed to store %s: %v", name, err)
			continue
		}
		stored++
	}

	duration := time.Since(startTime)
	dashboardDir := filepath.Join(lr.cfg.LocalDashboardsDir, filepath.FromSlash(files.FolderPath))

	log.Printf("🎉 Dashboard generation completed in %v", duration)
	log.Printf("📁 Dashboard folder: %s", dashboardDir)
	log.Printf("📄 Files stored: %d", stored)
	log.Printf("🌐 Open in browser: file://%s", filepath.Join(mustGetWD(), dashboardDir, "index.html"))

	summary := map[string]interface{}{
		"status":            "success",
		"dashboard_dir":     dashboardDir,
		"duration_ms":       duration.Milliseconds(),
		"html_size":         len(files.HTMLContent),
		"files_stored":      stored,
		"generated_at":      snapshot.GeneratedAt.Format(time.RFC3339),
		"countries":         len(snapshot.Countries),
		"peak_forecast_gw":  models.PeakPowerGW(snapshot.Global),
		"total_capacity_gw": snapshot.TotalCapacityGW,
	}

	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")
	log.Printf("📊 Generation Summary:\n%s", summaryJSON)

	return nil
}

func mustGetWD() string {
	wd, err := os.Getwd()
	if err != nil {
		return "/tmp"
	}
	return wd
}

func main() {
	// Offline by default: the runner exists for trying the pipeline without
	// hitting the live API
	if os.Getenv("MOCKUP_MODE") == "" {
		os.Setenv("MOCKUP_MODE", "true")
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	runner, err := NewLocalRunner(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize runner: %v", err)
	}

	if err := runner.GenerateDashboard(); err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}
}
