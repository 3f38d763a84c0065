package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/config"
	"github.com/openclimatefix/global-solar-forecast/internal/countries"
	"github.com/openclimatefix/global-solar-forecast/internal/forecast"
	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/norm"
	"github.com/openclimatefix/global-solar-forecast/internal/quartz"
	"github.com/openclimatefix/global-solar-forecast/internal/reports"
	"github.com/openclimatefix/global-solar-forecast/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config         *config.Config
	Registry       *countries.Registry
	Forecast       *forecast.Service
	Norms          norm.SeasonalNormProvider
	Storage        storage.StorageClient
	Reports        *reports.Service
	DeploymentMode storage.DeploymentMode

	generateMutex sync.Mutex
	log           *logger.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deploymentMode storage.DeploymentMode) (*Server, error) {
	ctx := context.Background()
	log := logger.GetGlobalLogger().WithComponent("server")

	registry, err := countries.LoadRegistry(cfg.CapacitiesPath(), cfg.BoundariesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load country registry: %w", err)
	}

	// Forecast source: the Quartz API, or synthetic forecasts in mockup mode
	var source norm.ForecastSource
	if cfg.MockupMode {
		log.Info("Mockup mode enabled - using synthetic forecasts")
		source = quartz.NewMockSource()
	} else {
		source = quartz.NewClient(cfg.QuartzAPIURL)
	}

	norms := buildNormProvider(cfg, source)

	storageClient, err := storage.NewStorageClient(ctx, deploymentMode, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Infof("Tracking %d countries (%.1f GW installed), %s norms, %s storage",
		len(registry.Forecastable()), registry.TotalCapacityGW(), cfg.NormModel, deploymentMode)

	return &Server{
		Config:         cfg,
		Registry:       registry,
		Forecast:       forecast.NewService(registry, source, norms, cfg.ProviderConcurrency),
		Norms:          norms,
		Storage:        storageClient,
		Reports:        reports.NewService(cfg.BoundariesPath()),
		DeploymentMode: deploymentMode,
		log:            log,
	}, nil
}

// buildNormProvider selects the seasonal norm estimator from configuration
func buildNormProvider(cfg *config.Config, source norm.ForecastSource) norm.SeasonalNormProvider {
	if cfg.NormModel == "analytic" {
		return norm.NewAnalyticModel()
	}
	return norm.NewEmpiricalProvider(norm.NewAggregator(source, norm.AggregatorConfig{
		Sampling:        cfg.NormSampling,
		SampleYears:     cfg.NormSampleYears,
		SamplesPerMonth: cfg.NormSamplesPerMonth,
		TTL:             cfg.NormTTL(),
		RateLimit:       cfg.ProviderRateLimit,
	}))
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Handle specific API routes first
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/generate", s.HandleGenerate)
	mux.HandleFunc("/dashboards", s.HandleListDashboards)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.HandleFunc("/api/countries", s.HandleCountries)
	mux.HandleFunc("/api/norm", s.HandleNorm)

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// GenerationResult summarizes one dashboard generation run
type GenerationResult struct {
	Status       string    `json:"status"`
	DashboardURL string    `json:"dashboard_url"`
	Countries    int       `json:"countries"`
	Timesteps    int       `json:"timesteps"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// GenerateDashboard runs the full pipeline: build the global snapshot,
// render the dashboard files and store them
func (s *Server) GenerateDashboard(ctx context.Context) (*GenerationResult, error) {
	snapshot, err := s.Forecast.BuildSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	files, err := s.Reports.GenerateAllFiles(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dashboard files: %w", err)
	}

	if err := s.storeFiles(ctx, snapshot.GeneratedAt, files); err != nil {
		return nil, err
	}

	// Prune expired dashboards without delaying the response
	go s.pruneOldDashboards()

	return &GenerationResult{
		Status:       "ok",
		DashboardURL: "/files/" + files.FolderPath + "/index.html",
		Countries:    len(snapshot.Countries),
		Timesteps:    len(snapshot.Global),
		GeneratedAt:  snapshot.GeneratedAt,
	}, nil
}

// storeFiles writes every generated file into the dashboard folder. The
// HTML is mandatory; artifact failures are logged and skipped so a partial
// dashboard still goes live.
func (s *Server) storeFiles(ctx context.Context, generatedAt time.Time, files *reports.GeneratedFiles) error {
	if err := s.Storage.StoreFile(ctx, []byte(files.HTMLContent), "index.html", generatedAt); err != nil {
		return fmt.Errorf("failed to store dashboard HTML: %w", err)
	}

	for name, data := range files.JSONFiles {
		if err := s.Storage.StoreFile(ctx, data, name, generatedAt); err != nil {
			s.log.Warn("Failed to store JSON artifact", map[string]interface{}{
				"file":  name,
				"error": err.Error(),
			})
		}
	}
	for name, data := range files.AssetFiles {
		if err := s.Storage.StoreFile(ctx, data, name, generatedAt); err != nil {
			s.log.Warn("Failed to store asset", map[string]interface{}{
				"file":  name,
				"error": err.Error(),
			})
		}
	}

	return nil
}

// RunScheduledGeneration is the scheduler entrypoint: it skips the run
// when a generation is already in flight instead of queueing behind it.
func (s *Server) RunScheduledGeneration(ctx context.Context) error {
	if !s.generateMutex.TryLock() {
		s.log.Warn("Skipping scheduled generation, another run is in progress")
		return nil
	}
	defer s.generateMutex.Unlock()

	_, err := s.GenerateDashboard(ctx)
	return err
}

// pruneOldDashboards removes dashboards past the configured retention
func (s *Server) pruneOldDashboards() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := s.Storage.DeleteOldDashboards(ctx, s.Config.DashboardRetention)
	if err != nil {
		s.log.Warn("Dashboard pruning failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if deleted > 0 {
		s.log.Info("Pruned old dashboards", map[string]interface{}{"count": deleted})
	}
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
