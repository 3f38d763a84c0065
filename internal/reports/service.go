package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openclimatefix/global-solar-forecast/internal/charts"
	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
	"github.com/openclimatefix/global-solar-forecast/internal/storage"
)

// Service orchestrates dashboard generation: charts, HTML, JSON artifacts
// and static assets for one snapshot
type Service struct {
	htmlBuilder    *HTMLBuilder
	boundariesPath string
}

// GeneratedFiles contains all files generated for a dashboard
type GeneratedFiles struct {
	HTMLContent string
	JSONFiles   map[string][]byte
	AssetFiles  map[string][]byte // CSS, PNGs, GeoJSON
	FolderPath  string            // storage folder path for consistency
}

// NewService creates a new dashboard service. boundariesPath points at the
// country boundary GeoJSON served next to the dashboard for the world map;
// an empty or missing file disables the map without failing generation.
func NewService(boundariesPath string) *Service {
	return &Service{
		htmlBuilder:    NewHTMLBuilder(),
		boundariesPath: boundariesPath,
	}
}

// GenerateAllFiles creates all dashboard files (HTML, charts, JSON, assets)
func (s *Service) GenerateAllFiles(ctx context.Context, snapshot *models.GlobalSnapshot) (*GeneratedFiles, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("no snapshot to render")
	}

	files := &GeneratedFiles{
		JSONFiles:  make(map[string][]byte),
		AssetFiles: make(map[string][]byte),
	}

	// Generate unified folder path using storage utility
	files.FolderPath = storage.GenerateDashboardFolderPath(snapshot.GeneratedAt)

	// 1. Generate JSON artifacts
	if err := s.generateSnapshotJSON(snapshot, files); err != nil {
		logger.Warn("Failed to generate snapshot JSON", map[string]interface{}{"error": err.Error()})
	}
	if err := s.generateCountriesJSON(snapshot, files); err != nil {
		logger.Warn("Failed to generate countries JSON", map[string]interface{}{"error": err.Error()})
	}

	// 2. Static assets: stylesheet and world map boundaries
	files.AssetFiles["styles.css"] = []byte(s.htmlBuilder.GenerateStaticCSS())
	if err := s.attachBoundaries(files); err != nil {
		logger.Warn("World map boundaries unavailable", map[string]interface{}{"error": err.Error()})
	}

	// 3. Render PNG chart images
	if err := s.generateChartImages(snapshot, files); err != nil {
		logger.Warn("Failed to generate chart images", map[string]interface{}{"error": err.Error()})
	}

	// 4. Generate dashboard HTML
	if err := s.generateHTML(snapshot, files); err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	return files, nil
}

// generateSnapshotJSON serializes the full snapshot for API consumers
func (s *Service) generateSnapshotJSON(snapshot *models.GlobalSnapshot, files *GeneratedFiles) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	files.JSONFiles["snapshot.json"] = data
	logger.Debug("Generated snapshot JSON", map[string]interface{}{"bytes": len(data)})
	return nil
}

// countrySummary is the per-country entry of countries.json
type countrySummary struct {
	models.CountryInfo
	PeakForecastGW float64 `json:"peak_forecast_gw"`
	PeakNormGW     float64 `json:"peak_norm_gw"`
}

// generateCountriesJSON serializes a compact per-country summary
func (s *Service) generateCountriesJSON(snapshot *models.GlobalSnapshot, files *GeneratedFiles) error {
	summaries := make([]countrySummary, 0, len(snapshot.Countries))
	for _, cf := range snapshot.Countries {
		summaries = append(summaries, countrySummary{
			CountryInfo:    cf.Country,
			PeakForecastGW: models.PeakPowerGW(cf.Forecast),
			PeakNormGW:     models.PeakPowerGW(cf.SeasonalNorm),
		})
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal country summaries: %w", err)
	}
	files.JSONFiles["countries.json"] = data
	logger.Debug("Generated countries JSON", map[string]interface{}{"bytes": len(data)})
	return nil
}

// attachBoundaries copies the boundary GeoJSON next to the dashboard so the
// world map script can fetch it from the same folder
func (s *Service) attachBoundaries(files *GeneratedFiles) error {
	if s.boundariesPath == "" {
		return fmt.Errorf("no boundaries file configured")
	}
	data, err := os.ReadFile(s.boundariesPath)
	if err != nil {
		return fmt.Errorf("failed to read boundaries file: %w", err)
	}
	files.AssetFiles["countries.geojson"] = data
	logger.Debug("Attached boundary GeoJSON", map[string]interface{}{"bytes": len(data)})
	return nil
}

// generateChartImages renders the PNG artifacts into a temporary directory
// and collects them as assets
func (s *Service) generateChartImages(snapshot *models.GlobalSnapshot, files *GeneratedFiles) error {
	tempDir, err := os.MkdirTemp("", "solar-charts-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	chartGen := charts.NewChartGenerator(tempDir, files.FolderPath)
	imagePaths, err := chartGen.GenerateChartImages(snapshot)
	if err != nil {
		return fmt.Errorf("failed to render chart images: %w", err)
	}

	for _, imagePath := range imagePaths {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read chart image %s: %w", imagePath, err)
		}
		files.AssetFiles[filepath.Base(imagePath)] = data
	}

	logger.Debug("Generated chart images", map[string]interface{}{"count": len(imagePaths)})
	return nil
}

// generateHTML builds the complete dashboard document
func (s *Service) generateHTML(snapshot *models.GlobalSnapshot, files *GeneratedFiles) error {
	chartData, err := s.htmlBuilder.GenerateChartData(snapshot, files.FolderPath)
	if err != nil {
		return fmt.Errorf("failed to generate chart data: %w", err)
	}

	html, err := s.htmlBuilder.BuildCompleteHTML(snapshot, chartData, files.FolderPath)
	if err != nil {
		return err
	}

	files.HTMLContent = html
	logger.Debug("Generated dashboard HTML", map[string]interface{}{"bytes": len(files.HTMLContent)})
	return nil
}
