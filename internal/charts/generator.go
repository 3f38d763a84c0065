package charts

import (
	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// countryChartLimit keeps per-country sections to the biggest installations
// so the dashboard stays readable.
const countryChartLimit = 12

// ChartGenerator builds dashboard charts from a global snapshot: embeddable
// ECharts snippets for the HTML dashboard and static PNG images for feeds
// and exports.
type ChartGenerator struct {
	outputDir  string
	folderPath string
}

// NewChartGenerator creates a chart generator. outputDir receives PNG
// images; folderPath is the dashboard's storage folder, used to build
// proxy URLs for assets referenced from snippets ("" for local mode).
func NewChartGenerator(outputDir, folderPath string) *ChartGenerator {
	return &ChartGenerator{
		outputDir:  outputDir,
		folderPath: folderPath,
	}
}

// GenerateSnippets creates all ECharts snippets for a dashboard. Individual
// chart failures are skipped so one bad series cannot blank the whole page.
func (cg *ChartGenerator) GenerateSnippets(snapshot *models.GlobalSnapshot) ([]ChartSnippet, error) {
	if snapshot == nil {
		return []ChartSnippet{}, nil
	}

	var snippets []ChartSnippet

	if global, err := cg.generateGlobalForecastSnippet(snapshot); err == nil {
		snippets = append(snippets, global)
	}

	if gauge, err := cg.generateOutputGaugeSnippet(snapshot); err == nil {
		snippets = append(snippets, gauge)
	}

	if capacity, err := cg.generateCapacityRankingSnippet(snapshot); err == nil {
		snippets = append(snippets, capacity)
	}

	if worldMap, err := cg.generateWorldMapSnippet(snapshot); err == nil {
		snippets = append(snippets, worldMap)
	}

	if heatmap, err := cg.generateNormHeatmapSnippet(snapshot); err == nil {
		snippets = append(snippets, heatmap)
	}

	for i, cf := range snapshot.Countries {
		if i >= countryChartLimit {
			break
		}
		if country, err := cg.generateCountrySnippet(cf); err == nil {
			snippets = append(snippets, country)
		}
	}

	return snippets, nil
}

// GenerateChartImages creates static PNG charts in the output directory and
// returns the written file paths.
func (cg *ChartGenerator) GenerateChartImages(snapshot *models.GlobalSnapshot) ([]string, error) {
	if snapshot == nil {
		return []string{}, nil
	}

	var chartFiles []string

	if forecastChart, err := cg.generateGlobalForecastImage(snapshot); err == nil {
		chartFiles = append(chartFiles, forecastChart)
	}

	if capacityChart, err := cg.generateCapacityRankingImage(snapshot); err == nil {
		chartFiles = append(chartFiles, capacityChart)
	}

	return chartFiles, nil
}
