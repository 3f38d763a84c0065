package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// generateCapacityRankingImage renders the installed-capacity ranking as a
// static PNG bar chart.
func (cg *ChartGenerator) generateCapacityRankingImage(snapshot *models.GlobalSnapshot) (string, error) {
	if len(snapshot.Countries) == 0 {
		return "", fmt.Errorf("no countries to render")
	}

	filename := filepath.Join(cg.outputDir, "capacity_ranking.png")

	limit := len(snapshot.Countries)
	if limit > 10 {
		limit = 10
	}

	maxCapacity := snapshot.Countries[0].Country.CapacityGW
	if maxCapacity == 0 {
		maxCapacity = 1
	}

	bars := make([]chart.Value, 0, limit)
	for _, cf := range snapshot.Countries[:limit] {
		bars = append(bars, chart.Value{
			Value: cf.Country.CapacityGW,
			Label: cf.Country.Code,
			Style: chart.Style{
				FillColor:   drawing.Color{R: 255, G: 165, B: 0, A: 255}, // Solar orange
				StrokeColor: drawing.Color{R: 52, G: 58, B: 64, A: 255},
				StrokeWidth: 1,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Installed Solar Capacity",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   60,
				Right:  20,
				Bottom: 40,
			},
		},
		Height:   400,
		Width:    700,
		BarWidth: 50,
		XAxis: chart.Style{
			FontSize: 11,
		},
		YAxis: chart.YAxis{
			Name: "Capacity (GW)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxCapacity * 1.1,
			},
		},
		Bars: bars,
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create capacity chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render capacity chart: %w", err)
	}

	return filename, nil
}
