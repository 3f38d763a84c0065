package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// generateGlobalForecastImage renders the worldwide forecast-vs-norm chart
// as a static PNG for feeds and exports.
func (cg *ChartGenerator) generateGlobalForecastImage(snapshot *models.GlobalSnapshot) (string, error) {
	if len(snapshot.Global) == 0 {
		return "", fmt.Errorf("no global series to render")
	}

	filename := filepath.Join(cg.outputDir, "global_forecast.png")

	forecastX, forecastY := timeSeriesValues(snapshot.Global)
	normX, normY := timeSeriesValues(snapshot.GlobalNorm)

	peak := models.PeakPowerGW(snapshot.Global)
	if normPeak := models.PeakPowerGW(snapshot.GlobalNorm); normPeak > peak {
		peak = normPeak
	}
	if peak == 0 {
		peak = 1
	}

	graph := chart.Chart{
		Title: "Global Solar Generation Forecast",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   70,
				Right:  20,
				Bottom: 60,
			},
		},
		Height: 400,
		Width:  800,
		XAxis: chart.XAxis{
			Name: "Time (UTC)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 9,
			},
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(time.Time); ok {
					return t.Format("Jan 02 15:04")
				}
				return ""
			},
			Ticks: timeTicks(forecastX),
		},
		YAxis: chart.YAxis{
			Name: "Power (GW)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: peak * 1.15,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Forecast",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 51, G: 102, B: 204, A: 255}, // Blue
					StrokeWidth: 3,
				},
				XValues: forecastX,
				YValues: forecastY,
			},
			chart.TimeSeries{
				Name: "Seasonal norm",
				Style: chart.Style{
					StrokeColor:     drawing.Color{R: 253, G: 126, B: 20, A: 255}, // Orange
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
				XValues: normX,
				YValues: normY,
			},
		},
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create forecast chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render forecast chart: %w", err)
	}

	return filename, nil
}

// timeSeriesValues splits a generation series into go-chart axis slices.
func timeSeriesValues(series []models.GenerationPoint) ([]time.Time, []float64) {
	xValues := make([]time.Time, 0, len(series))
	yValues := make([]float64, 0, len(series))
	for _, p := range series {
		xValues = append(xValues, p.Timestamp)
		yValues = append(yValues, p.PowerGW)
	}
	return xValues, yValues
}

// timeTicks creates x-axis ticks, thinning long series to stay readable.
func timeTicks(xValues []time.Time) []chart.Tick {
	var ticks []chart.Tick

	if len(xValues) == 0 {
		return ticks
	}

	stride := 1
	if len(xValues) > 8 {
		stride = len(xValues) / 8
	}

	for i := 0; i < len(xValues); i += stride {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(xValues[i]),
			Label: xValues[i].Format("02 15:04"),
		})
	}

	return ticks
}
