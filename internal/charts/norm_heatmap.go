package charts

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// heatmapCountryLimit caps the norm heatmap rows to the biggest fleets.
const heatmapCountryLimit = 12

// heatmapElementID is the DOM id of the inner chart element. go-echarts
// derives a JavaScript identifier from it, so it must stay hyphen-free.
const heatmapElementID = "normheatmap"

// normHeatmapPalette maps low norms to blue and high norms to red.
var normHeatmapPalette = []string{
	"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8", "#ffffbf",
	"#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026",
}

// generateNormHeatmapSnippet builds a country-by-hour heatmap of the average
// seasonal norm across the forecast window, so typical daylight patterns per
// country can be compared at a glance.
func (cg *ChartGenerator) generateNormHeatmapSnippet(snapshot *models.GlobalSnapshot) (ChartSnippet, error) {
	if snapshot == nil {
		return ChartSnippet{}, fmt.Errorf("snapshot cannot be nil")
	}

	id := "chart-norm-heatmap"

	// Countries arrive sorted by capacity already.
	var selected []models.CountryForecast
	for _, cf := range snapshot.Countries {
		if len(cf.SeasonalNorm) == 0 {
			continue
		}
		selected = append(selected, cf)
		if len(selected) >= heatmapCountryLimit {
			break
		}
	}
	if len(selected) == 0 {
		return ChartSnippet{}, fmt.Errorf("no seasonal norm series to plot")
	}

	hourLabels := make([]string, 24)
	for h := 0; h < 24; h++ {
		hourLabels[h] = fmt.Sprintf("%02d", h)
	}

	// Category axes index from the bottom, so reverse the rows to keep the
	// largest fleet on top.
	countryLabels := make([]string, len(selected))
	var cells []opts.HeatMapData
	maxNorm := 0.0
	for i, cf := range selected {
		row := len(selected) - 1 - i
		countryLabels[row] = cf.Country.Code

		var sums, counts [24]float64
		for _, p := range cf.SeasonalNorm {
			hour := p.Timestamp.UTC().Hour()
			sums[hour] += p.PowerGW
			counts[hour]++
		}
		for h := 0; h < 24; h++ {
			if counts[h] == 0 {
				continue
			}
			avg := round3(sums[h] / counts[h])
			if avg > maxNorm {
				maxNorm = avg
			}
			cells = append(cells, opts.HeatMapData{Value: [3]interface{}{h, row, avg}})
		}
	}

	vmMax := math.Ceil(maxNorm)
	if vmMax < 1 {
		vmMax = 1
	}

	hm := echarts.NewHeatMap()
	hm.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			ChartID: heatmapElementID,
			Width:   "100%",
			Height:  "420px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    "Seasonal Norm by Hour",
			Subtitle: "Average norm output in GW per UTC hour",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Data: hourLabels,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: countryLabels,
		}),
		echarts.WithVisualMapOpts(opts.VisualMap{
			Min: 0,
			Max: float32(vmMax),
			InRange: &opts.VisualMapInRange{
				Color: normHeatmapPalette,
			},
		}),
	)
	hm.AddSeries("Seasonal Norm", cells)

	var buf bytes.Buffer
	if err := hm.Render(&buf); err != nil {
		return ChartSnippet{}, err
	}

	div, script, err := extractChartFragment(buf.String())
	if err != nil {
		return ChartSnippet{}, err
	}

	completeHTML := fmt.Sprintf(`<div class="chart-container" id="%s">
	<h3>Seasonal Norm by Hour</h3>
	%s
</div>
%s`, id, div, script)

	return ChartSnippet{ID: id, Title: "Seasonal Norm by Hour", Div: div, Script: script, HTML: completeHTML}, nil
}

// extractChartFragment pulls the chart div and its init script out of a full
// go-echarts page. The page's own asset tags and trailing style block are
// dropped; the dashboard loads the ECharts runtime once for every chart.
func extractChartFragment(page string) (string, string, error) {
	divStart := strings.Index(page, `<div class="container"`)
	scriptStart := strings.Index(page, `<script type="text/javascript">`)
	if divStart < 0 || scriptStart < 0 || scriptStart < divStart {
		return "", "", fmt.Errorf("unexpected chart markup")
	}
	scriptEnd := strings.Index(page[scriptStart:], "</script>")
	if scriptEnd < 0 {
		return "", "", fmt.Errorf("unexpected chart markup")
	}
	scriptEnd += scriptStart + len("</script>")

	div := strings.TrimSpace(page[divStart:scriptStart])
	script := strings.TrimSpace(page[scriptStart:scriptEnd])
	return div, script, nil
}
