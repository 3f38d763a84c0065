package charts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// generateGlobalForecastSnippet builds an ECharts line chart of worldwide
// generation with the seasonal norm as a dashed overlay.
func (cg *ChartGenerator) generateGlobalForecastSnippet(snapshot *models.GlobalSnapshot) (ChartSnippet, error) {
	if snapshot == nil {
		return ChartSnippet{}, fmt.Errorf("snapshot cannot be nil")
	}

	id := "chart-global-forecast"

	labels := timestampLabels(snapshot.Global)
	forecastData := seriesValues(snapshot.Global)
	normData := seriesValues(snapshot.GlobalNorm)

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"legend":  map[string]interface{}{"data": []string{"Forecast", "Seasonal norm"}, "top": 0},
		"grid":    map[string]interface{}{"left": "6%", "right": "4%", "bottom": "12%", "containLabel": true},
		"xAxis":   map[string]interface{}{"type": "category", "data": labels, "axisLabel": map[string]interface{}{"rotate": 35}},
		"yAxis":   map[string]interface{}{"type": "value", "name": "GW"},
		"series": []interface{}{
			map[string]interface{}{
				"name":      "Forecast",
				"type":      "line",
				"smooth":    true,
				"data":      forecastData,
				"lineStyle": map[string]interface{}{"width": 3},
				"areaStyle": map[string]interface{}{"opacity": 0.15},
			},
			map[string]interface{}{
				"name":      "Seasonal norm",
				"type":      "line",
				"smooth":    true,
				"data":      normData,
				"lineStyle": map[string]interface{}{"width": 2, "type": "dashed"},
			},
		},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:400px;\"></div>", id)
	script := snippetScript(id, string(optJSON))

	completeHTML := fmt.Sprintf(`%s
<div class="chart-container">
	<h3>Global Solar Generation</h3>
	%s
</div>
%s`, echartsCDN, div, script)

	return ChartSnippet{ID: id, Title: "Global Solar Generation", Div: div, Script: script, HTML: completeHTML}, nil
}

// generateCountrySnippet builds a per-country forecast-vs-norm line chart.
func (cg *ChartGenerator) generateCountrySnippet(cf models.CountryForecast) (ChartSnippet, error) {
	if cf.Country.Code == "" {
		return ChartSnippet{}, fmt.Errorf("country code cannot be empty")
	}

	id := fmt.Sprintf("chart-country-%s", strings.ToLower(cf.Country.Code))
	title := fmt.Sprintf("%s (%.1f GW installed)", cf.Country.Name, cf.Country.CapacityGW)

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"legend":  map[string]interface{}{"data": []string{"Forecast", "Seasonal norm"}, "top": 0},
		"grid":    map[string]interface{}{"left": "8%", "right": "4%", "bottom": "14%", "containLabel": true},
		"xAxis":   map[string]interface{}{"type": "category", "data": timestampLabels(cf.Forecast), "axisLabel": map[string]interface{}{"rotate": 35}},
		"yAxis":   map[string]interface{}{"type": "value", "name": "GW"},
		"series": []interface{}{
			map[string]interface{}{
				"name":   "Forecast",
				"type":   "line",
				"smooth": true,
				"data":   seriesValues(cf.Forecast),
			},
			map[string]interface{}{
				"name":      "Seasonal norm",
				"type":      "line",
				"smooth":    true,
				"data":      seriesValues(cf.SeasonalNorm),
				"lineStyle": map[string]interface{}{"type": "dashed"},
			},
		},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:300px;\"></div>", id)
	script := snippetScript(id, string(optJSON))

	completeHTML := fmt.Sprintf(`<div class="country-chart">
	<h4>%s</h4>
	%s
</div>
%s`, title, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}

// timestampLabels renders series timestamps as x-axis category labels.
func timestampLabels(series []models.GenerationPoint) []string {
	labels := make([]string, 0, len(series))
	for _, p := range series {
		labels = append(labels, p.Timestamp.Format("Jan 02 15:04"))
	}
	return labels
}

// seriesValues extracts the GW values for an ECharts series.
func seriesValues(series []models.GenerationPoint) []interface{} {
	values := make([]interface{}, 0, len(series))
	for _, p := range series {
		values = append(values, map[string]interface{}{"value": round3(p.PowerGW)})
	}
	return values
}
