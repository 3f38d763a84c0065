package charts

import (
	"encoding/json"
	"fmt"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// generateOutputGaugeSnippet builds an ECharts gauge showing the first
// forecast timestep's worldwide output against total installed capacity.
func (cg *ChartGenerator) generateOutputGaugeSnippet(snapshot *models.GlobalSnapshot) (ChartSnippet, error) {
	if snapshot == nil {
		return ChartSnippet{}, fmt.Errorf("snapshot cannot be nil")
	}
	if len(snapshot.Global) == 0 || snapshot.TotalCapacityGW <= 0 {
		return ChartSnippet{}, fmt.Errorf("no global series to gauge")
	}

	id := "chart-output-gauge"
	current := snapshot.Global[0].PowerGW
	capacity := snapshot.TotalCapacityGW
	share := current / capacity

	// Utilization bands: solar fleets rarely exceed ~25% of nameplate
	// worldwide since half the planet is dark at any moment.
	var statusText string
	switch {
	case share >= 0.20:
		statusText = "Very High"
	case share >= 0.12:
		statusText = "High"
	case share >= 0.05:
		statusText = "Moderate"
	default:
		statusText = "Low"
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{
			"formatter": "{a} <br/>{b} : {c} GW",
		},
		"series": []interface{}{
			map[string]interface{}{
				"name":        "Global output",
				"type":        "gauge",
				"min":         0,
				"max":         round3(capacity),
				"splitNumber": 5,
				"radius":      "80%",
				"axisLine": map[string]interface{}{
					"lineStyle": map[string]interface{}{
						"width": 20,
						"color": [][]interface{}{
							{0.05, "#6c757d"},
							{0.12, "#ffc107"},
							{0.20, "#fd7e14"},
							{1.0, "#28a745"},
						},
					},
				},
				"pointer": map[string]interface{}{
					"itemStyle": map[string]interface{}{
						"color": "auto",
					},
				},
				"axisTick": map[string]interface{}{
					"distance": -20,
					"length":   8,
					"lineStyle": map[string]interface{}{
						"color": "#fff",
						"width": 2,
					},
				},
				"splitLine": map[string]interface{}{
					"distance": -20,
					"length":   20,
					"lineStyle": map[string]interface{}{
						"color": "#fff",
						"width": 3,
					},
				},
				"axisLabel": map[string]interface{}{
					"color":    "inherit",
					"fontSize": 12,
					"distance": 35,
				},
				"detail": map[string]interface{}{
					"valueAnimation": true,
					"formatter":      fmt.Sprintf("%.1f GW\n%s", current, statusText),
					"color":          "inherit",
					"fontSize":       14,
					"fontWeight":     "bold",
					"offsetCenter":   []interface{}{0, "60%"},
				},
				"data": []interface{}{
					map[string]interface{}{
						"value": round3(current),
						"name":  "Output",
					},
				},
			},
		},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:280px;\"></div>", id)
	script := snippetScript(id, string(optJSON))

	completeHTML := fmt.Sprintf(`%s
<div class="gauge-item">
	<h4>Current Global Output</h4>
	%s
</div>
%s`, echartsCDN, div, script)

	return ChartSnippet{ID: id, Title: "Current Global Output", Div: div, Script: script, HTML: completeHTML}, nil
}
