package charts

import (
	"encoding/json"
	"fmt"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// rankingLimit caps the capacity bar chart to the biggest fleets.
const rankingLimit = 15

// generateCapacityRankingSnippet builds an ECharts bar chart of installed
// capacity for the largest country fleets in the snapshot.
func (cg *ChartGenerator) generateCapacityRankingSnippet(snapshot *models.GlobalSnapshot) (ChartSnippet, error) {
	if snapshot == nil {
		return ChartSnippet{}, fmt.Errorf("snapshot cannot be nil")
	}
	if len(snapshot.Countries) == 0 {
		return ChartSnippet{}, fmt.Errorf("no countries to rank")
	}

	id := "chart-capacity-ranking"

	// Countries arrive sorted by capacity already.
	limit := len(snapshot.Countries)
	if limit > rankingLimit {
		limit = rankingLimit
	}

	labels := make([]string, 0, limit)
	seriesData := make([]map[string]interface{}, 0, limit)
	for _, cf := range snapshot.Countries[:limit] {
		labels = append(labels, cf.Country.Code)
		seriesData = append(seriesData, map[string]interface{}{"value": round3(cf.Country.CapacityGW)})
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{"trigger": "axis", "axisPointer": map[string]interface{}{"type": "shadow"}},
		"grid":    map[string]interface{}{"left": "8%", "right": "4%", "bottom": "8%", "containLabel": true},
		"xAxis":   map[string]interface{}{"type": "category", "data": labels},
		"yAxis":   map[string]interface{}{"type": "value", "name": "GW"},
		"series":  []interface{}{map[string]interface{}{"type": "bar", "data": seriesData, "barWidth": "50%"}},
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:360px;\"></div>", id)
	script := snippetScript(id, string(optJSON))

	completeHTML := fmt.Sprintf(`<div class="chart-container">
	<h3>Installed Capacity Ranking</h3>
	%s
</div>
%s`, div, script)

	return ChartSnippet{ID: id, Title: "Installed Capacity Ranking", Div: div, Script: script, HTML: completeHTML}, nil
}
