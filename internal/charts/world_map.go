package charts

import (
	"encoding/json"
	"fmt"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// mapFrameLimit bounds the timeline so dashboards with long horizons stay
// light; frames beyond it are sampled evenly.
const mapFrameLimit = 24

// generateWorldMapSnippet builds an ECharts choropleth with a timeline
// slider stepping through per-country generation frames. The country
// boundaries are fetched at view time from the dashboard's own folder, so
// the snippet is only produced when the snapshot carries map frames.
func (cg *ChartGenerator) generateWorldMapSnippet(snapshot *models.GlobalSnapshot) (ChartSnippet, error) {
	if snapshot == nil {
		return ChartSnippet{}, fmt.Errorf("snapshot cannot be nil")
	}
	frames := sampleFrames(snapshot.MapFrames)
	if len(frames) == 0 {
		return ChartSnippet{}, fmt.Errorf("no map frames available")
	}

	id := "chart-world-map"

	timelineLabels := make([]string, 0, len(frames))
	frameOptions := make([]interface{}, 0, len(frames))
	maxGW := 0.0

	for _, frame := range frames {
		timelineLabels = append(timelineLabels, frame.Timestamp.Format("Jan 02 15:04"))

		data := make([]map[string]interface{}, 0, len(frame.PowerGW))
		for code, gw := range frame.PowerGW {
			if gw > maxGW {
				maxGW = gw
			}
			data = append(data, map[string]interface{}{"name": code, "value": round3(gw)})
		}
		frameOptions = append(frameOptions, map[string]interface{}{
			"series": []interface{}{map[string]interface{}{"data": data}},
		})
	}
	if maxGW == 0 {
		maxGW = 1
	}

	option := map[string]interface{}{
		"baseOption": map[string]interface{}{
			"timeline": map[string]interface{}{
				"axisType":     "category",
				"autoPlay":     true,
				"playInterval": 1500,
				"data":         timelineLabels,
				"label":        map[string]interface{}{"show": false},
				"bottom":       0,
			},
			"tooltip": map[string]interface{}{"trigger": "item", "formatter": "{b}: {c} GW"},
			"visualMap": map[string]interface{}{
				"min":        0,
				"max":        round3(maxGW),
				"calculable": true,
				"left":       "left",
				"bottom":     "15%",
				"inRange": map[string]interface{}{
					"color": []string{"#1a2a4a", "#2166ac", "#fddbc7", "#fdae61", "#f46d43", "#d73027"},
				},
			},
			"series": []interface{}{
				map[string]interface{}{
					"type":         "map",
					"map":          "countries",
					"nameProperty": "ISO_A3",
					"roam":         true,
					"emphasis":     map[string]interface{}{"label": map[string]interface{}{"show": true}},
				},
			},
		},
		"options": frameOptions,
	}

	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, err
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:520px;\"></div>", id)

	// The map needs boundaries registered before setOption, so this script
	// fetches the GeoJSON from the dashboard folder first.
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;fetch('%s').then(function(r){return r.json();}).then(function(geo){echarts.registerMap('countries',geo);var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});}).catch(function(e){el.innerHTML='<p>Map unavailable: '+e+'</p>';});})();</script>`,
		id, cg.assetURL("countries.geojson"), string(optJSON))

	completeHTML := fmt.Sprintf(`<div class="chart-container">
	<h3>Generation Map</h3>
	%s
</div>
%s`, div, script)

	return ChartSnippet{ID: id, Title: "Generation Map", Div: div, Script: script, HTML: completeHTML}, nil
}

// assetURL builds the proxy URL for a file stored alongside the dashboard.
func (cg *ChartGenerator) assetURL(filename string) string {
	if cg.folderPath != "" {
		return fmt.Sprintf("/files/%s/%s", cg.folderPath, filename)
	}
	return fmt.Sprintf("/files/%s", filename)
}

// sampleFrames thins the frame list to at most mapFrameLimit entries.
func sampleFrames(frames []models.MapFrame) []models.MapFrame {
	if len(frames) <= mapFrameLimit {
		return frames
	}
	stride := (len(frames) + mapFrameLimit - 1) / mapFrameLimit
	sampled := make([]models.MapFrame, 0, mapFrameLimit)
	for i := 0; i < len(frames); i += stride {
		sampled = append(sampled, frames[i])
	}
	return sampled
}
