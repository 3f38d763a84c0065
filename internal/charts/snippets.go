package charts

// ChartSnippet represents an embeddable ECharts chart fragment.
// Div should contain a single root <div id="..." style="..."></div>
// Script should contain the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

const echartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// snippetScript wraps an ECharts option JSON in the init boilerplate shared
// by every snippet.
func snippetScript(id, optionJSON string) string {
	return `<script>(function(){var el=document.getElementById('` + id + `');if(!el)return;var c=echarts.init(el);var option=` + optionJSON + `;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`
}
