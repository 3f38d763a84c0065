package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/openclimatefix/global-solar-forecast/internal/charts"
	"github.com/openclimatefix/global-solar-forecast/internal/config"
	"github.com/openclimatefix/global-solar-forecast/internal/countries"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// HTMLBuilder turns a global snapshot into the dashboard HTML document.
type HTMLBuilder struct {
	goldmark goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder.
func NewHTMLBuilder() *HTMLBuilder {
	// Configure goldmark with extensions
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // Allow raw HTML in markdown
		),
	)

	return &HTMLBuilder{
		goldmark: md,
	}
}

// TemplateData represents the data structure for the dashboard template.
type TemplateData struct {
	Date          string
	GeneratedAt   string
	CSSFilePath   string
	Version       string
	TotalCapacity string
	CountryCount  int
	PeakForecast  string
	PeakTime      string

	// Chart placeholders
	OutputGauge   template.HTML
	GlobalChart   template.HTML
	WorldMap      template.HTML
	CapacityChart template.HTML
	NormHeatmap   template.HTML
	CountryCharts template.HTML
	CountryTable  template.HTML
	About         template.HTML
	Artifacts     template.HTML
}

// ChartTemplateData represents chart snippets keyed for template substitution.
type ChartTemplateData struct {
	OutputGauge   template.HTML
	GlobalChart   template.HTML
	WorldMap      template.HTML
	CapacityChart template.HTML
	NormHeatmap   template.HTML
	CountryCharts template.HTML
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark.
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// GenerateStaticCSS returns the static CSS content saved next to the
// dashboard.
func (h *HTMLBuilder) GenerateStaticCSS() string {
	return stylesCSS
}

// GenerateChartData creates all chart snippets and maps them to template
// fields.
func (h *HTMLBuilder) GenerateChartData(snapshot *models.GlobalSnapshot, folderPath string) (*ChartTemplateData, error) {
	chartGen := charts.NewChartGenerator("", folderPath)

	snippets, err := chartGen.GenerateSnippets(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart snippets: %w", err)
	}

	chartData := &ChartTemplateData{}
	var countryCharts strings.Builder

	for _, snippet := range snippets {
		switch {
		case snippet.ID == "chart-output-gauge":
			chartData.OutputGauge = template.HTML(snippet.HTML)
		case snippet.ID == "chart-global-forecast":
			chartData.GlobalChart = template.HTML(snippet.HTML)
		case snippet.ID == "chart-world-map":
			chartData.WorldMap = template.HTML(snippet.HTML)
		case snippet.ID == "chart-capacity-ranking":
			chartData.CapacityChart = template.HTML(snippet.HTML)
		case snippet.ID == "chart-norm-heatmap":
			chartData.NormHeatmap = template.HTML(snippet.HTML)
		case strings.HasPrefix(snippet.ID, "chart-country-"):
			countryCharts.WriteString(snippet.HTML)
			countryCharts.WriteString("\n")
		}
	}
	chartData.CountryCharts = template.HTML(countryCharts.String())

	return chartData, nil
}

// BuildCompleteHTML creates the complete dashboard document with template
// substitution.
func (h *HTMLBuilder) BuildCompleteHTML(snapshot *models.GlobalSnapshot, chartData *ChartTemplateData, folderPath string) (string, error) {
	aboutHTML, err := h.ConvertMarkdownToHTML(aboutMarkdown)
	if err != nil {
		return "", fmt.Errorf("failed to render about section: %w", err)
	}

	peakGW := models.PeakPowerGW(snapshot.Global)
	peakTime := ""
	for _, p := range snapshot.Global {
		if p.PowerGW == peakGW {
			peakTime = p.Timestamp.Format("Jan 02 15:04 UTC")
			break
		}
	}

	templateData := TemplateData{
		Date:          snapshot.GeneratedAt.Format("2006-01-02"),
		GeneratedAt:   snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		CSSFilePath:   assetPath(folderPath, "styles.css"),
		Version:       config.GetVersion(),
		TotalCapacity: fmt.Sprintf("%.1f GW", snapshot.TotalCapacityGW),
		CountryCount:  len(snapshot.Countries),
		PeakForecast:  fmt.Sprintf("%.1f GW", peakGW),
		PeakTime:      peakTime,
		OutputGauge:   chartData.OutputGauge,
		GlobalChart:   chartData.GlobalChart,
		WorldMap:      chartData.WorldMap,
		CapacityChart: chartData.CapacityChart,
		NormHeatmap:   chartData.NormHeatmap,
		CountryCharts: chartData.CountryCharts,
		CountryTable:  h.buildCountryTable(snapshot),
		About:         template.HTML(aboutHTML),
		Artifacts:     h.buildArtifactLinks(folderPath),
	}

	return h.executeTemplate(templateData)
}

// executeTemplate executes the dashboard template with the provided data.
func (h *HTMLBuilder) executeTemplate(data TemplateData) (string, error) {
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}).Parse(dashboardTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// buildCountryTable creates the per-country summary table HTML. Peak times
// are shown in each country's own timezone so operators see local solar
// noon rather than UTC.
func (h *HTMLBuilder) buildCountryTable(snapshot *models.GlobalSnapshot) template.HTML {
	if snapshot == nil || len(snapshot.Countries) == 0 {
		return template.HTML("")
	}

	var buf strings.Builder
	buf.WriteString(`<table class="country-table">`)
	buf.WriteString(`<thead><tr><th>Country</th><th>Capacity</th><th>Peak Forecast</th><th>Peak (local time)</th><th>Norm Peak</th></tr></thead>`)
	buf.WriteString(`<tbody>`)

	for _, cf := range snapshot.Countries {
		peakGW := models.PeakPowerGW(cf.Forecast)
		peakLocal := ""
		for _, p := range cf.Forecast {
			if p.PowerGW == peakGW {
				peakLocal = countries.Localize(p.Timestamp, cf.Country.Timezone).Format("15:04 MST")
				break
			}
		}

		buf.WriteString(fmt.Sprintf(`<tr>
			<td>%s (%s)</td>
			<td>%.1f GW</td>
			<td>%.2f GW</td>
			<td>%s</td>
			<td>%.2f GW</td>
		</tr>`,
			template.HTMLEscapeString(cf.Country.Name),
			template.HTMLEscapeString(cf.Country.Code),
			cf.Country.CapacityGW,
			peakGW,
			template.HTMLEscapeString(peakLocal),
			models.PeakPowerGW(cf.SeasonalNorm),
		))
	}

	buf.WriteString(`</tbody></table>`)
	return template.HTML(buf.String())
}

// buildArtifactLinks creates the download links for the dashboard's data
// files.
func (h *HTMLBuilder) buildArtifactLinks(folderPath string) template.HTML {
	artifacts := []string{"snapshot.json", "countries.json", "global_forecast.png", "capacity_ranking.png"}

	var buf strings.Builder
	buf.WriteString(`<ul class="artifact-list">`)
	for _, name := range artifacts {
		title := ToTitleCase(strings.ReplaceAll(strings.TrimSuffix(name, extOf(name)), "_", " "))
		buf.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a></li>`, assetPath(folderPath, name), title))
	}
	buf.WriteString(`</ul>`)
	return template.HTML(buf.String())
}

// assetPath builds the proxy URL for a file stored with the dashboard.
func assetPath(folderPath, filename string) string {
	if folderPath != "" {
		return fmt.Sprintf("/files/%s/%s", folderPath, filename)
	}
	return fmt.Sprintf("/files/%s", filename)
}

func extOf(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}
