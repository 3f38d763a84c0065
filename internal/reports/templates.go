package reports

// dashboardTemplate is the complete HTML document for a dashboard. Chart
// snippets arrive pre-rendered as safe HTML fields.
const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Global Solar Forecast - {{.Date}}</title>
    <link rel="stylesheet" href="{{.CSSFilePath}}">
</head>
<body>
    <div class="header">
        <h1>&#9728; Global Solar Forecast</h1>
        <div class="timestamp">Generated: {{.GeneratedAt}}</div>
    </div>

    <div class="summary-cards">
        <div class="card">
            <h3>Installed Capacity</h3>
            <div class="metric">{{.TotalCapacity}}</div>
            <div>Tracked worldwide</div>
        </div>
        <div class="card">
            <h3>Countries</h3>
            <div class="metric">{{.CountryCount}}</div>
            <div>With live forecasts</div>
        </div>
        <div class="card">
            <h3>Peak Forecast</h3>
            <div class="metric">{{.PeakForecast}}</div>
            <div>{{.PeakTime}}</div>
        </div>
    </div>

    <div class="charts-section">
        <div class="gauge-panel">
            {{.OutputGauge}}
        </div>

        <div class="chart-block">
            {{.GlobalChart}}
        </div>

        <div class="chart-block">
            {{.WorldMap}}
        </div>

        <div class="chart-block">
            {{.CapacityChart}}
        </div>

        <div class="chart-block">
            {{.NormHeatmap}}
        </div>
    </div>

    <div class="content">
        <h2>Country Breakdown</h2>
        {{.CountryTable}}
    </div>

    <div class="charts-section">
        <h2>Country Forecasts</h2>
        <div class="country-charts-grid">
            {{.CountryCharts}}
        </div>
    </div>

    <div class="content">
        {{.About}}
    </div>

    <div class="content">
        <h2>Data Files</h2>
        {{.Artifacts}}
    </div>

    <div class="footer">
        <p>Global Solar Forecast v{{.Version}} | Forecasts by Quartz Solar</p>
        <p>Seasonal norms estimated from historical forecast samples</p>
    </div>
</body>
</html>`

// stylesCSS is written as a static styles.css next to each dashboard.
const stylesCSS = `body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    line-height: 1.6;
    color: #333;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
    background-color: #f8f9fa;
}
.header {
    background: linear-gradient(135deg, #f6a821 0%, #d35400 100%);
    color: white;
    padding: 30px;
    border-radius: 10px;
    margin-bottom: 30px;
    text-align: center;
}
.header h1 {
    margin: 0;
    font-size: 2.5em;
}
.header .timestamp {
    opacity: 0.9;
    margin-top: 10px;
}
.summary-cards {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
    gap: 20px;
    margin-bottom: 30px;
}
.card {
    background: white;
    padding: 20px;
    border-radius: 8px;
    box-shadow: 0 2px 10px rgba(0,0,0,0.1);
    border-left: 4px solid #f6a821;
}
.card h3 {
    margin-top: 0;
    color: #d35400;
}
.metric {
    font-size: 1.5em;
    font-weight: bold;
    color: #333;
}
.content {
    background: white;
    padding: 30px;
    border-radius: 8px;
    box-shadow: 0 2px 10px rgba(0,0,0,0.1);
    margin-bottom: 30px;
}
.charts-section {
    background: white;
    padding: 30px;
    border-radius: 8px;
    box-shadow: 0 2px 10px rgba(0,0,0,0.1);
    margin-bottom: 30px;
}
.chart-block {
    margin-bottom: 40px;
}
.gauge-panel {
    max-width: 420px;
    margin: 0 auto 20px auto;
}
.country-charts-grid {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(480px, 1fr));
    gap: 24px;
}
.country-chart h4 {
    margin-bottom: 4px;
}
h1, h2, h3 { color: #333; }
h2 { border-bottom: 2px solid #f6a821; padding-bottom: 5px; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
th { background-color: #f8f9fa; font-weight: bold; }
.country-table td:first-child { font-weight: bold; }
.artifact-list li { margin: 6px 0; }
.artifact-list a { color: #d35400; text-decoration: none; }
.artifact-list a:hover { text-decoration: underline; }
.footer {
    text-align: center;
    color: #666;
    font-size: 0.9em;
    margin-top: 30px;
}
`

// aboutMarkdown documents how the numbers on the dashboard are produced.
const aboutMarkdown = `## About This Dashboard

Solar generation forecasts are fetched per country from the
[Quartz Solar](https://quartz.solar) open API and summed into the global
view above. Power is shown in gigawatts (GW); all chart times are UTC
unless marked otherwise.

### Seasonal Norms

The dashed *seasonal norm* lines answer "is today unusual?". Each
country's norm is a table of typical output per calendar month and UTC
hour, built one of two ways:

- **Empirical** (default): provider forecasts are sampled across the
  recent years and averaged into (month, hour) buckets. Countries with
  no usable history fall back to a zero norm rather than blocking the
  dashboard.
- **Analytic**: a clear-sky approximation from solar geometry alone -
  day length and sun elevation from latitude and season, scaled by
  installed capacity at a 20% capacity factor.

### Caveats

- Norms are climatology, not weather: a cloudy week will sit well below
  its norm.
- Installed capacities are a maintained snapshot and lag real
  deployments.
- Countries without coordinates or capacity are listed but not
  forecast.
`
