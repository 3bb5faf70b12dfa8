// Package templates renders the dashboard page and the fragments the SSE
// handler patches into it.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/presentation"
)

// Element IDs patched by the report stream.
const (
	KPIsID    = "kpis"
	TableID   = "data-table"
	ExportsID = "exports"
)

const (
	PlotlyURL   = "https://cdn.jsdelivr.net/npm/plotly.js-dist-min@2.35.2/plotly.min.js"
	DatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
)

var pages = template.Must(template.New("dashboard").Parse(pageTemplate))

type option struct {
	Value    string
	Selected bool
}

type chartSlot struct {
	ID        string
	Title     string
	Kind      presentation.Kind
	FullWidth bool
	Snapshot  bool
}

type pageView struct {
	Report      presentation.Report
	Signals     string
	Options     []option
	Charts      []chartSlot
	Source      string
	PlotlyURL   string
	DatastarURL string
}

// Signals is the datastar signal state for r: the selected period and the
// chart envelopes. The leading underscore keeps charts out of requests.
func Signals(r presentation.Report) (string, error) {
	return templ.JSONString(map[string]any{
		"period":  r.Period,
		"_charts": r.Charts,
	})
}

// Dashboard is the full page for r. source names the loaded dataset.
func Dashboard(r presentation.Report, source string) templ.Component {
	signals, err := Signals(r)
	if err != nil {
		return templ.ComponentFunc(func(_ context.Context, _ io.Writer) error { return err })
	}

	options := make([]option, len(r.Periods))
	for i, p := range r.Periods {
		options[i] = option{Value: p, Selected: p == r.Period}
	}

	slots := make([]chartSlot, len(r.Charts))
	for i, e := range r.Charts {
		base := e.Spec.Base()
		slots[i] = chartSlot{
			ID:        base.ID,
			Title:     base.Title,
			Kind:      e.Kind,
			FullWidth: base.FullWidth,
			Snapshot:  charts.Supports(e.Kind),
		}
	}

	return templ.FromGoHTML(pages.Lookup("page"), pageView{
		Report:      r,
		Signals:     signals,
		Options:     options,
		Charts:      slots,
		Source:      source,
		PlotlyURL:   PlotlyURL,
		DatastarURL: DatastarURL,
	})
}

// KPIs renders the metric cards.
func KPIs(r presentation.Report) templ.Component {
	return templ.FromGoHTML(pages.Lookup("kpis"), r)
}

// DataTable renders the capped preview of the selection.
func DataTable(r presentation.Report) templ.Component {
	return templ.FromGoHTML(pages.Lookup("table"), r)
}

// Exports renders the download links for period.
func Exports(period string) templ.Component {
	return templ.FromGoHTML(pages.Lookup("exports"), period)
}

const pageTemplate = `
{{define "kpis"}}<section id="kpis" class="kpis">{{range .Metrics}}<div class="kpi" id="kpi-{{.ID}}"><span class="kpi-label">{{.Label}}</span><span class="kpi-value">{{.Display}}</span></div>{{end}}</section>{{end}}

{{define "exports"}}<nav id="exports" class="exports"><a href="/export/csv?period={{.}}" download>Download CSV</a><a href="/export/xlsx?period={{.}}" download>Download Excel</a></nav>{{end}}

{{define "table"}}<section id="data-table" class="table-wrap"><h2>Filtered Data</h2>{{if .Table.Rows}}<table class="modern-table"><thead><tr>{{range .Table.Header}}<th>{{.}}</th>{{end}}</tr></thead><tbody>{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table><p class="table-note">Showing {{len .Table.Rows}} of {{.Table.TotalRows}} rows</p>{{else}}<p class="empty">No records{{with .Period}} for {{.}}{{end}}.</p>{{end}}</section>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Dashboard</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2933}
header{padding:24px 32px;background:#fff;border-bottom:1px solid #e4e7eb}
h1{margin:0;font-size:1.6rem}
.subtitle{margin:4px 0 0;color:#616e7c}
.controls,.exports,.kpis,#charts,.table-wrap{margin:16px 32px}
.exports a{margin-right:16px}
.kpis{display:grid;grid-template-columns:repeat(3,1fr);gap:16px}
.kpi{background:#fff;border-radius:8px;padding:16px;box-shadow:0 1px 2px rgba(0,0,0,.06)}
.kpi-label{display:block;color:#616e7c;font-size:.85rem}
.kpi-value{display:block;font-size:1.5rem;font-weight:600;margin-top:4px}
.chart{background:#fff;border-radius:8px;margin-bottom:16px;padding:8px}
.plot{min-height:420px}
.modern-table{border-collapse:collapse;width:100%;background:#fff;font-size:.85rem}
.modern-table th,.modern-table td{padding:6px 8px;border-bottom:1px solid #e4e7eb;text-align:left}
footer{margin:16px 32px;color:#9aa5b1;font-size:.8rem}
</style>
<script src="{{.PlotlyURL}}"></script>
<script src="/static/dashboard.js"></script>
<script type="module" src="{{.DatastarURL}}"></script>
</head>
<body data-signals="{{.Signals}}">
<header><h1>Sales Dashboard</h1><p class="subtitle">Revenue, ratings and orders by branch, product line and payment type</p></header>
<form class="controls" method="get" action="/">
<label for="period">Period</label>
<select id="period" name="period" data-bind:period data-on:change="@get('/sse/report')">{{range .Options}}{{if .Selected}}<option value="{{.Value}}" selected>{{.Value}}</option>{{else}}<option value="{{.Value}}">{{.Value}}</option>{{end}}{{end}}</select>
<noscript><button type="submit">Show</button></noscript>
</form>
{{template "exports" .Report.Period}}
{{template "kpis" .Report}}
<main id="charts" data-effect="window.renderDashboardCharts($_charts)">{{range .Charts}}
<article class="chart{{if .FullWidth}} full{{end}}"><div id="chart-{{.ID}}" class="plot" data-kind="{{.Kind}}" aria-label="{{.Title}}"></div>{{if .Snapshot}}<noscript><img alt="{{.Title}}" src="/charts/{{.ID}}.png?period={{$.Report.Period}}"></noscript>{{end}}</article>{{end}}
</main>
{{template "table" .Report}}
{{with .Source}}<footer>Data source: {{.}}</footer>{{end}}
</body>
</html>{{end}}
`
