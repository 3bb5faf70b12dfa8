package presentation

import (
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// MaxTableRows caps the data table preview; exports always carry every row.
const MaxTableRows = 50

const (
	MetricTotalRevenue  = "total-revenue"
	MetricAverageRating = "average-rating"
	MetricOrderCount    = "order-count"
)

type Metric struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prefix string `json:"prefix,omitempty"`
	Value  string `json:"value"`
}

// Display joins the prefix and the value, e.g. "R$ 1,234.56".
func (m Metric) Display() string {
	if m.Prefix == "" {
		return m.Value
	}
	return m.Prefix + " " + m.Value
}

type Table struct {
	Header    []string   `json:"header"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// Report is everything one render pass shows for a period.
type Report struct {
	Period  string      `json:"period"`
	Periods []string    `json:"periods"`
	KPIs    models.KPIs `json:"kpis"`
	Metrics []Metric    `json:"metrics"`
	Charts  []Envelope  `json:"charts"`
	Table   Table       `json:"table"`
}

// Metric returns the metric with id, or a zero Metric.
func (r Report) Metric(id string) Metric {
	for _, m := range r.Metrics {
		if m.ID == id {
			return m
		}
	}
	return Metric{}
}

// Chart returns the descriptor with id.
func (r Report) Chart(id string) (Chart, bool) {
	for _, e := range r.Charts {
		if e.Spec.Base().ID == id {
			return e.Spec, true
		}
	}
	return nil, false
}

// Build maps the aggregations of filtered to the dashboard's metrics and
// charts. ds supplies the period list and the fixed category orderings.
func Build(ds *models.Dataset, filtered models.FilteredDataset, f *Formatter) Report {
	if f == nil {
		f = DefaultFormatter()
	}

	records := filtered.Records
	kpis := services.ComputeKPIs(records)
	cities := ds.Cities()
	products := ds.ProductLines()

	daily := services.DailyRevenue(records)

	charts := []Chart{
		revenueByDay(daily),
		revenueByProduct(services.RevenueByProductLine(records)),
		revenueByBranch(cities, services.RevenueByCity(records)),
		revenueByPayment(services.RevenueByPayment(records)),
		ratingByBranch(cities, services.AverageRatingByCity(records)),
		dailyTrend(daily),
		productCityMatrix(cities, products, services.RevenueByCityProduct(records)),
		ratingsDistribution(services.RatingHistogram(records, services.RatingBins)),
		revenueDistributionByCity(services.RevenueDistributionByCity(records)),
	}

	envelopes := make([]Envelope, len(charts))
	for i, c := range charts {
		envelopes[i] = Wrap(c)
	}

	return Report{
		Period:  filtered.Period,
		Periods: ds.Periods(),
		KPIs:    kpis,
		Metrics: []Metric{
			{ID: MetricTotalRevenue, Label: "Total Revenue", Prefix: f.CurrencySymbol(), Value: f.Currency(kpis.TotalRevenue)},
			{ID: MetricAverageRating, Label: "Average Rating", Value: f.Rating(kpis.AverageRating)},
			{ID: MetricOrderCount, Label: "Number of Orders", Value: f.Count(kpis.OrderCount)},
		},
		Charts: envelopes,
		Table:  buildTable(filtered),
	}
}

func buildTable(filtered models.FilteredDataset) Table {
	header := export.Header(filtered)
	limit := min(len(filtered.Records), MaxTableRows)

	rows := make([][]string, 0, limit)
	for _, r := range filtered.Records[:limit] {
		rows = append(rows, export.Row(header, r))
	}

	return Table{Header: header, Rows: rows, TotalRows: len(filtered.Records)}
}
