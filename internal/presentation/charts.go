package presentation

import "sales-dashboard/internal/models"

// Chart IDs, in page order.
const (
	ChartRevenueByDay        = "revenue-by-day"
	ChartRevenueByProduct    = "revenue-by-product"
	ChartRevenueByBranch     = "revenue-by-branch"
	ChartRevenueByPayment    = "revenue-by-payment"
	ChartRatingByBranch      = "rating-by-branch"
	ChartDailyTrend          = "daily-trend"
	ChartProductCityMatrix   = "product-city-matrix"
	ChartRatingsDistribution = "ratings-distribution"
	ChartRevenueDistribution = "revenue-distribution-by-city"
)

func common(id, title string) Common {
	return Common{ID: id, Title: title, Palette: Set2, FullWidth: true}
}

func revenueByDay(daily []models.DateTotal) Chart {
	return BarChart{
		Common: common(ChartRevenueByDay, "Revenue by Day"),
		XField: models.ColumnDate,
		YField: models.ColumnTotal,
		Points: datePoints(daily),
	}
}

func revenueByProduct(totals []models.KeyTotal) Chart {
	return HorizontalBarChart{
		Common: common(ChartRevenueByProduct, "Revenue by Product Type"),
		XField: models.ColumnTotal,
		YField: models.ColumnProductLine,
		Points: keyPoints(totals),
	}
}

func revenueByBranch(cities []string, totals []models.KeyTotal) Chart {
	values := make(map[string]float64, len(totals))
	for _, t := range totals {
		values[t.Key] = t.Total.InexactFloat64()
	}
	return BarChart{
		Common: common(ChartRevenueByBranch, "Revenue by Branch"),
		XField: models.ColumnCity,
		YField: models.ColumnTotal,
		Points: fill(cities, values),
	}
}

func revenueByPayment(totals []models.KeyTotal) Chart {
	return PieChart{
		Common:      common(ChartRevenueByPayment, "Revenue by Payment Type"),
		NamesField:  models.ColumnPayment,
		ValuesField: models.ColumnTotal,
		Slices:      keyPoints(totals),
	}
}

func ratingByBranch(cities []string, means []models.KeyMean) Chart {
	values := make(map[string]float64, len(means))
	for _, m := range means {
		values[m.Key] = m.Mean
	}
	return BarChart{
		Common: common(ChartRatingByBranch, "Average Rating by Branch"),
		XField: models.ColumnCity,
		YField: models.ColumnRating,
		Points: fill(cities, values),
	}
}

func dailyTrend(daily []models.DateTotal) Chart {
	return LineChart{
		Common:  common(ChartDailyTrend, "Daily Revenue Trend"),
		XField:  models.ColumnDate,
		YField:  models.ColumnTotal,
		Points:  datePoints(daily),
		Markers: true,
	}
}

func productCityMatrix(cities, products []string, cells []models.CellTotal) Chart {
	column := make(map[string]int, len(cities))
	for i, c := range cities {
		column[c] = i
	}
	row := make(map[string]int, len(products))
	for i, p := range products {
		row[p] = i
	}

	z := make([][]float64, len(products))
	for i := range z {
		z[i] = make([]float64, len(cities))
	}
	for _, cell := range cells {
		i, okRow := row[cell.ProductLine]
		j, okCol := column[cell.City]
		if okRow && okCol {
			z[i][j] = cell.Total.InexactFloat64()
		}
	}

	c := common(ChartProductCityMatrix, "Product vs. City Matrix")
	c.Palette = nil
	return HeatmapChart{
		Common:     c,
		XField:     models.ColumnCity,
		YField:     models.ColumnProductLine,
		ZField:     models.ColumnTotal,
		X:          cities,
		Y:          products,
		Z:          z,
		ColorScale: Viridis,
	}
}

func ratingsDistribution(bins []models.HistogramBin) Chart {
	return HistogramChart{
		Common: common(ChartRatingsDistribution, "Ratings Distribution"),
		XField: models.ColumnRating,
		Bins:   bins,
	}
}

func revenueDistributionByCity(boxes []models.Distribution) Chart {
	return BoxChart{
		Common: common(ChartRevenueDistribution, "Revenue Distribution by City"),
		XField: models.ColumnCity,
		YField: models.ColumnTotal,
		Boxes:  boxes,
	}
}

func datePoints(daily []models.DateTotal) []Point {
	points := make([]Point, len(daily))
	for i, d := range daily {
		points[i] = Point{Label: d.Date.Format(models.DateLayout), Value: d.Total.InexactFloat64()}
	}
	return points
}

func keyPoints(totals []models.KeyTotal) []Point {
	points := make([]Point, len(totals))
	for i, t := range totals {
		points[i] = Point{Label: t.Key, Value: t.Total.InexactFloat64()}
	}
	return points
}

// fill emits one point per category in order, zero for absent ones.
func fill(categories []string, values map[string]float64) []Point {
	points := make([]Point, len(categories))
	for i, c := range categories {
		points[i] = Point{Label: c, Value: values[c]}
	}
	return points
}
