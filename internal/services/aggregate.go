package services

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// RatingBins is the bin count of the rating distribution.
const RatingBins = 10

// Over empty input sums and means are zero.

// DailyRevenue sums totals per calendar day, ascending by day.
func DailyRevenue(records []models.Record) []models.DateTotal {
	groups := lo.GroupBy(records, func(r models.Record) string {
		return r.Date.Format(models.DateLayout)
	})

	result := make([]models.DateTotal, 0, len(groups))
	for _, group := range groups {
		y, m, d := group[0].Date.Date()
		result = append(result, models.DateTotal{
			Date:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Total: sumTotals(group),
		})
	}

	slices.SortFunc(result, func(a, b models.DateTotal) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

func RevenueByProductLine(records []models.Record) []models.KeyTotal {
	return revenueBy(records, func(r models.Record) string { return r.ProductLine })
}

func RevenueByCity(records []models.Record) []models.KeyTotal {
	return revenueBy(records, func(r models.Record) string { return r.City })
}

func RevenueByPayment(records []models.Record) []models.KeyTotal {
	return revenueBy(records, func(r models.Record) string { return r.Payment })
}

func AverageRatingByCity(records []models.Record) []models.KeyMean {
	groups := lo.GroupBy(records, func(r models.Record) string { return r.City })

	result := make([]models.KeyMean, 0, len(groups))
	for city, group := range groups {
		result = append(result, models.KeyMean{
			Key:   city,
			Mean:  meanRating(group),
			Count: len(group),
		})
	}

	slices.SortFunc(result, func(a, b models.KeyMean) int {
		return strings.Compare(a.Key, b.Key)
	})
	return result
}

type cityProduct struct {
	city    string
	product string
}

func RevenueByCityProduct(records []models.Record) []models.CellTotal {
	groups := lo.GroupBy(records, func(r models.Record) cityProduct {
		return cityProduct{city: r.City, product: r.ProductLine}
	})

	result := make([]models.CellTotal, 0, len(groups))
	for key, group := range groups {
		result = append(result, models.CellTotal{
			City:        key.city,
			ProductLine: key.product,
			Total:       sumTotals(group),
		})
	}

	slices.SortFunc(result, func(a, b models.CellTotal) int {
		return cmp.Or(
			strings.Compare(a.City, b.City),
			strings.Compare(a.ProductLine, b.ProductLine),
		)
	})
	return result
}

// RatingHistogram counts ratings in bins of equal width spanning the
// observed range. When every rating is equal a single bin is returned.
func RatingHistogram(records []models.Record, bins int) []models.HistogramBin {
	if len(records) == 0 || bins <= 0 {
		return []models.HistogramBin{}
	}

	values := lo.Map(records, func(r models.Record, _ int) float64 { return r.Rating })
	minValue, maxValue := slices.Min(values), slices.Max(values)

	if minValue == maxValue {
		return []models.HistogramBin{{Lower: minValue, Upper: maxValue, Count: len(values)}}
	}

	width := (maxValue - minValue) / float64(bins)
	result := make([]models.HistogramBin, bins)
	for i := range result {
		result[i].Lower = minValue + float64(i)*width
		result[i].Upper = minValue + float64(i+1)*width
	}
	result[bins-1].Upper = maxValue

	for _, v := range values {
		idx := min(max(int((v-minValue)/width), 0), bins-1)
		// The division can land a value sitting on an edge one bin off; the
		// edges are authoritative.
		if idx > 0 && v < result[idx].Lower {
			idx--
		}
		if idx < bins-1 && v >= result[idx].Upper {
			idx++
		}
		result[idx].Count++
	}
	return result
}

// RevenueDistributionByCity returns, per city, the sorted totals with the
// quartiles and whiskers of a box plot. Quartiles interpolate linearly
// between order statistics; points beyond 1.5 IQR are outliers.
func RevenueDistributionByCity(records []models.Record) []models.Distribution {
	groups := lo.GroupBy(records, func(r models.Record) string { return r.City })

	result := make([]models.Distribution, 0, len(groups))
	for city, group := range groups {
		values := lo.Map(group, func(r models.Record, _ int) float64 {
			return r.Total.InexactFloat64()
		})
		result = append(result, describe(city, values))
	}

	slices.SortFunc(result, func(a, b models.Distribution) int {
		return strings.Compare(a.Key, b.Key)
	})
	return result
}

func describe(key string, values []float64) models.Distribution {
	slices.Sort(values)

	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lowerFence := q1 - 1.5*iqr
	upperFence := q3 + 1.5*iqr

	d := models.Distribution{
		Key:          key,
		Values:       values,
		Min:          values[0],
		Q1:           q1,
		Median:       quantile(values, 0.5),
		Q3:           q3,
		Max:          values[len(values)-1],
		LowerWhisker: math.Inf(1),
		UpperWhisker: math.Inf(-1),
		Outliers:     []float64{},
	}

	for _, v := range values {
		if v < lowerFence || v > upperFence {
			d.Outliers = append(d.Outliers, v)
			continue
		}
		d.LowerWhisker = min(d.LowerWhisker, v)
		d.UpperWhisker = max(d.UpperWhisker, v)
	}
	return d
}

func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p
	lower := math.Floor(h)
	i := int(lower)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lower)*(sorted[i+1]-sorted[i])
}

func TotalRevenue(records []models.Record) decimal.Decimal {
	return sumTotals(records)
}

func AverageRating(records []models.Record) float64 {
	return meanRating(records)
}

func OrderCount(records []models.Record) int {
	return len(records)
}

func ComputeKPIs(records []models.Record) models.KPIs {
	return models.KPIs{
		TotalRevenue:  TotalRevenue(records),
		AverageRating: AverageRating(records),
		OrderCount:    OrderCount(records),
	}
}

func revenueBy(records []models.Record, key func(models.Record) string) []models.KeyTotal {
	groups := lo.GroupBy(records, key)

	result := make([]models.KeyTotal, 0, len(groups))
	for k, group := range groups {
		result = append(result, models.KeyTotal{Key: k, Total: sumTotals(group)})
	}

	slices.SortFunc(result, func(a, b models.KeyTotal) int {
		return strings.Compare(a.Key, b.Key)
	})
	return result
}

func sumTotals(records []models.Record) decimal.Decimal {
	return lo.Reduce(records, func(acc decimal.Decimal, r models.Record, _ int) decimal.Decimal {
		return acc.Add(r.Total)
	}, decimal.Zero)
}

// meanRating sums exactly so the mean does not depend on record order.
func meanRating(records []models.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := lo.Reduce(records, func(acc decimal.Decimal, r models.Record, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(r.Rating))
	}, decimal.Zero)
	return sum.Div(decimal.NewFromInt(int64(len(records)))).InexactFloat64()
}
