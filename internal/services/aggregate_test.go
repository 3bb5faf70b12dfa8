package services

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func reversed(records []models.Record) []models.Record {
	out := slices.Clone(records)
	slices.Reverse(out)
	return out
}

func TestScenario_January(t *testing.T) {
	filtered := Filter(scenarioDataset(), "2024-01")

	kpis := ComputeKPIs(filtered.Records)
	if !kpis.TotalRevenue.Equal(decimal.RequireFromString("100.50")) {
		t.Errorf("TotalRevenue = %s, want 100.50", kpis.TotalRevenue)
	}
	if kpis.AverageRating != 8 {
		t.Errorf("AverageRating = %v, want 8", kpis.AverageRating)
	}
	if kpis.OrderCount != 1 {
		t.Errorf("OrderCount = %d, want 1", kpis.OrderCount)
	}

	want := []models.KeyTotal{{Key: "A", Total: decimal.RequireFromString("100.50")}}
	if diff := cmp.Diff(want, RevenueByCity(filtered.Records), decimalEqual); diff != "" {
		t.Errorf("RevenueByCity() mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario_EmptyPeriod(t *testing.T) {
	filtered := Filter(scenarioDataset(), "2030-06")

	kpis := ComputeKPIs(filtered.Records)
	if !kpis.TotalRevenue.IsZero() || kpis.AverageRating != 0 || kpis.OrderCount != 0 {
		t.Errorf("expected zero KPIs, got %+v", kpis)
	}

	if n := len(DailyRevenue(filtered.Records)); n != 0 {
		t.Errorf("DailyRevenue() returned %d rows", n)
	}
	if n := len(RevenueByProductLine(filtered.Records)); n != 0 {
		t.Errorf("RevenueByProductLine() returned %d rows", n)
	}
	if n := len(AverageRatingByCity(filtered.Records)); n != 0 {
		t.Errorf("AverageRatingByCity() returned %d rows", n)
	}
	if n := len(RevenueByCityProduct(filtered.Records)); n != 0 {
		t.Errorf("RevenueByCityProduct() returned %d rows", n)
	}
	if bins := RatingHistogram(filtered.Records, RatingBins); bins == nil || len(bins) != 0 {
		t.Errorf("RatingHistogram() = %v, want empty slice", bins)
	}
	if n := len(RevenueDistributionByCity(filtered.Records)); n != 0 {
		t.Errorf("RevenueDistributionByCity() returned %d rows", n)
	}
}

func TestTotalRevenue_MatchesSumAndOrderIndependent(t *testing.T) {
	ds := loadFixture(t)

	for _, period := range ds.Periods() {
		records := Filter(ds, period).Records

		sum := decimal.Zero
		for _, r := range records {
			sum = sum.Add(r.Total)
		}

		if got := TotalRevenue(records); !got.Equal(sum) {
			t.Errorf("period %s: TotalRevenue = %s, want %s", period, got, sum)
		}
		if got := TotalRevenue(reversed(records)); !got.Equal(sum) {
			t.Errorf("period %s: reversed TotalRevenue = %s, want %s", period, got, sum)
		}
		if AverageRating(records) != AverageRating(reversed(records)) {
			t.Errorf("period %s: AverageRating depends on order", period)
		}
	}
}

func TestDailyRevenue(t *testing.T) {
	records := Filter(loadFixture(t), "2019-01").Records

	want := []models.DateTotal{
		{Date: time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("889.497")},
		{Date: time.Date(2019, 1, 27, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("489.048")},
	}
	if diff := cmp.Diff(want, DailyRevenue(reversed(records)), decimalEqual); diff != "" {
		t.Errorf("DailyRevenue() mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueGroupings(t *testing.T) {
	records := loadFixture(t).Records

	byProduct := RevenueByProductLine(records)
	wantProducts := []models.KeyTotal{
		{Key: "Electronic accessories", Total: decimal.RequireFromString("80.22")},
		{Key: "Health and beauty", Total: decimal.RequireFromString("1038.0195")},
		{Key: "Home and lifestyle", Total: decimal.RequireFromString("340.5255")},
		{Key: "Sports and travel", Total: decimal.RequireFromString("634.3785")},
	}
	if diff := cmp.Diff(wantProducts, byProduct, decimalEqual); diff != "" {
		t.Errorf("RevenueByProductLine() mismatch (-want +got):\n%s", diff)
	}

	byPayment := RevenueByPayment(records)
	if len(byPayment) != 3 || byPayment[0].Key != "Cash" || byPayment[2].Key != "Ewallet" {
		t.Errorf("unexpected RevenueByPayment() = %+v", byPayment)
	}
	if !byPayment[2].Total.Equal(decimal.RequireFromString("1672.398")) {
		t.Errorf("Ewallet total = %s, want 1672.398", byPayment[2].Total)
	}

	cells := RevenueByCityProduct(records)
	if len(cells) != 4 {
		t.Fatalf("expected 4 city/product cells, got %d", len(cells))
	}
	if cells[0].City != "Mandalay" || cells[len(cells)-1].City != "Yangon" || cells[len(cells)-1].ProductLine != "Home and lifestyle" {
		t.Errorf("cells not ordered by city then product: %+v", cells)
	}
}

func TestAverageRatingByCity(t *testing.T) {
	means := AverageRatingByCity(loadFixture(t).Records)

	if len(means) != 3 {
		t.Fatalf("expected 3 cities, got %d", len(means))
	}

	yangon := means[2]
	if yangon.Key != "Yangon" || yangon.Count != 3 {
		t.Fatalf("unexpected Yangon row %+v", yangon)
	}
	// (9.1 + 7.4 + 8.4) / 3
	if want := 8.3; yangon.Mean != want {
		t.Errorf("Yangon mean = %v, want %v", yangon.Mean, want)
	}
}

func TestRatingHistogram(t *testing.T) {
	var records []models.Record
	for i := 1; i <= 10; i++ {
		records = append(records, models.Record{Rating: float64(i)})
	}

	bins := RatingHistogram(records, RatingBins)
	if len(bins) != RatingBins {
		t.Fatalf("expected %d bins, got %d", RatingBins, len(bins))
	}
	if bins[0].Lower != 1 || bins[len(bins)-1].Upper != 10 {
		t.Errorf("bins span [%v, %v], want [1, 10]", bins[0].Lower, bins[len(bins)-1].Upper)
	}

	total := 0
	for _, b := range bins {
		if b.Count != 1 {
			t.Errorf("bin [%v, %v) count = %d, want 1", b.Lower, b.Upper, b.Count)
		}
		total += b.Count
	}
	if total != len(records) {
		t.Errorf("histogram counts %d records, want %d", total, len(records))
	}
}

func TestRatingHistogram_ValuesOnEdges(t *testing.T) {
	// One-decimal ratings from 4.0 to 10.0; several fall exactly on the
	// computed bin edges.
	var records []models.Record
	for i := 40; i <= 100; i++ {
		records = append(records, models.Record{Rating: float64(i) / 10})
	}

	bins := RatingHistogram(records, RatingBins)

	want := make([]int, len(bins))
	for _, r := range records {
		for j, b := range bins {
			last := j == len(bins)-1
			if r.Rating >= b.Lower && (r.Rating < b.Upper || last && r.Rating <= b.Upper) {
				want[j]++
				break
			}
		}
	}

	got := make([]int, len(bins))
	for j, b := range bins {
		got[j] = b.Count
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bin counts disagree with bin edges (-want +got):\n%s", diff)
	}
	sum := 0
	for _, c := range got {
		sum += c
	}
	if sum != len(records) {
		t.Errorf("histogram counts %d records, want %d", sum, len(records))
	}
}

func TestRatingHistogram_SingleValue(t *testing.T) {
	records := []models.Record{{Rating: 7}, {Rating: 7}, {Rating: 7}}

	bins := RatingHistogram(records, RatingBins)
	want := []models.HistogramBin{{Lower: 7, Upper: 7, Count: 3}}
	if diff := cmp.Diff(want, bins); diff != "" {
		t.Errorf("RatingHistogram() mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueDistributionByCity(t *testing.T) {
	var records []models.Record
	for _, v := range []string{"4", "100", "1", "3", "2"} {
		records = append(records, models.Record{City: "A", Total: decimal.RequireFromString(v)})
	}
	records = append(records, models.Record{City: "B", Total: decimal.RequireFromString("10")})

	got := RevenueDistributionByCity(records)
	want := []models.Distribution{
		{
			Key:          "A",
			Values:       []float64{1, 2, 3, 4, 100},
			Min:          1,
			Q1:           2,
			Median:       3,
			Q3:           4,
			Max:          100,
			LowerWhisker: 1,
			UpperWhisker: 4,
			Outliers:     []float64{100},
		},
		{
			Key:          "B",
			Values:       []float64{10},
			Min:          10,
			Q1:           10,
			Median:       10,
			Q3:           10,
			Max:          10,
			LowerWhisker: 10,
			UpperWhisker: 10,
			Outliers:     []float64{},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RevenueDistributionByCity() mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkComputeKPIs(b *testing.B) {
	records := make([]models.Record, 1000)
	for i := range records {
		records[i] = models.Record{
			City:   "City",
			Total:  decimal.NewFromInt(int64(i)),
			Rating: float64(i%10) + 1,
		}
	}

	b.ResetTimer()
	for b.Loop() {
		_ = ComputeKPIs(records)
	}
}
