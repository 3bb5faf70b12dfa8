package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DateTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type KeyTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

type KeyMean struct {
	Key   string  `json:"key"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type CellTotal struct {
	City        string          `json:"city"`
	ProductLine string          `json:"product_line"`
	Total       decimal.Decimal `json:"total"`
}

// HistogramBin counts values in [Lower, Upper). The last bin of a histogram
// also includes its upper edge.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Distribution summarizes one group's values for a box plot.
type Distribution struct {
	Key          string    `json:"key"`
	Values       []float64 `json:"values"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

type KPIs struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AverageRating float64         `json:"average_rating"`
	OrderCount    int             `json:"order_count"`
}
