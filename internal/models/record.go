package models

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Source column names the loader binds to typed fields.
const (
	ColumnDate        = "Date"
	ColumnCity        = "City"
	ColumnProductLine = "Product line"
	ColumnPayment     = "Payment"
	ColumnTotal       = "Total"
	ColumnRating      = "Rating"
)

const (
	PeriodLayout = "2006-01"
	DateLayout   = "2006-01-02"
)

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{
	ColumnDate,
	ColumnCity,
	ColumnProductLine,
	ColumnPayment,
	ColumnTotal,
	ColumnRating,
}

// Record is one sales transaction.
type Record struct {
	Date        time.Time
	City        string
	ProductLine string
	Payment     string
	Total       decimal.Decimal
	Rating      float64

	// Cells holds the raw source row in header order. Nil for records that
	// were not read from a file.
	Cells []string
}

// Period returns the YYYY-MM grouping key of the record's date.
func (r Record) Period() string {
	return PeriodOf(r.Date)
}

func PeriodOf(t time.Time) string {
	return t.Format(PeriodLayout)
}

// Dataset is the loaded, date-ordered record set. It is never modified after
// construction; callers must treat Header and Records as read-only.
type Dataset struct {
	Header   []string
	Records  []Record
	Source   string
	LoadedAt time.Time
}

// NewDataset copies records and orders them by date, keeping the input
// order for equal dates. A nil header falls back to RequiredColumns.
func NewDataset(header []string, records []Record) *Dataset {
	if len(header) == 0 {
		header = RequiredColumns
	}

	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []Record{}
	}
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return a.Date.Compare(b.Date)
	})

	return &Dataset{
		Header:   slices.Clone(header),
		Records:  sorted,
		LoadedAt: time.Now(),
	}
}

func (d *Dataset) Len() int {
	return len(d.Records)
}

// Periods returns the distinct periods present, ascending.
func (d *Dataset) Periods() []string {
	return distinctSorted(d.Records, Record.Period)
}

// Cities returns the distinct cities present, ascending.
func (d *Dataset) Cities() []string {
	return distinctSorted(d.Records, func(r Record) string { return r.City })
}

// ProductLines returns the distinct product lines present, ascending.
func (d *Dataset) ProductLines() []string {
	return distinctSorted(d.Records, func(r Record) string { return r.ProductLine })
}

func distinctSorted(records []Record, key func(Record) string) []string {
	values := lo.Uniq(lo.Map(records, func(r Record, _ int) string { return key(r) }))
	slices.Sort(values)
	return values
}

// FilteredDataset is the subset of a Dataset matching one period.
type FilteredDataset struct {
	Period  string
	Header  []string
	Records []Record
}

func (f FilteredDataset) Len() int {
	return len(f.Records)
}
