package services

import (
	"time"

	"github.com/samber/lo"

	"sales-dashboard/internal/models"
)

// Filter returns the records of ds whose period equals period, in dataset
// order. A period absent from the dataset yields an empty result.
func Filter(ds *models.Dataset, period string) models.FilteredDataset {
	if ds == nil {
		return models.FilteredDataset{Period: period, Header: models.RequiredColumns, Records: []models.Record{}}
	}

	records := lo.Filter(ds.Records, func(r models.Record, _ int) bool {
		return r.Period() == period
	})

	return models.FilteredDataset{
		Period:  period,
		Header:  ds.Header,
		Records: records,
	}
}

// ValidPeriod reports whether s is a YYYY-MM period key.
func ValidPeriod(s string) bool {
	if len(s) != len(models.PeriodLayout) {
		return false
	}
	_, err := time.Parse(models.PeriodLayout, s)
	return err == nil
}

// DefaultPeriod picks the selection shown before the user chooses one: the
// earliest period, or "" for an empty dataset.
func DefaultPeriod(ds *models.Dataset) string {
	if ds == nil {
		return ""
	}
	periods := ds.Periods()
	if len(periods) == 0 {
		return ""
	}
	return periods[0]
}
