package export

import (
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// Header returns the column order of f, falling back to the required
// columns for datasets built in memory.
func Header(f models.FilteredDataset) []string {
	if len(f.Header) == 0 {
		return models.RequiredColumns
	}
	return f.Header
}

// Row renders r in header order using the source conventions: ISO dates and
// comma decimals. Typed fields win over the raw cells so exports reflect
// the parsed values.
func Row(header []string, r models.Record) []string {
	row := make([]string, len(header))
	for i, name := range header {
		switch name {
		case models.ColumnDate:
			row[i] = r.Date.Format(models.DateLayout)
		case models.ColumnCity:
			row[i] = r.City
		case models.ColumnProductLine:
			row[i] = r.ProductLine
		case models.ColumnPayment:
			row[i] = r.Payment
		case models.ColumnTotal:
			row[i] = services.FormatDecimal(r.Total)
		case models.ColumnRating:
			row[i] = services.FormatFloat(r.Rating)
		default:
			if i < len(r.Cells) {
				row[i] = r.Cells[i]
			}
		}
	}
	return row
}
