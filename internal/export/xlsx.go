package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const (
	XLSXFilename    = "filtered_data.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName       = "Filtered Data"
)

// WriteXLSX encodes f as a single-sheet workbook with the source column
// order. Total and Rating are numeric cells.
func WriteXLSX(w io.Writer, f models.FilteredDataset) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := Header(f)
	headerCells := make([]any, len(header))
	for i, name := range header {
		headerCells[i] = name
	}
	if err := book.SetSheetRow(SheetName, "A1", &headerCells); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range f.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locate xlsx row %d: %w", i+2, err)
		}
		values := workbookRow(header, r)
		if err := book.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func workbookRow(header []string, r models.Record) []any {
	text := Row(header, r)
	values := make([]any, len(header))
	for i, name := range header {
		switch name {
		case models.ColumnTotal:
			values[i] = r.Total.InexactFloat64()
		case models.ColumnRating:
			values[i] = r.Rating
		default:
			values[i] = text[i]
		}
	}
	return values
}
