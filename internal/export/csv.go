package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"sales-dashboard/internal/models"
)

const (
	CSVFilename    = "filtered_data.csv"
	CSVContentType = "text/csv"
)

// WriteCSV encodes f as semicolon-separated, comma-decimal text that
// services.ParseCSV reads back.
func WriteCSV(w io.Writer, f models.FilteredDataset) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := Header(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range f.Records {
		if err := writer.Write(Row(header, r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
