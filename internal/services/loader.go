package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

const (
	fieldSeparator   = ';'
	decimalSeparator = ","
)

// DefaultDateLayouts are tried in order when parsing the Date column.
var DefaultDateLayouts = []string{
	"1/2/2006",
	models.DateLayout,
	"2006-01-02 15:04:05",
}

type LoadOptions struct {
	DateLayouts []string
}

func (o LoadOptions) layouts() []string {
	if len(o.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return o.DateLayouts
}

// LoadCSV reads the dataset at path. Any unparseable row aborts the load.
func LoadCSV(ctx context.Context, path string, opts LoadOptions) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	ds, err := ParseCSV(ctx, file, opts)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// ParseCSV reads a semicolon-separated, comma-decimal dataset from r.
func ParseCSV(ctx context.Context, r io.Reader, opts LoadOptions) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = fieldSeparator

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedInputError{Line: 1, Err: errEmptyInput}
	}
	if err != nil {
		return nil, malformedFromCSV(err)
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	layouts := opts.layouts()
	records := make([]models.Record, 0, 1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformedFromCSV(err)
		}

		line, _ := reader.FieldPos(0)
		record, err := parseRecord(row, columns, layouts, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return models.NewDataset(header, records), nil
}

type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	for _, name := range models.RequiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &MalformedInputError{Line: 1, Column: name, Err: errMissingColumn}
		}
	}
	return columns, nil
}

func parseRecord(row []string, columns columnIndex, layouts []string, line int) (models.Record, error) {
	cell := func(name string) string {
		return strings.TrimSpace(row[columns[name]])
	}

	date, err := parseDate(cell(models.ColumnDate), layouts)
	if err != nil {
		return models.Record{}, &InvalidDateError{Line: line, Value: cell(models.ColumnDate), Err: err}
	}

	total, err := ParseDecimal(cell(models.ColumnTotal))
	if err != nil {
		return models.Record{}, &MalformedInputError{
			Line:   line,
			Column: models.ColumnTotal,
			Value:  cell(models.ColumnTotal),
			Err:    err,
		}
	}

	rating, err := ParseFloat(cell(models.ColumnRating))
	if err != nil {
		return models.Record{}, &MalformedInputError{
			Line:   line,
			Column: models.ColumnRating,
			Value:  cell(models.ColumnRating),
			Err:    err,
		}
	}

	return models.Record{
		Date:        date,
		City:        cell(models.ColumnCity),
		ProductLine: cell(models.ColumnProductLine),
		Payment:     cell(models.ColumnPayment),
		Total:       total,
		Rating:      rating,
		Cells:       row,
	}, nil
}

func parseDate(value string, layouts []string) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseDecimal parses a comma-decimal number such as "548,97". A '.' is
// rejected rather than read as a decimal point.
func ParseDecimal(value string) (decimal.Decimal, error) {
	normalized, err := normalizeDecimal(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(normalized)
}

// ParseFloat parses a comma-decimal number and rejects NaN and infinities.
func ParseFloat(value string) (float64, error) {
	normalized, err := normalizeDecimal(value)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func normalizeDecimal(value string) (string, error) {
	if strings.Contains(value, ".") {
		return "", errDotDecimal
	}
	return strings.Replace(value, decimalSeparator, ".", 1), nil
}

// FormatDecimal renders d with a comma decimal separator.
func FormatDecimal(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", decimalSeparator, 1)
}

// FormatFloat renders f with a comma decimal separator.
func FormatFloat(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", decimalSeparator, 1)
}

func malformedFromCSV(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return &MalformedInputError{Err: err}
}
