package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

const supermarketHeader = "Invoice ID;Branch;City;Customer type;Gender;Product line;Unit price;Quantity;Tax 5%;Total;Date;Time;Payment;cogs;gross margin percentage;gross income;Rating"

const supermarketCSV = supermarketHeader + `
750-67-8428;A;Yangon;Member;Female;Health and beauty;74,69;7;26,1415;548,9715;1/5/2019;13:08;Ewallet;522,83;4,761904762;26,1415;9,1
226-31-3081;C;Naypyitaw;Normal;Female;Electronic accessories;15,28;5;3,82;80,22;3/8/2019;10:29;Cash;76,4;4,761904762;3,82;9,6
631-41-3108;A;Yangon;Normal;Male;Home and lifestyle;46,33;7;16,2155;340,5255;1/5/2019;13:23;Credit card;324,31;4,761904762;16,2155;7,4
123-19-1176;A;Yangon;Member;Male;Health and beauty;58,22;8;23,288;489,048;1/27/2019;20:33;Ewallet;465,76;4,761904762;23,288;8,4
373-73-7910;B;Mandalay;Normal;Male;Sports and travel;86,31;7;30,2085;634,3785;2/8/2019;10:37;Ewallet;604,17;4,761904762;30,2085;5,3
`

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV_ValidData(t *testing.T) {
	path := createTempCSV(t, supermarketCSV)

	ds, err := LoadCSV(context.Background(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	if ds.Len() != 5 {
		t.Fatalf("expected 5 records, got %d", ds.Len())
	}
	if ds.Source != path {
		t.Errorf("Source = %q, want %q", ds.Source, path)
	}
	if len(ds.Header) != 17 || ds.Header[0] != "Invoice ID" {
		t.Errorf("unexpected header %v", ds.Header)
	}

	first := ds.Records[0]
	if first.City != "Yangon" || first.ProductLine != "Health and beauty" || first.Payment != "Ewallet" {
		t.Errorf("unexpected first record %+v", first)
	}
	if !first.Total.Equal(decimal.RequireFromString("548.9715")) {
		t.Errorf("Total = %s, want 548.9715", first.Total)
	}
	if first.Rating != 9.1 {
		t.Errorf("Rating = %v, want 9.1", first.Rating)
	}
	if want := time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}
}

func TestLoadCSV_SortedStable(t *testing.T) {
	ds, err := ParseCSV(context.Background(), strings.NewReader(supermarketCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	for i := 1; i < ds.Len(); i++ {
		if ds.Records[i].Date.Before(ds.Records[i-1].Date) {
			t.Fatalf("records not sorted at %d: %v before %v", i, ds.Records[i].Date, ds.Records[i-1].Date)
		}
	}

	// Both 1/5/2019 rows keep their source order.
	if ds.Records[0].ProductLine != "Health and beauty" || ds.Records[1].ProductLine != "Home and lifestyle" {
		t.Errorf("tie order not preserved: %q, %q", ds.Records[0].ProductLine, ds.Records[1].ProductLine)
	}
}

func TestLoadCSV_PeriodDerivedFromDate(t *testing.T) {
	ds, err := ParseCSV(context.Background(), strings.NewReader(supermarketCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	for _, r := range ds.Records {
		want := r.Date.Format("2006") + "-" + r.Date.Format("01")
		if r.Period() != want {
			t.Errorf("Period() = %q, want %q", r.Period(), want)
		}
	}

	periods := ds.Periods()
	want := []string{"2019-01", "2019-02", "2019-03"}
	if strings.Join(periods, ",") != strings.Join(want, ",") {
		t.Errorf("Periods() = %v, want %v", periods, want)
	}
}

func TestParseCSV_ByteOrderMarkAndBlankLines(t *testing.T) {
	content := "\ufeffDate;City;Product line;Payment;Total;Rating\n\n2024-01-05;A;Electronics;Cash;100,50;8\n\n"

	ds, err := ParseCSV(context.Background(), strings.NewReader(content), LoadOptions{})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", ds.Len())
	}
	if ds.Header[0] != "Date" {
		t.Errorf("BOM not stripped from header: %q", ds.Header[0])
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	ds, err := ParseCSV(context.Background(), strings.NewReader("Date;City;Product line;Payment;Total;Rating\n"), LoadOptions{})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if ds.Len() != 0 || len(ds.Periods()) != 0 {
		t.Errorf("expected empty dataset, got %d records", ds.Len())
	}
}

func TestParseCSV_InvalidData(t *testing.T) {
	const header = "Date;City;Product line;Payment;Total;Rating\n"

	tests := []struct {
		name          string
		csv           string
		wantMalformed bool
		wantDate      bool
		wantLine      int
	}{
		{
			name:          "empty file",
			csv:           "",
			wantMalformed: true,
			wantLine:      1,
		},
		{
			name:          "missing rating column",
			csv:           "Date;City;Product line;Payment;Total\n2024-01-05;A;Electronics;Cash;100,50\n",
			wantMalformed: true,
			wantLine:      1,
		},
		{
			name:          "comma separated source",
			csv:           "Date,City,Product line,Payment,Total,Rating\n2024-01-05,A,Electronics,Cash,100.50,8\n",
			wantMalformed: true,
			wantLine:      1,
		},
		{
			name:          "wrong field count",
			csv:           header + "2024-01-05;A;Electronics;Cash;100,50\n",
			wantMalformed: true,
			wantLine:      2,
		},
		{
			name:          "invalid total",
			csv:           header + "2024-01-05;A;Electronics;Cash;abc;8\n",
			wantMalformed: true,
			wantLine:      2,
		},
		{
			name:          "dot decimal total",
			csv:           header + "2024-01-05;A;Electronics;Cash;100,50;8\n2024-01-06;A;Food;Cash;100.50;8\n",
			wantMalformed: true,
			wantLine:      3,
		},
		{
			name:          "dot decimal rating",
			csv:           header + "2024-01-05;A;Electronics;Cash;100,50;8.5\n",
			wantMalformed: true,
			wantLine:      2,
		},
		{
			name:          "invalid rating",
			csv:           header + "2024-01-05;A;Electronics;Cash;100,50;NaN\n",
			wantMalformed: true,
			wantLine:      2,
		},
		{
			name:     "invalid date",
			csv:      header + "2024-01-05;A;Electronics;Cash;100,50;8\nnot-a-date;B;Food;Card;200,00;6\n",
			wantDate: true,
			wantLine: 3,
		},
		{
			name:     "empty date",
			csv:      header + ";A;Electronics;Cash;100,50;8\n",
			wantDate: true,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ParseCSV(context.Background(), strings.NewReader(tt.csv), LoadOptions{})
			if err == nil {
				t.Fatalf("expected error, got dataset with %d records", ds.Len())
			}
			if ds != nil {
				t.Error("no partial dataset may be returned on error")
			}

			var malformed *MalformedInputError
			var invalidDate *InvalidDateError
			switch {
			case tt.wantMalformed:
				if !errors.As(err, &malformed) {
					t.Fatalf("expected MalformedInputError, got %T: %v", err, err)
				}
				if malformed.Line != tt.wantLine {
					t.Errorf("Line = %d, want %d", malformed.Line, tt.wantLine)
				}
			case tt.wantDate:
				if !errors.As(err, &invalidDate) {
					t.Fatalf("expected InvalidDateError, got %T: %v", err, err)
				}
				if invalidDate.Line != tt.wantLine {
					t.Errorf("Line = %d, want %d", invalidDate.Line, tt.wantLine)
				}
			}
		})
	}
}

func TestParseCSV_CustomDateLayouts(t *testing.T) {
	content := "Date;City;Product line;Payment;Total;Rating\n05.01.2024;A;Electronics;Cash;100,50;8\n"

	if _, err := ParseCSV(context.Background(), strings.NewReader(content), LoadOptions{}); err == nil {
		t.Fatal("default layouts should reject 05.01.2024")
	}

	ds, err := ParseCSV(context.Background(), strings.NewReader(content), LoadOptions{DateLayouts: []string{"02.01.2006"}})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if got := ds.Records[0].Period(); got != "2024-01" {
		t.Errorf("Period() = %q, want 2024-01", got)
	}
}

func TestParseCSV_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseCSV(ctx, strings.NewReader(supermarketCSV), LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestDecimalHelpers(t *testing.T) {
	d, err := ParseDecimal("100,50")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDecimal(d); got != "100,5" {
		t.Errorf("FormatDecimal() = %q, want 100,5", got)
	}

	f, err := ParseFloat("9,1")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatFloat(f); got != "9,1" {
		t.Errorf("FormatFloat() = %q, want 9,1", got)
	}

	for _, v := range []string{"100.50", "1.234,56"} {
		if _, err := ParseDecimal(v); !errors.Is(err, errDotDecimal) {
			t.Errorf("ParseDecimal(%q) error = %v, want errDotDecimal", v, err)
		}
	}
	if _, err := ParseFloat("9.1"); !errors.Is(err, errDotDecimal) {
		t.Errorf("ParseFloat(9.1) error = %v, want errDotDecimal", err)
	}
}

func loadFixture(t *testing.T) *models.Dataset {
	t.Helper()
	ds, err := ParseCSV(context.Background(), strings.NewReader(supermarketCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	return ds
}
