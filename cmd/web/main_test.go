package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sales-dashboard/internal/config"
)

const sampleCSV = `Invoice ID;Branch;City;Customer type;Gender;Product line;Unit price;Quantity;Tax 5%;Total;Date;Time;Payment;cogs;gross margin percentage;gross income;Rating
750-67-8428;A;Yangon;Member;Female;Health and beauty;74,69;7;26,1415;548,9715;1/5/2019;13:08;Ewallet;522,83;4,761904762;26,1415;9,1
226-31-3081;C;Naypyitaw;Normal;Female;Electronic accessories;15,28;5;3,82;80,22;3/8/2019;10:29;Cash;76,4;4,761904762;3,82;9,6
`

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(t *testing.T, csv string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Dataset: config.DatasetConfig{
			CSVFile:     path,
			DateLayouts: []string{"1/2/2006", "2006-01-02"},
		},
	}
}

func TestLoadSource(t *testing.T) {
	source, err := loadSource(testConfig(t, sampleCSV), quiet)
	if err != nil {
		t.Fatalf("loadSource() error = %v", err)
	}
	defer source.Stop()

	ds := source.Dataset()
	if ds.Len() != 2 {
		t.Errorf("loaded %d records, want 2", ds.Len())
	}
	if periods := ds.Periods(); len(periods) != 2 || periods[0] != "2019-01" {
		t.Errorf("periods = %v", periods)
	}
}

func TestLoadSource_WithReload(t *testing.T) {
	cfg := testConfig(t, sampleCSV)
	cfg.Dataset.ReloadInterval = time.Hour

	source, err := loadSource(cfg, quiet)
	if err != nil {
		t.Fatalf("loadSource() error = %v", err)
	}
	source.Stop()
}

func TestLoadSource_Failures(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) *config.Config
	}{
		{"missing file", func(t *testing.T) *config.Config {
			return &config.Config{Dataset: config.DatasetConfig{CSVFile: filepath.Join(t.TempDir(), "absent.csv")}}
		}},
		{"missing column", func(t *testing.T) *config.Config {
			return testConfig(t, "Date;City\n1/5/2019;Yangon\n")
		}},
		{"bad date", func(t *testing.T) *config.Config {
			return testConfig(t, "Date;City;Product line;Payment;Total;Rating\n2019-31-31;Yangon;Food;Cash;1,0;5\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadSource(tt.cfg(t), quiet); err == nil {
				t.Error("expected startup load to fail")
			}
		})
	}
}
