package handlers

import (
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/presentation"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTestDataset() *models.Dataset {
	ds := models.NewDataset(nil, []models.Record{
		{
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			City:        "A",
			ProductLine: "Electronics",
			Payment:     "Cash",
			Total:       decimal.RequireFromString("100.50"),
			Rating:      8,
		},
		{
			Date:        time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			City:        "B",
			ProductLine: "Food",
			Payment:     "Card",
			Total:       decimal.RequireFromString("200.00"),
			Rating:      6,
		},
	})
	ds.Source = "memory"
	return ds
}

func createTestReporter() *Reporter {
	return NewReporter(services.NewStaticSource(createTestDataset()), presentation.DefaultFormatter(), testLogger())
}
