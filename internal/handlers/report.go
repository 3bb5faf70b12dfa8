package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/presentation"
	"sales-dashboard/internal/services"
)

const noCache = "no-cache"

// Selection is one period applied to one dataset snapshot.
type Selection struct {
	Dataset  *models.Dataset
	Filtered models.FilteredDataset
}

// Reporter resolves period selections against the current snapshot and
// builds reports from them. It is shared by every handler.
type Reporter struct {
	source    *services.Source
	formatter *presentation.Formatter
	logger    *slog.Logger
}

func NewReporter(source *services.Source, formatter *presentation.Formatter, logger *slog.Logger) *Reporter {
	if formatter == nil {
		formatter = presentation.DefaultFormatter()
	}
	return &Reporter{
		source:    source,
		formatter: formatter,
		logger:    logger,
	}
}

// Select filters the current snapshot to raw. An empty raw selects the
// default period; a malformed one is a validation error. Nothing can be
// selected before the first load.
func (rp *Reporter) Select(ctx context.Context, raw string) (Selection, error) {
	if !rp.source.Loaded() {
		return Selection{}, errors.ServiceUnavailable("Dataset is not loaded yet")
	}
	ds := rp.source.Dataset()

	period := strings.TrimSpace(raw)
	if period == "" {
		period = services.DefaultPeriod(ds)
	} else if !services.ValidPeriod(period) {
		return Selection{}, errors.Validation(fmt.Sprintf("Invalid period %q", raw)).WithDetails("expected YYYY-MM")
	}

	ctx, span := observability.StartSpan(ctx, "filter")
	filtered := services.Filter(ds, period)
	span.SetTag("period", period)
	span.SetTag("rows", strconv.Itoa(filtered.Len()))
	rp.finish(ctx, span)

	return Selection{Dataset: ds, Filtered: filtered}, nil
}

// Build aggregates sel into a report.
func (rp *Reporter) Build(ctx context.Context, sel Selection) presentation.Report {
	ctx, span := observability.StartSpan(ctx, "aggregate")
	report := presentation.Build(sel.Dataset, sel.Filtered, rp.formatter)
	span.SetTag("period", report.Period)
	span.SetTag("charts", strconv.Itoa(len(report.Charts)))
	rp.finish(ctx, span)

	return report
}

// Report is Select followed by Build.
func (rp *Reporter) Report(ctx context.Context, raw string) (presentation.Report, error) {
	sel, err := rp.Select(ctx, raw)
	if err != nil {
		return presentation.Report{}, err
	}
	return rp.Build(ctx, sel), nil
}

// Source returns the dataset source backing the reporter.
func (rp *Reporter) Source() *services.Source {
	return rp.source
}

func (rp *Reporter) finish(ctx context.Context, span *observability.Span) {
	span.Finish()
	span.Log(ctx, observability.RequestLogger(ctx, rp.logger))
}
