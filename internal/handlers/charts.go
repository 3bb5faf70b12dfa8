package handlers

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
)

type ChartHandlers struct {
	reporter *Reporter
	logger   *slog.Logger
}

func NewChartHandlers(reporter *Reporter, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		reporter: reporter,
		logger:   logger,
	}
}

// HandlePNG serves /charts/{file} where file is "<chart id>.png".
// Optional width and height query parameters size the image.
func (h *ChartHandlers) HandlePNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)
	query := r.URL.Query()

	id, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok || id == "" {
		errors.WriteError(w, h.logger, errors.NotFound("Chart not found"), requestID)
		return
	}

	report, err := h.reporter.Report(ctx, query.Get("period"))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	chart, ok := report.Chart(id)
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("Chart not found"), requestID)
		return
	}

	ctx, span := observability.StartSpan(ctx, "render")
	span.SetTag("chart", id)
	var buf bytes.Buffer
	err = charts.RenderPNG(&buf, chart, atoi(query.Get("width")), atoi(query.Get("height")))
	if err != nil {
		span.SetError(err)
	}
	h.reporter.finish(ctx, span)

	switch {
	case stderrors.Is(err, charts.ErrUnsupportedKind):
		errors.WriteError(w, h.logger, errors.NotFound("Chart has no PNG rendering"), requestID)
		return
	case stderrors.Is(err, charts.ErrNoData):
		errors.WriteError(w, h.logger, errors.NotFound("Chart has no data for this period"), requestID)
		return
	case err != nil:
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", noCache)
	w.Write(buf.Bytes())
}

// atoi returns 0 for anything that is not a number, selecting the default.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
