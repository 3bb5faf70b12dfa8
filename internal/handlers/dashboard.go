package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type DashboardHandlers struct {
	reporter *Reporter
	logger   *slog.Logger
}

func NewDashboardHandlers(reporter *Reporter, logger *slog.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		reporter: reporter,
		logger:   logger,
	}
}

// HandleDashboard renders the full page for ?period=, or the default period.
func (h *DashboardHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()
	requestID := observability.GetRequestID(ctx)

	report, err := h.reporter.Report(ctx, r.URL.Query().Get("period"))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	ctx, span := observability.StartSpan(ctx, "render")
	var buf bytes.Buffer
	err = templates.Dashboard(report, h.reporter.Source().Dataset().Source).Render(ctx, &buf)
	span.SetTag("bytes", strconv.Itoa(buf.Len()))
	if err != nil {
		span.SetError(err)
	}
	h.reporter.finish(ctx, span)

	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render dashboard"), requestID)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", noCache)
	w.Write(buf.Bytes())
}
