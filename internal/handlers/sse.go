package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/ui/templates"
)

// ReportSignals is the client state sent with every datastar request.
type ReportSignals struct {
	Period string `json:"period"`
}

type SSEHandlers struct {
	reporter *Reporter
	logger   *slog.Logger
}

func NewSSEHandlers(reporter *Reporter, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		reporter: reporter,
		logger:   logger,
	}
}

// HandleReport recomputes the dashboard for the period signal and patches
// the KPI cards, the table, the export links and the chart signal.
// Without signals the period query parameter is used.
func (h *SSEHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)

	var signals ReportSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Invalid datastar signals"), requestID)
		return
	}
	if signals.Period == "" {
		signals.Period = r.URL.Query().Get("period")
	}

	report, err := h.reporter.Report(ctx, signals.Period)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	ctx, span := observability.StartSpan(ctx, "render")
	fragments, err := renderFragments(ctx,
		templates.KPIs(report),
		templates.DataTable(report),
		templates.Exports(report.Period),
	)
	if err != nil {
		span.SetError(err)
		h.reporter.finish(ctx, span)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render report"), requestID)
		return
	}
	chartSignals, err := templates.Signals(report)
	if err != nil {
		span.SetError(err)
		h.reporter.finish(ctx, span)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to encode chart signals"), requestID)
		return
	}
	span.SetTag("fragments", strconv.Itoa(len(fragments)))
	h.reporter.finish(ctx, span)

	sse := datastar.NewSSE(w, r)
	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err, "request_id", requestID)
			return
		}
	}
	if err := sse.PatchSignals([]byte(chartSignals)); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
		return
	}

	h.logger.Debug("report streamed",
		"period", report.Period,
		"rows", report.Table.TotalRows,
		"request_id", requestID,
	)
}

func renderFragments(ctx context.Context, components ...templ.Component) ([]string, error) {
	out := make([]string, 0, len(components))
	for _, c := range components {
		var sb strings.Builder
		if err := c.Render(ctx, &sb); err != nil {
			return nil, err
		}
		out = append(out, sb.String())
	}
	return out, nil
}
