package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

type ExportHandlers struct {
	reporter *Reporter
	logger   *slog.Logger
}

func NewExportHandlers(reporter *Reporter, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{
		reporter: reporter,
		logger:   logger,
	}
}

type encoder func(io.Writer, models.FilteredDataset) error

func (h *ExportHandlers) HandleCSV(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, export.WriteCSV, export.CSVContentType+"; charset=utf-8", export.CSVFilename)
}

func (h *ExportHandlers) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, export.WriteXLSX, export.XLSXContentType, export.XLSXFilename)
}

// serve encodes the whole selection before writing so a failed export
// still gets a clean error response.
func (h *ExportHandlers) serve(w http.ResponseWriter, r *http.Request, encode encoder, contentType, filename string) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)

	sel, err := h.reporter.Select(ctx, r.URL.Query().Get("period"))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	ctx, span := observability.StartSpan(ctx, "export")
	span.SetTag("format", filename)
	var buf bytes.Buffer
	err = encode(&buf, sel.Filtered)
	if err != nil {
		span.SetError(err)
	}
	h.reporter.finish(ctx, span)

	if err != nil {
		errors.WriteError(w, h.logger, errors.Export(err, "Failed to export data"), requestID)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", noCache)
	w.Write(buf.Bytes())

	h.logger.Debug("export served",
		"file", filename,
		"period", sel.Filtered.Period,
		"rows", sel.Filtered.Len(),
		"request_id", requestID,
	)
}
