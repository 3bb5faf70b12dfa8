package handlers

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const Version = "1.0.0"

type APIHandlers struct {
	reporter *Reporter
	logger   *slog.Logger
	started  time.Time
}

func NewAPIHandlers(reporter *Reporter, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		reporter: reporter,
		logger:   logger,
		started:  time.Now(),
	}
}

type PeriodsResponse struct {
	Periods []string `json:"periods"`
	Default string   `json:"default"`
}

func (h *APIHandlers) HandlePeriods(w http.ResponseWriter, r *http.Request) {
	ds := h.reporter.Source().Dataset()

	data := PeriodsResponse{
		Periods: ds.Periods(),
		Default: services.DefaultPeriod(ds),
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": noCache,
	})
}

// HandleReport returns the metrics, chart descriptors and table preview
// for ?period=.
func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reporter.Report(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, report, map[string]string{
		"Cache-Control": noCache,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	source := h.reporter.Source()
	if !source.Loaded() {
		errors.WriteError(w, h.logger, errors.ServiceUnavailable("Dataset is not loaded yet"), observability.GetRequestID(r.Context()))
		return
	}
	ds := source.Dataset()

	status := "healthy"
	if ds.Len() == 0 {
		status = "degraded"
	}

	healthData := map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
		"records":   strconv.Itoa(ds.Len()),
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := h.reporter.Source().Stats()
	stats["uptime"] = time.Since(h.started).Round(time.Second).String()
	stats["goroutines"] = runtime.NumGoroutine()
	stats["heap_alloc_bytes"] = mem.HeapAlloc

	errors.WriteSuccess(w, stats)
}

type ReloadResponse struct {
	Records  int    `json:"records"`
	Periods  int    `json:"periods"`
	LoadedAt string `json:"loaded_at"`
}

// HandleReload re-reads the dataset file now. A file that fails to load
// leaves the current snapshot serving.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source := h.reporter.Source()

	if err := source.Load(ctx); err != nil {
		errors.WriteError(w, h.logger, reloadError(err), observability.GetRequestID(ctx))
		return
	}

	ds := source.Dataset()
	errors.WriteSuccess(w, ReloadResponse{
		Records:  ds.Len(),
		Periods:  len(ds.Periods()),
		LoadedAt: ds.LoadedAt.UTC().Format(time.RFC3339),
	})
}

func reloadError(err error) *errors.AppError {
	var malformed *services.MalformedInputError
	var badDate *services.InvalidDateError

	switch {
	case stderrors.Is(err, services.ErrNoPath):
		return errors.BadRequest("Dataset source cannot be reloaded")
	case stderrors.As(err, &malformed):
		return errors.DatasetInvalid(err, "Dataset file is malformed").
			WithDetails("line %d, column %q", malformed.Line, malformed.Column)
	case stderrors.As(err, &badDate):
		return errors.DatasetInvalid(err, "Dataset file has an unreadable date").
			WithDetails("line %d, value %q", badDate.Line, badDate.Value)
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.NotFound("Dataset file not found")
	default:
		return errors.InternalWrap(err, "Failed to reload dataset")
	}
}
