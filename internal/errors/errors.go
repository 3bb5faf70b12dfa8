// Package errors holds the dashboard's error codes and the JSON envelopes
// API responses are written in.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeRateLimit      ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatasetInvalid ErrorCode = "DATASET_INVALID"
	CodeExport         ErrorCode = "EXPORT_FAILED"
)

var statusCodes = map[ErrorCode]int{
	CodeValidation:     http.StatusBadRequest,
	CodeBadRequest:     http.StatusBadRequest,
	CodeForbidden:      http.StatusForbidden,
	CodeNotFound:       http.StatusNotFound,
	CodeDatasetInvalid: http.StatusUnprocessableEntity,
	CodeRateLimit:      http.StatusTooManyRequests,
	CodeServiceUnavail: http.StatusServiceUnavailable,
}

// StatusCode is the HTTP status an error with code is answered with.
// Unknown codes answer 500.
func StatusCode(code ErrorCode) int {
	if status, ok := statusCodes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError is the error body of every failed API response. Cause is logged
// and never serialized.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails sets the client-facing detail line and returns e.
func (e *AppError) WithDetails(format string, args ...any) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: StatusCode(code),
		Timestamp:  time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Cause = err
	return e
}

func Internal(message string) *AppError { return New(CodeInternal, message) }

func InternalWrap(err error, message string) *AppError { return Wrap(err, CodeInternal, message) }

func Validation(message string) *AppError { return New(CodeValidation, message) }

func NotFound(message string) *AppError { return New(CodeNotFound, message) }

func BadRequest(message string) *AppError { return New(CodeBadRequest, message) }

func BadRequestWrap(err error, message string) *AppError { return Wrap(err, CodeBadRequest, message) }

func Forbidden(message string) *AppError { return New(CodeForbidden, message) }

func RateLimit(message string) *AppError { return New(CodeRateLimit, message) }

func ServiceUnavailable(message string) *AppError { return New(CodeServiceUnavail, message) }

// DatasetInvalid reports a dataset file that exists but cannot be loaded.
func DatasetInvalid(err error, message string) *AppError {
	return Wrap(err, CodeDatasetInvalid, message)
}

// Export reports a CSV or XLSX encoding failure for one download.
func Export(err error, message string) *AppError {
	return Wrap(err, CodeExport, message)
}

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

type SuccessResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

// WriteError answers with err's envelope. Errors that are not an AppError
// anywhere in their chain become a generic 500 so internals never leak.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, requestID string) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = InternalWrap(err, "An unexpected error occurred")
	}
	appErr.RequestID = requestID

	level := slog.LevelWarn
	if appErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "request failed",
		"error_code", appErr.Code,
		"error_message", appErr.Message,
		"status_code", appErr.StatusCode,
		"request_id", requestID,
		"cause", appErr.Cause,
	)

	if encodeErr := writeJSON(w, appErr.StatusCode, ErrorResponse{Error: appErr}); encodeErr != nil {
		logger.Error("failed to encode error response",
			"encode_error", encodeErr,
			"request_id", requestID,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func WriteSuccess(w http.ResponseWriter, data any) {
	_ = writeJSON(w, http.StatusOK, SuccessResponse{Data: data, Success: true})
}

func WriteSuccessWithHeaders(w http.ResponseWriter, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteSuccess(w, data)
}

// writeJSON encodes v before touching the response, so a value that cannot
// be encoded leaves the status unwritten. Write errors mean the client went
// away and are dropped.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}
