package http

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/avelin/estate-notify/internal/adapters/primary/http/middleware"
	apperrors "github.com/avelin/estate-notify/internal/core/errors"
)

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := mw.GetRequestID(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		WriteJSON(w, appErr.StatusCode, ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
		return
	}

	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err, requestID)
	WriteJSON(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, ErrorResponse{
			Error: "Bad request",
			Code:  "BAD_REQUEST",
		}
	case errors.Is(err, apperrors.ErrTestRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many test events. Please try again later.",
			Code:  "RATE_LIMITED",
		}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, ErrorResponse{
			Error: "Notification permission denied",
			Code:  "PERMISSION_DENIED",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

func (h *ErrorHandler) logError(r *http.Request, status int, err error, requestID string) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	}
	if requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}

	if status >= 500 {
		h.logger.Error("request failed", attrs...)
	} else {
		h.logger.Warn("request failed", attrs...)
	}
}
