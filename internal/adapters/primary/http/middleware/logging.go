package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter captures the status code and payload size for the access log
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// RequestLogger logs control API requests. The listener is loopback-only, so
// no client address is recorded. Successful requests log at debug: the UI
// polls state and toasts continuously and would otherwise drown the log.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", wrapped.bytesWritten,
			}
			if requestID := GetRequestID(r.Context()); requestID != "" {
				attrs = append(attrs, "request_id", requestID)
			}

			switch {
			case wrapped.statusCode >= 500:
				logger.Error("control api request", attrs...)
			case wrapped.statusCode >= 400:
				logger.Warn("control api request", attrs...)
			default:
				logger.Debug("control api request", attrs...)
			}
		})
	}
}

// RecoveryLogger converts handler panics into 500 responses so one bad
// request cannot take the whole client down
func RecoveryLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"request_id", GetRequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"error", err,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
