package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelin/estate-notify/internal/adapters/primary/http/middleware"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}
	return lines
}

func TestRequestLogger(t *testing.T) {
	serve := func(t *testing.T, handler http.HandlerFunc) []map[string]any {
		t.Helper()

		logger, buf := captureLogger()
		wrapped := middleware.RequestLogger(logger)(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/notifier/state", nil)
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
		return logLines(t, buf)
	}

	t.Run("successful poll logs at debug", func(t *testing.T) {
		lines := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"state":"connected"}`))
		})

		require.Len(t, lines, 1)
		assert.Equal(t, "DEBUG", lines[0]["level"])
		assert.Equal(t, "GET", lines[0]["method"])
		assert.Equal(t, "/api/v1/notifier/state", lines[0]["path"])
		assert.Equal(t, float64(http.StatusOK), lines[0]["status"])
	})

	t.Run("client error logs at warn", func(t *testing.T) {
		lines := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})

		require.Len(t, lines, 1)
		assert.Equal(t, "WARN", lines[0]["level"])
		assert.Equal(t, float64(http.StatusBadRequest), lines[0]["status"])
	})

	t.Run("server error logs at error", func(t *testing.T) {
		lines := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		require.Len(t, lines, 1)
		assert.Equal(t, "ERROR", lines[0]["level"])
	})
}

func TestRecoveryLogger(t *testing.T) {
	logger, buf := captureLogger()
	wrapped := middleware.RecoveryLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifier/history", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`, rec.Body.String())

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "panic recovered", lines[0]["msg"])
	assert.Equal(t, "boom", lines[0]["error"])
}
