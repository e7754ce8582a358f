package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/avelin/estate-notify/internal/core/errors"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// ControlHandler is the localhost surface the UI consumes: connection state,
// history, pending toasts, producer stats and the two user-initiated actions
// (test event, permission request).
type ControlHandler struct {
	transport    ports.Transport
	history      ports.HistorySource
	toasts       ports.ToastPresenter
	stats        ports.StatsClient
	gate         ports.PermissionGate
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewControlHandler creates the control API handler.
func NewControlHandler(
	transport ports.Transport,
	history ports.HistorySource,
	toasts ports.ToastPresenter,
	stats ports.StatsClient,
	gate ports.PermissionGate,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ControlHandler {
	return &ControlHandler{
		transport:    transport,
		history:      history,
		toasts:       toasts,
		stats:        stats,
		gate:         gate,
		errorHandler: errorHandler,
		logger:       logger.With("component", "control_api"),
	}
}

// RegisterRoutes mounts the control endpoints on the router.
func (h *ControlHandler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.Get("/history", h.handleHistory)
	r.Get("/toasts", h.handleToasts)
	r.Get("/stats", h.handleStats)
	r.Post("/test", h.handleTestEvent)
	r.Post("/permission/request", h.handleRequestPermission)
}

// StateResponse reports the push channel state for the presence indicator.
type StateResponse struct {
	State string `json:"state"`
}

func (h *ControlHandler) handleState(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, StateResponse{State: h.transport.State().String()})
}

func (h *ControlHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.history.Snapshot())
}

func (h *ControlHandler) handleToasts(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.toasts.Drain())
}

// handleStats proxies the producer's aggregate figures. A fetch failure is
// not an error here: the UI shows an empty panel instead.
func (h *ControlHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.stats.FetchStats(r.Context())
	if stats == nil {
		WriteSuccess(w, struct{}{})
		return
	}
	WriteSuccess(w, stats)
}

// TestEventRequest is the control API body for triggering a synthetic event.
type TestEventRequest struct {
	Message string `json:"message"`
}

// handleTestEvent asks the producer to push one synthetic event back through
// the channel. Unlike every other path, a failure here is surfaced to the
// user: the action was an explicit diagnostic.
func (h *ControlHandler) handleTestEvent(w http.ResponseWriter, r *http.Request) {
	var req TestEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	if req.Message == "" {
		req.Message = "Test notification"
	}

	if err := h.stats.SendTestEvent(r.Context(), req.Message); err != nil {
		// The client-side throttle is not a producer failure: report 429 and
		// skip the error toast.
		if errors.Is(err, apperrors.ErrTestRateLimited) {
			h.errorHandler.Handle(w, r, err)
			return
		}
		h.toasts.PresentError("Test event failed", "The server did not accept the test notification.")
		h.errorHandler.Handle(w, r, apperrors.NewBadGatewayError(err, "Test event failed"))
		return
	}

	WriteJSON(w, http.StatusOK, SuccessResponse{Message: "test event requested"})
}

// PermissionResponse reports the outcome of a permission request.
type PermissionResponse struct {
	Granted bool `json:"granted"`
}

// handleRequestPermission is the one place permission may be requested: a
// direct user action relayed by the UI.
func (h *ControlHandler) handleRequestPermission(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, PermissionResponse{Granted: h.gate.RequestPermission()})
}
