package ports

import (
	"context"

	"github.com/avelin/estate-notify/internal/core/domain"
)

// Transport defines the port for the inbound push channel. Exactly one
// underlying connection exists at a time; reconnection after transport errors
// is the adapter's own responsibility.
type Transport interface {
	// Connect is idempotent: a call while Connecting or Connected is a no-op.
	// A missing identity or credential fails silently (logged, state stays
	// Disconnected).
	Connect()

	// Disconnect tears down the connection, cancels any pending reconnect and
	// detaches listeners. Calling it when already disconnected is a safe no-op.
	Disconnect()

	// Frames delivers raw inbound frames in arrival order.
	Frames() <-chan []byte

	// States publishes connection-state changes for the UI presence indicator.
	States() <-chan domain.ConnectionState

	State() domain.ConnectionState
}

// SideEffectExecutor turns a notification into one observable user-facing
// action. Executors degrade independently; a returned error is logged by the
// dispatcher and never stops the other executors.
type SideEffectExecutor interface {
	Name() string
	Execute(ctx context.Context, n domain.Notification, policy domain.NotificationPolicy) error
}

// PermissionGate controls access to OS-level notifications.
type PermissionGate interface {
	Granted() bool

	// RequestPermission must only be invoked from a direct user action. It
	// short-circuits when permission is already granted or permanently denied.
	RequestPermission() bool
}

// StatsClient defines the out-of-band request/response port to the producer.
type StatsClient interface {
	// FetchStats returns nil on failure; errors are logged, never surfaced.
	FetchStats(ctx context.Context) *domain.StreamStats

	// SendTestEvent asks the producer to emit one synthetic event back through
	// the push channel. This is the one diagnostic allowed to report failure.
	SendTestEvent(ctx context.Context, message string) error
}

// HistorySource exposes the delivered-notification buffer to the UI.
type HistorySource interface {
	Snapshot() []domain.Notification
}

// ToastPresenter exposes the pending in-app toasts to the UI.
type ToastPresenter interface {
	Drain() []domain.Toast

	// PresentError surfaces a user-visible error toast. Only explicit
	// diagnostic actions use this path.
	PresentError(title, message string)
}
