package effects

import (
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/avelin/estate-notify/internal/core/ports"
)

// PermissionState tracks the recipient's decision about OS-level
// notifications. Desktop platforms have no browser-style permission API; the
// gate models it explicitly so the emitter can stay a strict no-op until the
// user opted in.
type PermissionState int

const (
	PermissionDefault PermissionState = iota
	PermissionGranted
	PermissionDenied
)

func (s PermissionState) String() string {
	switch s {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// ParsePermissionState reads the configured seed value.
func ParsePermissionState(s string) PermissionState {
	switch s {
	case "granted":
		return PermissionGranted
	case "denied":
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// PermissionGate gates OS notifications. RequestPermission may only be
// invoked from a direct user action; it never re-prompts once denied.
type PermissionGate struct {
	mu     sync.Mutex
	state  PermissionState
	probe  func() error
	logger *slog.Logger
}

var _ ports.PermissionGate = (*PermissionGate)(nil)

// NewPermissionGate creates a gate seeded from configuration. The default
// probe emits one confirmation notification - succeeding proves the platform
// will actually deliver them.
func NewPermissionGate(initial PermissionState, logger *slog.Logger) *PermissionGate {
	return &PermissionGate{
		state:  initial,
		logger: logger.With("component", "permission_gate"),
		probe: func() error {
			return beeep.Notify("Notifications enabled", "You will now receive desktop notifications.", "")
		},
	}
}

// Granted reports whether OS notifications may be emitted right now.
func (g *PermissionGate) Granted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == PermissionGranted
}

// State returns the current permission state.
func (g *PermissionGate) State() PermissionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RequestPermission advances default → granted/denied. Already-granted and
// already-denied states short-circuit without prompting again.
func (g *PermissionGate) RequestPermission() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case PermissionGranted:
		return true
	case PermissionDenied:
		return false
	}

	if err := g.probe(); err != nil {
		g.logger.Warn("notification capability probe failed", "error", err)
		g.state = PermissionDenied
		return false
	}

	g.state = PermissionGranted
	g.logger.Info("os notification permission granted")
	return true
}
