package effects

import (
	"context"
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/avelin/estate-notify/internal/core/domain"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// OSNotifier emits native desktop notifications, tagged by notification type
// so the platform can coalesce repeats of the same category where it supports
// that. It never prompts for permission itself.
type OSNotifier struct {
	gate     ports.PermissionGate
	iconPath string
	notify   func(title, body, icon, tag string) error
	logger   *slog.Logger
}

var _ ports.SideEffectExecutor = (*OSNotifier)(nil)

// NewOSNotifier creates the native notification executor.
func NewOSNotifier(gate ports.PermissionGate, iconPath string, logger *slog.Logger) *OSNotifier {
	return &OSNotifier{
		gate:     gate,
		iconPath: iconPath,
		logger:   logger.With("component", "os_notification"),
		notify: func(title, body, icon, _ string) error {
			// beeep carries no tag; coalescing falls back to platform defaults.
			return beeep.Notify(title, body, icon)
		},
	}
}

func (o *OSNotifier) Name() string {
	return "os_notification"
}

// Execute is a no-op unless the policy asks for a native notification and
// permission is already granted.
func (o *OSNotifier) Execute(_ context.Context, n domain.Notification, policy domain.NotificationPolicy) error {
	if !policy.ShowOSNotification {
		return nil
	}

	if !o.gate.Granted() {
		o.logger.Debug("os notification skipped, permission not granted", "type", n.Type)
		return nil
	}

	return o.notify(n.Title, n.Message, o.iconPath, string(n.Type))
}
