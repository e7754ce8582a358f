package domain

import "time"

// ToastVariant selects the visual treatment of an in-app toast.
type ToastVariant string

const (
	VariantDefault ToastVariant = "default"
	VariantSuccess ToastVariant = "success"
	VariantInfo    ToastVariant = "info"
	VariantWarning ToastVariant = "warning"
	VariantError   ToastVariant = "error"
)

// NotificationPolicy is the static per-type configuration governing which
// side effects fire for a notification and with what display parameters.
// The table is read-only at runtime.
type NotificationPolicy struct {
	ShowToast          bool
	ToastVariant       ToastVariant
	ToastDuration      time.Duration
	PlaySound          bool
	ShowOSNotification bool
}
