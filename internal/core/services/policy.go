package services

import (
	"time"

	"github.com/avelin/estate-notify/internal/core/domain"
)

// defaultPolicy is the guaranteed fallback for unrecognized notification
// types: toast only, default variant, 4s dismiss, no sound, no OS
// notification.
var defaultPolicy = domain.NotificationPolicy{
	ShowToast:     true,
	ToastVariant:  domain.VariantDefault,
	ToastDuration: 4 * time.Second,
}

// policyTable is the closed per-type side-effect configuration. It must stay
// in sync with the type vocabulary the producer emits.
var policyTable = map[domain.NotificationType]domain.NotificationPolicy{
	domain.TypeNewMessage: {
		ShowToast:          true,
		ToastVariant:       domain.VariantInfo,
		ToastDuration:      4 * time.Second,
		PlaySound:          true,
		ShowOSNotification: true,
	},
	domain.TypeLeadAlert: {
		ShowToast:          true,
		ToastVariant:       domain.VariantSuccess,
		ToastDuration:      6 * time.Second,
		PlaySound:          true,
		ShowOSNotification: true,
	},
	domain.TypeVendorApproval: {
		ShowToast:          true,
		ToastVariant:       domain.VariantSuccess,
		ToastDuration:      5 * time.Second,
		PlaySound:          true,
		ShowOSNotification: false,
	},
	domain.TypeVendorRejection: {
		ShowToast:          true,
		ToastVariant:       domain.VariantWarning,
		ToastDuration:      6 * time.Second,
		PlaySound:          false,
		ShowOSNotification: false,
	},
	domain.TypePaymentReceived: {
		ShowToast:          true,
		ToastVariant:       domain.VariantSuccess,
		ToastDuration:      5 * time.Second,
		PlaySound:          true,
		ShowOSNotification: false,
	},
	domain.TypeBroadcast: {
		ShowToast:          true,
		ToastVariant:       domain.VariantDefault,
		ToastDuration:      5 * time.Second,
		PlaySound:          false,
		ShowOSNotification: true,
	},
	domain.TypeTest: {
		ShowToast:          true,
		ToastVariant:       domain.VariantInfo,
		ToastDuration:      4 * time.Second,
		PlaySound:          false,
		ShowOSNotification: false,
	},
}

// PolicyResolver maps notification types to their side-effect policy.
// Resolution is pure: no I/O, no mutation.
type PolicyResolver struct {
	table    map[domain.NotificationType]domain.NotificationPolicy
	fallback domain.NotificationPolicy
}

// NewPolicyResolver returns a resolver over the static policy table.
func NewPolicyResolver() *PolicyResolver {
	return &PolicyResolver{table: policyTable, fallback: defaultPolicy}
}

// Resolve returns the policy for the type, or the default policy when the
// type is not in the table. Unknown types never fail.
func (r *PolicyResolver) Resolve(t domain.NotificationType) domain.NotificationPolicy {
	if p, ok := r.table[t]; ok {
		return p
	}
	return r.fallback
}
