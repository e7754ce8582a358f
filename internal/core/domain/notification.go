package domain

// NotificationType identifies the category of a pushed event. The vocabulary
// is a contract with the server-side producer: every type the producer may
// emit should have a policy entry, and anything unknown falls back to the
// default policy rather than failing.
type NotificationType string

const (
	TypeNewMessage      NotificationType = "new_message"
	TypeLeadAlert       NotificationType = "lead_alert"
	TypeVendorApproval  NotificationType = "vendor_approval"
	TypeVendorRejection NotificationType = "vendor_rejection"
	TypePaymentReceived NotificationType = "payment_received"
	TypeBroadcast       NotificationType = "broadcast"
	TypeTest            NotificationType = "test"
)

// Notification is a single server-pushed event as it arrives on the push
// channel. Values are immutable once parsed.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`

	// Data is category-specific payload, passed through to the UI opaque.
	Data map[string]any `json:"data,omitempty"`

	// Timestamp is the event-creation instant assigned by the producer,
	// ISO-8601. It is part of the identity key and never reinterpreted here.
	Timestamp string `json:"timestamp"`

	// UserID is the recipient. Routing already happened server-side; this is
	// only used for scoping and display.
	UserID string `json:"userId"`
}

// IdentityKey derives the deduplication identity of the notification.
// Two values with the same key are the same logical event and must not both
// produce side effects.
func (n Notification) IdentityKey() string {
	return string(n.Type) + "|" + n.Timestamp + "|" + n.UserID
}
