package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Toast is an in-app notification card queued for the UI. It auto-dismisses
// after Duration; presenting one never blocks the delivery pipeline.
type Toast struct {
	ID       uuid.UUID
	Title    string
	Message  string
	Variant  ToastVariant
	Duration time.Duration
}

// MarshalJSON reports the dismiss duration in milliseconds, which is what the
// UI layer expects.
func (t Toast) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         uuid.UUID    `json:"id"`
		Title      string       `json:"title"`
		Message    string       `json:"message"`
		Variant    ToastVariant `json:"variant"`
		DurationMs int64        `json:"durationMs"`
	}{t.ID, t.Title, t.Message, t.Variant, t.Duration.Milliseconds()})
}
