package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelin/estate-notify/internal/core/domain"
)

func TestNotification_IdentityKey(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Notification
		same bool
	}{
		{
			"identical events share a key",
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			true,
		},
		{
			"different payloads same identity",
			domain.Notification{Type: domain.TypeNewMessage, Title: "a", Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			domain.Notification{Type: domain.TypeNewMessage, Title: "b", Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			true,
		},
		{
			"type differentiates",
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			domain.Notification{Type: domain.TypeBroadcast, Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			false,
		},
		{
			"timestamp differentiates",
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:01Z", UserID: "u1"},
			false,
		},
		{
			"recipient differentiates",
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:00Z", UserID: "u1"},
			domain.Notification{Type: domain.TypeNewMessage, Timestamp: "2026-08-30T10:00:00Z", UserID: "u2"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, tt.a.IdentityKey(), tt.b.IdentityKey())
			} else {
				assert.NotEqual(t, tt.a.IdentityKey(), tt.b.IdentityKey())
			}
		})
	}
}

func TestToast_MarshalJSON(t *testing.T) {
	toast := domain.Toast{
		ID:       uuid.New(),
		Title:    "New lead",
		Message:  "A buyer is interested",
		Variant:  domain.VariantSuccess,
		Duration: 6 * time.Second,
	}

	data, err := json.Marshal(toast)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(6000), decoded["durationMs"])
	assert.Equal(t, "success", decoded["variant"])
	assert.Equal(t, toast.ID.String(), decoded["id"])
}

func TestConnectionState_String(t *testing.T) {
	assert.Equal(t, "disconnected", domain.Disconnected.String())
	assert.Equal(t, "connecting", domain.Connecting.String())
	assert.Equal(t, "connected", domain.Connected.String())
}
