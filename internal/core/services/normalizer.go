package services

import (
	"encoding/json"
	"fmt"

	"github.com/avelin/estate-notify/internal/core/domain"
	apperrors "github.com/avelin/estate-notify/internal/core/errors"
)

// controlFrameTypes are administrative frames the producer sends on the push
// channel (handshake acknowledgements, keep-alives). They are filtered out
// before the dedup filter ever sees them.
var controlFrameTypes = map[domain.NotificationType]bool{
	"connected": true,
	"handshake": true,
	"ping":      true,
	"pong":      true,
}

// ParseFrame parses one raw inbound frame into a Notification.
//
// Malformed frames return a wrapped ErrMalformedFrame; well-formed control
// frames return ErrControlFrame. Neither is fatal to the connection - the
// caller logs and drops the frame.
func ParseFrame(raw []byte) (*domain.Notification, error) {
	var n domain.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedFrame, err)
	}

	if controlFrameTypes[n.Type] {
		return nil, apperrors.ErrControlFrame
	}

	if n.Type == "" || n.Timestamp == "" {
		return nil, fmt.Errorf("%w: missing type or timestamp", apperrors.ErrMalformedFrame)
	}

	return &n, nil
}
