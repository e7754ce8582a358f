package domain

// ConnectionState describes the push channel lifecycle.
//
// Transitions: Disconnected → Connecting on a connect attempt,
// Connecting → Connected on a successful handshake, Connected → Disconnected
// on transport error or explicit teardown, and Disconnected → Connecting again
// after a fixed delay unless teardown was explicit.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// MarshalText makes the state readable in JSON responses and logs.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
