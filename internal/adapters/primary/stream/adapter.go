package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelin/estate-notify/internal/core/domain"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// DefaultReconnectDelay is the fixed interval before an automatic reconnect.
// No backoff: the channel favors availability over politeness.
const DefaultReconnectDelay = 5 * time.Second

// Credentials identify the session the push channel belongs to.
type Credentials struct {
	UserID string
	Token  string
}

// Conn is one live inbound connection. ReadFrame blocks until the next frame
// or a transport error.
type Conn interface {
	ReadFrame() ([]byte, error)
	Close() error
}

// Strategy opens connections. The two implementations (websocket, long-poll)
// share this contract so the adapter never duplicates reconnect logic.
type Strategy interface {
	Name() string
	Open(ctx context.Context, creds Credentials) (Conn, error)
}

// Adapter owns the single inbound event connection: state machine, fixed-delay
// reconnect and exclusive access to the underlying connection object. No other
// component touches the connection directly.
type Adapter struct {
	strategy       Strategy
	creds          Credentials
	reconnectDelay time.Duration
	logger         *slog.Logger

	mu         sync.Mutex
	state      domain.ConnectionState
	conn       Conn
	retryTimer *time.Timer
	closed     bool
	gen        int

	frames chan []byte
	states chan domain.ConnectionState
}

// Ensure Adapter implements the Transport port.
var _ ports.Transport = (*Adapter)(nil)

// NewAdapter creates a transport adapter over the given connection strategy.
func NewAdapter(strategy Strategy, creds Credentials, reconnectDelay time.Duration, logger *slog.Logger) *Adapter {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &Adapter{
		strategy:       strategy,
		creds:          creds,
		reconnectDelay: reconnectDelay,
		logger:         logger.With("component", "transport", "strategy", strategy.Name()),
		frames:         make(chan []byte, 256),
		states:         make(chan domain.ConnectionState, 8),
	}
}

// Frames delivers raw inbound frames in arrival order.
func (a *Adapter) Frames() <-chan []byte {
	return a.frames
}

// States publishes connection-state changes for the UI presence indicator.
func (a *Adapter) States() <-chan domain.ConnectionState {
	return a.states
}

// State returns the current connection state.
func (a *Adapter) State() domain.ConnectionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Connect opens the push channel. Idempotent: a call while Connecting or
// Connected is a no-op. Missing credentials fail silently - logged, state
// stays Disconnected - since the session may simply not be authenticated yet.
func (a *Adapter) Connect() {
	a.mu.Lock()
	if a.state != domain.Disconnected {
		a.mu.Unlock()
		return
	}

	if a.creds.UserID == "" || a.creds.Token == "" {
		a.logger.Warn("cannot open push channel without credentials")
		a.mu.Unlock()
		return
	}

	if a.retryTimer != nil {
		a.retryTimer.Stop()
		a.retryTimer = nil
	}

	a.closed = false
	a.gen++
	gen := a.gen
	a.setStateLocked(domain.Connecting)
	a.mu.Unlock()

	go a.open(gen)
}

// open dials outside the lock; a Disconnect issued meanwhile wins.
func (a *Adapter) open(gen int) {
	conn, err := a.strategy.Open(context.Background(), a.creds)

	a.mu.Lock()
	if a.closed || a.gen != gen {
		a.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return
	}

	if err != nil {
		a.logger.Warn("push channel connect failed", "error", err)
		a.setStateLocked(domain.Disconnected)
		a.scheduleRetryLocked()
		a.mu.Unlock()
		return
	}

	a.conn = conn
	a.setStateLocked(domain.Connected)
	a.mu.Unlock()

	a.logger.Info("push channel connected")
	go a.readLoop(conn, gen)
}

func (a *Adapter) readLoop(conn Conn, gen int) {
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			a.handleTransportError(gen, err)
			return
		}

		// Buffering happens under the lock so a concurrent Disconnect can
		// never interleave with a frame slipping in after its drain.
		a.mu.Lock()
		if a.closed || a.gen != gen {
			a.mu.Unlock()
			return
		}
		select {
		case a.frames <- frame:
		default:
			a.logger.Warn("frame buffer full, dropping frame")
		}
		a.mu.Unlock()
	}
}

// handleTransportError moves Connected → Disconnected and schedules the
// automatic reconnect. Errors on a stale generation (already superseded or
// explicitly torn down) are ignored.
func (a *Adapter) handleTransportError(gen int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.gen != gen {
		return
	}

	a.logger.Warn("push channel lost", "error", err)

	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}

	a.setStateLocked(domain.Disconnected)
	a.scheduleRetryLocked()
}

// scheduleRetryLocked arms the fixed-delay reconnect timer. Retries are
// unbounded; only an explicit Disconnect cancels them.
func (a *Adapter) scheduleRetryLocked() {
	if a.closed {
		return
	}
	if a.retryTimer != nil {
		a.retryTimer.Stop()
	}
	a.retryTimer = time.AfterFunc(a.reconnectDelay, a.Connect)
}

// Disconnect tears down the connection deterministically: cancels any pending
// reconnect timer, closes the connection, stops frame delivery and discards
// frames that were buffered but not yet consumed. Safe to call twice.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	a.gen++

	if a.retryTimer != nil {
		a.retryTimer.Stop()
		a.retryTimer = nil
	}

	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}

	// Frames buffered before teardown must not reach the pipeline after it.
drain:
	for {
		select {
		case <-a.frames:
		default:
			break drain
		}
	}

	if a.state != domain.Disconnected {
		a.setStateLocked(domain.Disconnected)
	}
}

// RetryPending reports whether a reconnect timer is armed.
func (a *Adapter) RetryPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.retryTimer != nil
}

func (a *Adapter) setStateLocked(s domain.ConnectionState) {
	a.state = s
	select {
	case a.states <- s:
	default:
		// Presence indicator lags behind; latest state still wins via State().
	}
}
