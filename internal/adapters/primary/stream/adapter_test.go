package stream_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelin/estate-notify/internal/adapters/primary/stream"
	"github.com/avelin/estate-notify/internal/core/domain"
)

// scriptedConn feeds frames until its script runs out, then fails with errDrop.
type scriptedConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed chan struct{}
	once   sync.Once
}

var errDrop = errors.New("connection dropped")

func newScriptedConn(frames ...[]byte) *scriptedConn {
	return &scriptedConn{frames: frames, closed: make(chan struct{})}
}

func (c *scriptedConn) ReadFrame() ([]byte, error) {
	c.mu.Lock()
	if len(c.frames) > 0 {
		frame := c.frames[0]
		c.frames = c.frames[1:]
		c.mu.Unlock()
		return frame, nil
	}
	c.mu.Unlock()

	<-c.closed
	return nil, errDrop
}

func (c *scriptedConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// Drop simulates a transport-level failure.
func (c *scriptedConn) Drop() {
	c.once.Do(func() { close(c.closed) })
}

// fakeStrategy hands out scripted connections in sequence.
type fakeStrategy struct {
	mu    sync.Mutex
	conns []*scriptedConn
	opens int
}

func (s *fakeStrategy) Name() string { return "fake" }

func (s *fakeStrategy) Open(ctx context.Context, creds stream.Credentials) (stream.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opens++
	if len(s.conns) == 0 {
		return nil, errors.New("no connection scripted")
	}
	conn := s.conns[0]
	s.conns = s.conns[1:]
	return conn, nil
}

func (s *fakeStrategy) openCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

var testCreds = stream.Credentials{UserID: "u1", Token: "tok"}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func waitForState(t *testing.T, a *stream.Adapter, want domain.ConnectionState) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-a.States():
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s, current %s", want, a.State())
		}
	}
}

func TestAdapter_Connect(t *testing.T) {
	t.Run("delivers frames after connecting", func(t *testing.T) {
		conn := newScriptedConn([]byte(`{"type":"broadcast"}`))
		strategy := &fakeStrategy{conns: []*scriptedConn{conn}}
		a := stream.NewAdapter(strategy, testCreds, time.Hour, testLogger())
		defer a.Disconnect()

		a.Connect()
		waitForState(t, a, domain.Connected)

		select {
		case frame := <-a.Frames():
			assert.JSONEq(t, `{"type":"broadcast"}`, string(frame))
		case <-time.After(2 * time.Second):
			t.Fatal("no frame delivered")
		}
	})

	t.Run("no-op while already connected", func(t *testing.T) {
		conn := newScriptedConn()
		strategy := &fakeStrategy{conns: []*scriptedConn{conn}}
		a := stream.NewAdapter(strategy, testCreds, time.Hour, testLogger())
		defer a.Disconnect()

		a.Connect()
		waitForState(t, a, domain.Connected)

		a.Connect()
		a.Connect()

		assert.Equal(t, 1, strategy.openCount())
		assert.Equal(t, domain.Connected, a.State())
	})

	t.Run("missing credentials fail silently", func(t *testing.T) {
		strategy := &fakeStrategy{}
		a := stream.NewAdapter(strategy, stream.Credentials{}, time.Hour, testLogger())

		a.Connect()

		assert.Equal(t, domain.Disconnected, a.State())
		assert.Equal(t, 0, strategy.openCount())
		assert.False(t, a.RetryPending())
	})
}

func TestAdapter_Reconnect(t *testing.T) {
	t.Run("transport error schedules automatic reconnect", func(t *testing.T) {
		first := newScriptedConn()
		second := newScriptedConn([]byte(`{"type":"test"}`))
		strategy := &fakeStrategy{conns: []*scriptedConn{first, second}}
		a := stream.NewAdapter(strategy, testCreds, 20*time.Millisecond, testLogger())
		defer a.Disconnect()

		a.Connect()
		waitForState(t, a, domain.Connected)

		// Drop the connection; no caller action from here on.
		first.Drop()
		waitForState(t, a, domain.Disconnected)
		waitForState(t, a, domain.Connecting)
		waitForState(t, a, domain.Connected)

		assert.Equal(t, 2, strategy.openCount())

		select {
		case frame := <-a.Frames():
			assert.JSONEq(t, `{"type":"test"}`, string(frame))
		case <-time.After(2 * time.Second):
			t.Fatal("no frame after reconnect")
		}
	})

	t.Run("failed dial keeps retrying", func(t *testing.T) {
		second := newScriptedConn()
		// First open has nothing scripted and errors; the retry succeeds.
		strategy := &fakeStrategy{}
		a := stream.NewAdapter(strategy, testCreds, 20*time.Millisecond, testLogger())
		defer a.Disconnect()

		a.Connect()
		waitForState(t, a, domain.Disconnected)

		strategy.mu.Lock()
		strategy.conns = []*scriptedConn{second}
		strategy.mu.Unlock()

		waitForState(t, a, domain.Connected)
		assert.GreaterOrEqual(t, strategy.openCount(), 2)
	})
}

func TestAdapter_Disconnect(t *testing.T) {
	t.Run("cancels pending reconnect", func(t *testing.T) {
		first := newScriptedConn()
		strategy := &fakeStrategy{conns: []*scriptedConn{first}}
		a := stream.NewAdapter(strategy, testCreds, time.Hour, testLogger())

		a.Connect()
		waitForState(t, a, domain.Connected)

		first.Drop()
		waitForState(t, a, domain.Disconnected)
		require.True(t, a.RetryPending())

		a.Disconnect()

		assert.False(t, a.RetryPending())
		assert.Equal(t, domain.Disconnected, a.State())
		assert.Equal(t, 1, strategy.openCount())
	})

	t.Run("safe to call twice", func(t *testing.T) {
		conn := newScriptedConn()
		strategy := &fakeStrategy{conns: []*scriptedConn{conn}}
		a := stream.NewAdapter(strategy, testCreds, time.Hour, testLogger())

		a.Connect()
		waitForState(t, a, domain.Connected)

		a.Disconnect()
		a.Disconnect()

		assert.Equal(t, domain.Disconnected, a.State())
		assert.False(t, a.RetryPending())
	})

	t.Run("discards frames buffered before teardown", func(t *testing.T) {
		conn := newScriptedConn([]byte(`{"type":"new_message","timestamp":"2024-01-01T00:00:00Z","userId":"u1"}`))
		strategy := &fakeStrategy{conns: []*scriptedConn{conn}}
		a := stream.NewAdapter(strategy, testCreds, time.Hour, testLogger())

		a.Connect()
		waitForState(t, a, domain.Connected)

		// Nothing consumes Frames(), so the frame sits in the buffer.
		require.Eventually(t, func() bool {
			return len(a.Frames()) == 1
		}, 2*time.Second, 5*time.Millisecond)

		a.Disconnect()

		select {
		case frame := <-a.Frames():
			t.Fatalf("frame delivered after teardown: %s", frame)
		default:
		}
	})

	t.Run("safe to call when never connected", func(t *testing.T) {
		a := stream.NewAdapter(&fakeStrategy{}, testCreds, time.Hour, testLogger())

		a.Disconnect()
		a.Disconnect()

		assert.Equal(t, domain.Disconnected, a.State())
	})

	t.Run("can connect again after explicit disconnect", func(t *testing.T) {
		first := newScriptedConn()
		second := newScriptedConn()
		strategy := &fakeStrategy{conns: []*scriptedConn{first, second}}
		a := stream.NewAdapter(strategy, testCreds, time.Hour, testLogger())
		defer a.Disconnect()

		a.Connect()
		waitForState(t, a, domain.Connected)

		a.Disconnect()

		a.Connect()
		waitForState(t, a, domain.Connected)
		assert.Equal(t, 2, strategy.openCount())
	})
}
