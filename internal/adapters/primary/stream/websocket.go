package stream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a control message to the peer.
	writeWait = 10 * time.Second

	// Time allowed between server pings. Must be longer than the server's
	// ping period.
	pongWait = 60 * time.Second

	// Maximum message size allowed from the server.
	maxMessageSize = 4096
)

// WebSocketStrategy opens the push channel as a persistent socket.
type WebSocketStrategy struct {
	url    string
	dialer *websocket.Dialer
}

// NewWebSocketStrategy creates the persistent-socket strategy for the given
// ws:// or wss:// endpoint.
func NewWebSocketStrategy(rawURL string, handshakeTimeout time.Duration) *WebSocketStrategy {
	return &WebSocketStrategy{
		url: rawURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

func (s *WebSocketStrategy) Name() string {
	return "websocket"
}

// Open dials the stream endpoint with the bearer credential and returns the
// live connection once the handshake completes.
func (s *WebSocketStrategy) Open(ctx context.Context, creds Credentials) (Conn, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("userId", creds.UserID)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+creds.Token)

	c, resp, err := s.dialer.DialContext(ctx, u.String(), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	c.SetReadLimit(maxMessageSize)
	if err := c.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		_ = c.Close()
		return nil, err
	}

	// The server drives keep-alive pings; answer them and push the read
	// deadline forward each time.
	c.SetPingHandler(func(appData string) error {
		_ = c.SetReadDeadline(time.Now().Add(pongWait))
		return c.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	return &wsConn{c: c}, nil
}

// wsConn adapts a gorilla connection to the Conn contract.
type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) ReadFrame() ([]byte, error) {
	_, data, err := w.c.ReadMessage()
	return data, err
}

func (w *wsConn) Close() error {
	// Best effort close handshake before tearing down the socket.
	_ = w.c.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	return w.c.Close()
}
