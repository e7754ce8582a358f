package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LongPollStrategy opens the push channel as a persistent-request loop: each
// poll is a bearer-credentialed GET whose response carries zero or more
// frames. Behaviorally equivalent to the socket strategy from the adapter's
// point of view.
type LongPollStrategy struct {
	url      string
	client   *http.Client
	interval time.Duration
}

// NewLongPollStrategy creates the poll strategy for the given http:// or
// https:// endpoint. interval is the pause between empty rounds.
func NewLongPollStrategy(rawURL string, requestTimeout, interval time.Duration) *LongPollStrategy {
	return &LongPollStrategy{
		url:      rawURL,
		client:   &http.Client{Timeout: requestTimeout},
		interval: interval,
	}
}

func (s *LongPollStrategy) Name() string {
	return "longpoll"
}

// Open performs one initial poll as the handshake - it validates the
// credential before the adapter reports Connected - and returns a connection
// that keeps polling from ReadFrame.
func (s *LongPollStrategy) Open(ctx context.Context, creds Credentials) (Conn, error) {
	connCtx, cancel := context.WithCancel(context.Background())

	c := &pollConn{
		strategy: s,
		creds:    creds,
		ctx:      connCtx,
		cancel:   cancel,
	}

	frames, err := c.poll(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	c.pending = frames

	return c, nil
}

// pollConn buffers the frames of the latest poll round and fetches the next
// round once drained.
type pollConn struct {
	strategy *LongPollStrategy
	creds    Credentials
	ctx      context.Context
	cancel   context.CancelFunc
	pending  [][]byte
}

func (c *pollConn) ReadFrame() ([]byte, error) {
	for {
		if len(c.pending) > 0 {
			frame := c.pending[0]
			c.pending = c.pending[1:]
			return frame, nil
		}

		if err := c.ctx.Err(); err != nil {
			return nil, err
		}

		frames, err := c.poll(c.ctx)
		if err != nil {
			return nil, err
		}

		if len(frames) == 0 {
			select {
			case <-c.ctx.Done():
				return nil, c.ctx.Err()
			case <-time.After(c.strategy.interval):
			}
			continue
		}

		c.pending = frames
	}
}

func (c *pollConn) Close() error {
	c.cancel()
	return nil
}

// poll performs one round. The response body is a JSON array of frames.
func (c *pollConn) poll(ctx context.Context) ([][]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.strategy.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)

	q := req.URL.Query()
	q.Set("userId", c.creds.UserID)
	req.URL.RawQuery = q.Encode()

	resp, err := c.strategy.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("poll returned status %d", resp.StatusCode)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	frames := make([][]byte, len(raw))
	for i, m := range raw {
		frames[i] = []byte(m)
	}
	return frames, nil
}
