package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/avelin/estate-notify/internal/core/domain"
	apperrors "github.com/avelin/estate-notify/internal/core/errors"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// Client is the out-of-band request/response side of the notification
// producer: aggregate stats and the synthetic test event.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	testLimiter *rate.Limiter
	logger      *slog.Logger
}

var _ ports.StatsClient = (*Client)(nil)

// NewClient creates a bearer-credentialed REST client. Test events are
// rate-limited client-side so a stuck diagnostic button cannot flood the
// producer.
func NewClient(baseURL, token string, requestTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		httpClient:  &http.Client{Timeout: requestTimeout},
		testLimiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:      logger.With("component", "restapi"),
	}
}

// FetchStats returns the producer's aggregate figures, or nil on any failure.
// Failures are logged only - the stats are passive display data and never
// worth an error surface.
func (c *Client) FetchStats(ctx context.Context) *domain.StreamStats {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/notifications/stats", nil)
	if err != nil {
		c.logger.Warn("building stats request failed", "error", err)
		return nil
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("stats request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Warn("stats request rejected", "status", resp.StatusCode)
		return nil
	}

	var stats domain.StreamStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		c.logger.Warn("decoding stats failed", "error", err)
		return nil
	}

	return &stats
}

// testEventRequest is the producer contract for the diagnostic trigger.
type testEventRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SendTestEvent asks the producer to push one synthetic event back through
// the stream. This is the one diagnostic path that reports failure to the
// caller.
func (c *Client) SendTestEvent(ctx context.Context, message string) error {
	if !c.testLimiter.Allow() {
		return apperrors.ErrTestRateLimited
	}

	body, err := json.Marshal(testEventRequest{Type: "test", Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications/test", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("test event rejected with status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}
