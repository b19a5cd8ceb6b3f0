package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/protocol"
	"github.com/muurk/premiere/internal/urls"
)

const (
	// DefaultTimeout is the per-request HTTP timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the delay before the first retry
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// maxBodySize bounds catalog responses
	maxBodySize = 32 << 20

	// pongWait is how long the feed may stay silent before it is considered dead
	pongWait = 60 * time.Second
)

// Client talks to a library server.
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.4.16:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Dialer opens feed connections
	Dialer *websocket.Dialer

	// MaxRetries is the number of retries after a retryable failure
	MaxRetries int

	// RetryDelay is the initial backoff delay; it doubles per retry
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff
	MaxRetryDelay time.Duration
}

// New creates a client for the server at baseURL. A missing scheme defaults
// to http.
func New(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL:       baseURL,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		Dialer:        websocket.DefaultDialer,
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetRetry configures retry behaviour.
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping checks that the server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var health protocol.Health
	if err := c.getJSON(ctx, urls.Health, &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return newHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("library reports status %q", health.Status))
	}
	return nil
}

// FetchCatalog downloads and validates the full catalog, retrying
// retryable failures with exponential backoff.
func (c *Client) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var cat *catalog.Catalog
	err := c.withRetry(ctx, func() error {
		var doc catalog.Document
		if err := c.getJSON(ctx, urls.Catalog, &doc); err != nil {
			return err
		}
		parsed, err := catalog.FromDocument(doc)
		if err != nil {
			return newParseError("library sent an invalid catalog", err)
		}
		cat = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// FetchScript downloads one record by id.
func (c *Client) FetchScript(ctx context.Context, id string) (catalog.Record, error) {
	var r catalog.Record
	err := c.withRetry(ctx, func() error {
		return c.getJSON(ctx, urls.Script(id), &r)
	})
	return r, err
}

// withRetry runs attempt until it succeeds, fails with a non-retryable
// error, runs out of retries, or ctx is done.
func (c *Client) withRetry(ctx context.Context, attempt func() error) error {
	var lastErr error
	delay := c.RetryDelay

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			logging.Debug("Retrying library request",
				zap.String("base_url", c.BaseURL),
				zap.Int("attempt", i+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return newNetworkError("request cancelled", ctx.Err())
			case <-timer.C:
			}

			delay *= 2
			if c.MaxRetryDelay > 0 && delay > c.MaxRetryDelay {
				delay = c.MaxRetryDelay
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) getJSON(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return newNetworkError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newNetworkError("library unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return newNetworkError("failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr protocol.ErrorResponse
		msg := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return newHTTPError(resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, into); err != nil {
		return newParseError("failed to parse JSON response", err)
	}
	return nil
}

// FeedURL returns the WebSocket URL of the catalog feed.
func (c *Client) FeedURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", newNetworkError("invalid base URL", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + urls.Feed
	return u.String(), nil
}

// Subscribe connects to the catalog feed and calls fn with every catalog
// snapshot until ctx is cancelled or the connection fails. It returns nil
// when ctx is cancelled.
func (c *Client) Subscribe(ctx context.Context, fn func(*catalog.Catalog)) error {
	feedURL, err := c.FeedURL()
	if err != nil {
		return err
	}

	conn, resp, err := c.Dialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		if resp != nil {
			return newHTTPError(resp.StatusCode, "feed upgrade refused")
		}
		return newNetworkError("failed to connect to feed", err)
	}

	logging.LogConnection(feedURL, "feed_connected")

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer func() {
		stop()
		_ = conn.Close()
		logging.LogConnection(feedURL, "feed_closed")
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return newNetworkError("feed connection lost", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		logging.LogWebSocketMessage(feedURL, "received", msgType, data)

		msg, err := protocol.Decode(data)
		if err != nil {
			logging.Warn("Ignoring feed message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case protocol.TypeCatalog:
			cat, err := msg.CatalogValue()
			if err != nil {
				logging.Warn("Ignoring invalid catalog from feed", zap.Error(err))
				continue
			}
			fn(cat)
		case protocol.TypeError:
			logging.Warn("Library reported an error", zap.String("error", msg.Error))
		case protocol.TypeHello:
			logging.Debug("Feed session opened",
				zap.String("session", msg.Session),
				zap.String("server", msg.Server))
		}
	}
}
