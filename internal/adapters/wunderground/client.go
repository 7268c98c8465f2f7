package wunderground

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ghalamif/stationbridge/internal/domain"
	"github.com/ghalamif/stationbridge/internal/ports"
)

const DefaultUpdateURL = "https://weatherstation.wunderground.com/weatherstation/updateweatherstation.php"

// Client uploads observations through the PWS "updateraw" protocol.
// Only transport success is reported; the body is not interpreted.
type Client struct {
	updateURL  string
	id         string
	password   string
	httpClient *http.Client
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wunderground HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUpdateURL overrides the upload endpoint.
func WithUpdateURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.updateURL = u
		}
	}
}

func New(id, password string, opts ...Option) *Client {
	c := &Client{
		updateURL: DefaultUpdateURL,
		id:        id,
		password:  password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "wunderground" }

// Publish sends one observation in a single GET request.
func (c *Client) Publish(ctx context.Context, obs domain.MappedObservation) error {
	q := url.Values{}
	q.Set("ID", c.id)
	q.Set("PASSWORD", c.password)
	q.Set("dateutc", "now")
	q.Set("action", "updateraw")
	for k, v := range obs {
		q.Set(k, formatValue(v))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.updateURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

var _ ports.ObservationPublisher = (*Client)(nil)
