// Package client is the Go SDK for the display gateway. It wraps the
// publish and status endpoints in typed calls and carries the subscribe
// side of the event stream, including reconnects.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DisplayStatus reports the connection state of one display as seen by
// the gateway.
type DisplayStatus struct {
	Key             string `json:"key"`
	IsConnected     bool   `json:"isConnected"`
	ConnectionCount int    `json:"connectionCount"`
}

// HealthStatus contains gateway health check information
type HealthStatus struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// Client talks to a display gateway over HTTP
type Client struct {
	config *ClientConfig
	logger *zap.Logger

	// httpClient serves request/response calls and carries the configured
	// timeout. streamClient serves subscriptions and must not have one;
	// an open event stream would trip it.
	httpClient   *http.Client
	streamClient *http.Client
}

// New creates a new gateway client
func New(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if strings.TrimSpace(config.GatewayURL) == "" {
		return nil, fmt.Errorf("%w: gateway URL is required", ErrInvalidConfig)
	}

	logger, err := newClientLogger(config.QuietMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Client{
		config:       config,
		logger:       logger,
		httpClient:   &http.Client{Timeout: config.ConnectTimeout},
		streamClient: &http.Client{},
	}, nil
}

// Config returns a snapshot copy of the client's configuration
func (c *Client) Config() *ClientConfig {
	if c.config == nil {
		return nil
	}
	cp := *c.config
	return &cp
}

// Notify publishes one event to a single display. The returned bool
// mirrors the gateway's delivery report: false means the display had no
// open connection, which is not an error.
func (c *Client) Notify(ctx context.Context, displayKey, event string, payload any) (bool, error) {
	if displayKey == "" {
		return false, fmt.Errorf("display key is required")
	}
	var out struct {
		Delivered bool `json:"delivered"`
	}
	path := "/v1/displays/" + url.PathEscape(displayKey) + "/notify"
	if err := c.postJSON(ctx, path, publishBody{Event: event, Payload: payload}, &out); err != nil {
		return false, err
	}
	return out.Delivered, nil
}

// Broadcast publishes one event to every connected display and returns
// the number of displays reached.
func (c *Client) Broadcast(ctx context.Context, event string, payload any) (int, error) {
	var out struct {
		Notified int `json:"notified"`
	}
	if err := c.postJSON(ctx, "/v1/broadcast", publishBody{Event: event, Payload: payload}, &out); err != nil {
		return 0, err
	}
	return out.Notified, nil
}

// Status returns the connection state for one display.
func (c *Client) Status(ctx context.Context, displayKey string) (*DisplayStatus, error) {
	if displayKey == "" {
		return nil, fmt.Errorf("display key is required")
	}
	var st DisplayStatus
	path := "/v1/displays/" + url.PathEscape(displayKey) + "/status"
	if err := c.getJSON(ctx, path, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ConnectedDisplays lists every display with at least one open connection.
func (c *Client) ConnectedDisplays(ctx context.Context) ([]DisplayStatus, error) {
	var out struct {
		Displays []DisplayStatus `json:"displays"`
	}
	if err := c.getJSON(ctx, "/v1/displays", &out); err != nil {
		return nil, err
	}
	// The listing only contains connected displays; the flag is implied.
	for i := range out.Displays {
		out.Displays[i].IsConnected = true
	}
	return out.Displays, nil
}

// Health fetches the gateway health report.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var h HealthStatus
	if err := c.getJSON(ctx, "/v1/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Version fetches the gateway version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/v1/version", &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

type publishBody struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GatewayURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.GatewayURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError turns a non-200 gateway response into an error carrying the
// gateway's own message when one is present. Both the plain {"error"}
// shape and the coded {"code","message"} envelope are understood.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Error != "":
			return fmt.Errorf("gateway: %s (status %d)", e.Error, resp.StatusCode)
		case e.Message != "":
			return fmt.Errorf("gateway: %s (status %d)", e.Message, resp.StatusCode)
		}
	}
	return fmt.Errorf("gateway: unexpected status %d", resp.StatusCode)
}
