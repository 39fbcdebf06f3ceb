package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EventHandler is called for each event received on a subscription. The
// data slice is only valid for the duration of the call. A handler error
// is logged and the subscription keeps running.
type EventHandler func(event string, data []byte) error

// Subscribe opens the event stream for a display and dispatches incoming
// events to handler until ctx is cancelled. Lost streams are reopened
// after RetryDelay; after RetryAttempts consecutive failed connections
// Subscribe returns the last error. Cancellation returns nil.
func (c *Client) Subscribe(ctx context.Context, displayKey string, handler EventHandler) error {
	if displayKey == "" {
		return fmt.Errorf("display key is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	failures := 0
	for {
		connected, err := c.streamOnce(ctx, displayKey, handler)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			// The stream was up and then dropped; start counting fresh.
			failures = 0
		}
		failures++
		if c.config.RetryAttempts > 0 && failures > c.config.RetryAttempts {
			return fmt.Errorf("subscription for %s failed after %d attempts: %w", displayKey, failures, err)
		}

		c.logger.Warn("event stream lost, reconnecting",
			zap.String("display", displayKey),
			zap.Int("attempt", failures),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.config.RetryDelay):
		}
	}
}

// streamOnce runs a single subscription until the stream ends. The bool
// reports whether the stream was established at all, which drives the
// retry accounting in Subscribe.
func (c *Client) streamOnce(ctx context.Context, displayKey string, handler EventHandler) (bool, error) {
	endpoint := c.config.GatewayURL + "/v1/displays/" + url.PathEscape(displayKey) + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, apiError(resp)
	}

	c.logger.Info("event stream open", zap.String("display", displayKey))

	if err := c.readEvents(resp.Body, handler); err != nil {
		return true, err
	}
	return true, ErrStreamClosed
}

// readEvents parses server-sent events off r and dispatches them. Comment
// lines (keep-alives and the connect handshake) are skipped. Returns when
// the stream errors or ends.
func (c *Client) readEvents(r io.Reader, handler EventHandler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	var data []byte
	haveData := false

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event != "" || haveData {
				if err := handler(event, data); err != nil {
					c.logger.Warn("event handler failed",
						zap.String("event", event),
						zap.Error(err))
				}
			}
			event, data, haveData = "", nil, false
		case strings.HasPrefix(line, ":"):
			// comment; ignore
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			chunk := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			if haveData {
				data = append(data, '\n')
			}
			data = append(data, chunk...)
			haveData = true
		}
	}
	return scanner.Err()
}
