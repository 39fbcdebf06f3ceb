//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/displaykit/network/pkg/client"
	"github.com/displaykit/network/pkg/config"
	"github.com/displaykit/network/pkg/gateway"
	"github.com/displaykit/network/pkg/logging"
)

// startGateway runs a gateway on an ephemeral loopback port for the
// duration of one test and returns its base URL.
func startGateway(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Gateway.ListenAddr = "127.0.0.1:0"
	cfg.Gateway.ShutdownTimeout = 5 * time.Second
	cfg.Logging.Colors = false
	if mutate != nil {
		mutate(cfg)
	}

	logger, err := logging.NewFileLogger(logging.ComponentGeneral, os.DevNull, false)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	g, err := gateway.New(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create gateway: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("gateway stop: %v", err)
			}
		case <-time.After(15 * time.Second):
			t.Errorf("gateway did not stop")
		}
	})

	var base string
	waitUntil(t, 5*time.Second, func() bool {
		addr := g.Addr()
		if addr == "" {
			return false
		}
		base = "http://" + addr
		return IsGatewayReady(base)
	}, "gateway did not become ready")
	return base
}

// IsGatewayReady checks if the gateway is accessible and healthy
func IsGatewayReady(baseURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func waitUntil(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timeout: %s", msg)
}

// NewDisplayClient creates a gateway client configured for e2e tests
func NewDisplayClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	cfg := client.DefaultClientConfig()
	cfg.GatewayURL = baseURL
	cfg.ConnectTimeout = 10 * time.Second
	cfg.RetryAttempts = 3
	cfg.RetryDelay = 200 * time.Millisecond
	cfg.QuietMode = true // Suppress debug logs in tests

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("failed to create display client: %v", err)
	}
	return c
}

// GenerateUniqueID generates a unique identifier for test resources
func GenerateUniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), rand.Intn(10000))
}

// GenerateDisplayKey generates a unique display key for subscribe tests
func GenerateDisplayKey() string {
	return GenerateUniqueID("e2e_display")
}

type displayEvent struct {
	Event string
	Data  []byte
}

func newEventCollector(ctx context.Context, buffer int) (chan displayEvent, client.EventHandler) {
	if buffer <= 0 {
		buffer = 1
	}

	ch := make(chan displayEvent, buffer)
	handler := func(event string, data []byte) error {
		copied := append([]byte(nil), data...)
		select {
		case ch <- displayEvent{Event: event, Data: copied}:
		case <-ctx.Done():
		}
		return nil
	}
	return ch, handler
}

func waitForEvent(ctx context.Context, ch <-chan displayEvent) (displayEvent, error) {
	select {
	case ev := <-ch:
		return ev, nil
	case <-ctx.Done():
		return displayEvent{}, fmt.Errorf("context finished while waiting for display event: %w", ctx.Err())
	}
}

// subscribe runs a client subscription in the background and returns the
// event channel. The subscription ends with the test.
func subscribe(t *testing.T, ctx context.Context, c *client.Client, displayKey string) chan displayEvent {
	t.Helper()

	subCtx, cancel := context.WithCancel(ctx)
	events, handler := newEventCollector(subCtx, 8)
	done := make(chan error, 1)
	go func() { done <- c.Subscribe(subCtx, displayKey, handler) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("subscription for %s ended with error: %v", displayKey, err)
			}
		case <-time.After(10 * time.Second):
			t.Errorf("subscription for %s did not end", displayKey)
		}
	})
	return events
}

// waitForDisplayConnected polls the gateway until the display shows as
// connected. Subscriptions attach asynchronously.
func waitForDisplayConnected(t *testing.T, c *client.Client, displayKey string) {
	t.Helper()
	waitUntil(t, 5*time.Second, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		st, err := c.Status(ctx, displayKey)
		return err == nil && st.IsConnected
	}, fmt.Sprintf("display %s never showed as connected", displayKey))
}
