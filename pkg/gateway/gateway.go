// Package gateway serves the display-facing push surface over HTTP: the
// SSE and WebSocket subscribe endpoints, the publish endpoints used by the
// booking backend, and the status endpoints used by operations.
package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/displaykit/network/pkg/config"
	"github.com/displaykit/network/pkg/logging"
	"github.com/displaykit/network/pkg/notify"
)

// Version is the gateway version reported by /v1/version. Stamped via
// -ldflags at release build time; "dev" otherwise.
var Version = "dev"

// Gateway owns the HTTP server and the notify engine behind it.
type Gateway struct {
	logger      *logging.ColoredLogger
	cfg         *config.Config
	registry    *notify.Registry
	fanout      *notify.Fanout
	rateLimiter *RateLimiter
	startedAt   time.Time

	mu     sync.Mutex
	server *http.Server
	cancel context.CancelFunc
	addr   string
}

// New creates and initializes a new Gateway instance
func New(logger *logging.ColoredLogger, cfg *config.Config) (*Gateway, error) {
	if logger == nil {
		var err error
		logger, err = logging.NewColoredLogger(logging.ComponentGeneral, true)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	registry := notify.NewRegistry(logger)

	g := &Gateway{
		logger:    logger,
		cfg:       cfg,
		registry:  registry,
		fanout:    notify.NewFanout(registry, logger),
		startedAt: time.Now(),
	}

	if cfg.Gateway.RateLimitPerMinute > 0 {
		g.rateLimiter = NewRateLimiter(cfg.Gateway.RateLimitPerMinute, cfg.Gateway.RateLimitBurst)
		g.rateLimiter.StartCleanup(5*time.Minute, 15*time.Minute)
	}

	logger.ComponentInfo(logging.ComponentGateway, "Display gateway initialized",
		zap.String("listen_addr", cfg.Gateway.ListenAddr),
		zap.Bool("cors", cfg.Gateway.CORSEnabled),
		zap.Int("rate_limit_per_minute", cfg.Gateway.RateLimitPerMinute),
	)

	return g, nil
}

// Registry returns the connection registry, for embedding the gateway in a
// larger process that registers or inspects connections directly.
func (g *Gateway) Registry() *notify.Registry {
	return g.registry
}

// Fanout returns the fanout engine, for publishing events in-process
// without going through the HTTP publish endpoints.
func (g *Gateway) Fanout() *notify.Fanout {
	return g.fanout
}

// Addr reports the bound listen address. Empty until Start has opened
// the listener; with a ":0" configured address this is where the
// ephemeral port shows up.
func (g *Gateway) Addr() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addr
}

// Start listens and serves until ctx is cancelled, then shuts down.
// Request contexts derive from ctx, so cancelling it also ends the open
// event streams and lets shutdown finish inside the grace period.
func (g *Gateway) Start(ctx context.Context) error {
	srvCtx, cancel := context.WithCancel(ctx)

	server := &http.Server{
		Addr:        g.cfg.Gateway.ListenAddr,
		Handler:     g.Routes(),
		BaseContext: func(net.Listener) context.Context { return srvCtx },
	}

	listener, err := net.Listen("tcp", g.cfg.Gateway.ListenAddr)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to listen on %s: %w", g.cfg.Gateway.ListenAddr, err)
	}

	g.mu.Lock()
	g.server = server
	g.cancel = cancel
	g.addr = listener.Addr().String()
	g.mu.Unlock()

	g.logger.ComponentInfo(logging.ComponentGateway, "Display gateway listening",
		zap.String("listen_addr", listener.Addr().String()),
	)

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			g.logger.ComponentError(logging.ComponentGateway, "Display gateway server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	return g.Stop()
}

// Stop gracefully stops the gateway server. Open subscriber connections
// are cancelled first so the drain does not wait out the full grace
// period on streams that would otherwise never end.
func (g *Gateway) Stop() error {
	g.mu.Lock()
	server := g.server
	cancel := g.cancel
	g.server = nil
	g.cancel = nil
	g.mu.Unlock()

	if server == nil {
		return nil
	}
	if cancel != nil {
		cancel()
	}

	timeout := g.cfg.Gateway.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	g.logger.ComponentInfo(logging.ComponentGateway, "Display gateway shutting down")

	if err := server.Shutdown(ctx); err != nil {
		g.logger.ComponentError(logging.ComponentGateway, "Display gateway shutdown error", zap.Error(err))
		_ = server.Close()
		return err
	}

	g.registry.Reset()
	g.logger.ComponentInfo(logging.ComponentGateway, "Display gateway shutdown complete")
	return nil
}
