package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/displaykit/network/pkg/httputil"
	"github.com/displaykit/network/pkg/logging"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Displays connect from kiosk firmware and file:// wrappers that send
	// no usable Origin; accept any.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// displayEventsHandler serves GET /v1/displays/{displayID}/events as a
// server-sent-event stream. The connection registers with the registry for
// the lifetime of the request; events published for the display are written
// by the fanout engine, this handler only keeps the stream alive.
func (g *Gateway) displayEventsHandler(w http.ResponseWriter, r *http.Request) {
	displayID := chi.URLParam(r, "displayID")
	if displayID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing display id")
		return
	}

	ch, err := newStreamChannel(w)
	if err != nil {
		g.logger.ComponentWarn(logging.ComponentDisplay, "events: streaming unsupported",
			zap.String("display", displayID),
			zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Nginx buffers responses unless told otherwise, which would hold
	// events back from the display.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	g.registry.Register(displayID, ch)
	defer g.registry.Unregister(displayID, ch)

	// Confirm the subscription before any event arrives so clients can
	// tell an open stream from a hung proxy. Registration happens first;
	// a client that has seen this comment is already reachable.
	if err := ch.comment("connected"); err != nil {
		return
	}

	g.logger.ComponentInfo(logging.ComponentDisplay, "Display stream opened",
		zap.String("display", displayID),
		zap.String("client_ip", getClientIP(r)),
	)

	ticker := time.NewTicker(g.cfg.Notify.KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			g.logger.ComponentInfo(logging.ComponentDisplay, "Display stream closed",
				zap.String("display", displayID))
			return
		case <-ticker.C:
			if err := ch.comment("keep-alive"); err != nil {
				g.logger.ComponentInfo(logging.ComponentDisplay, "Display stream lost",
					zap.String("display", displayID),
					zap.Error(err))
				return
			}
		}
	}
}

// displayWebsocketHandler serves GET /v1/displays/{displayID}/ws for
// firmware that cannot speak EventSource. The wire payload is identical to
// the event stream; only the transport differs.
func (g *Gateway) displayWebsocketHandler(w http.ResponseWriter, r *http.Request) {
	displayID := chi.URLParam(r, "displayID")
	if displayID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing display id")
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		g.logger.ComponentWarn(logging.ComponentDisplay, "ws: upgrade failed",
			zap.String("display", displayID),
			zap.Error(err))
		return
	}
	defer conn.Close()

	ch := newWSChannel(conn, g.cfg.Notify.WriteTimeout)
	g.registry.Register(displayID, ch)
	defer g.registry.Unregister(displayID, ch)

	g.logger.ComponentInfo(logging.ComponentDisplay, "Display socket opened",
		zap.String("display", displayID),
		zap.String("client_ip", getClientIP(r)),
	)

	// Writer loop: keep-alive pings until the reader stops or the request
	// context ends.
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(g.cfg.Notify.KeepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ch.ping(); err != nil {
					return
				}
			case <-r.Context().Done():
				return
			case <-stop:
				return
			}
		}
	}()

	// Reader loop: displays send nothing meaningful, so reading only
	// services control frames and notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(stop)
	<-done

	g.logger.ComponentInfo(logging.ComponentDisplay, "Display socket closed",
		zap.String("display", displayID))
}
