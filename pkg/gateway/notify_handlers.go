package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/displaykit/network/pkg/httputil"
)

// publishRequest is the body accepted by the notify and broadcast
// endpoints. Payload stays raw so the publisher's JSON goes to displays
// byte-for-byte instead of round-tripping through a map.
type publishRequest struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// displayNotifyHandler handles POST /v1/displays/{displayID}/notify.
// A display with no open connections is not an error; the response just
// reports delivered=false and the publisher moves on.
func (g *Gateway) displayNotifyHandler(w http.ResponseWriter, r *http.Request) {
	displayID := chi.URLParam(r, "displayID")
	if displayID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing display id")
		return
	}

	var req publishRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid body: expected {event,payload}")
		return
	}
	if strings.TrimSpace(req.Event) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing 'event'")
		return
	}

	delivered := g.fanout.Publish(displayID, req.Event, req.Payload)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"delivered": delivered})
}

// broadcastHandler handles POST /v1/broadcast and reports how many
// displays received the event.
func (g *Gateway) broadcastHandler(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid body: expected {event,payload}")
		return
	}
	if strings.TrimSpace(req.Event) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing 'event'")
		return
	}

	notified := g.fanout.Broadcast(req.Event, req.Payload)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"notified": notified})
}
