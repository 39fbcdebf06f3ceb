package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/displaykit/network/pkg/httputil"
)

// healthResponse is the JSON structure used by healthHandler
type healthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// displayStatusResponse is the JSON structure for a single display's
// connection state.
type displayStatusResponse struct {
	Key             string `json:"key"`
	IsConnected     bool   `json:"isConnected"`
	ConnectionCount int    `json:"connectionCount"`
}

// displayListEntry is one row of the connected-displays listing. Every
// listed display is connected, so the flag is omitted.
type displayListEntry struct {
	Key             string `json:"key"`
	ConnectionCount int    `json:"connectionCount"`
}

func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		StartedAt: g.startedAt,
		Uptime:    time.Since(g.startedAt).String(),
	})
}

func (g *Gateway) versionHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"version": Version})
}

// statusHandler aggregates server uptime and connection counts
func (g *Gateway) statusHandler(w http.ResponseWriter, r *http.Request) {
	connected := g.registry.Connected()
	connections := 0
	for _, s := range connected {
		connections += s.Connections
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"server": map[string]any{
			"started_at": g.startedAt,
			"uptime":     time.Since(g.startedAt).String(),
			"version":    Version,
		},
		"displays": map[string]any{
			"connected":   len(connected),
			"connections": connections,
		},
	})
}

// displaysHandler lists every display with at least one open connection
func (g *Gateway) displaysHandler(w http.ResponseWriter, r *http.Request) {
	connected := g.registry.Connected()
	displays := make([]displayListEntry, 0, len(connected))
	for _, s := range connected {
		displays = append(displays, displayListEntry{Key: s.Key, ConnectionCount: s.Connections})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"displays": displays})
}

// displayStatusHandler reports the connection state for one display.
// Unknown displays are reported as disconnected, not as an error, because
// a display that never connected and one that just dropped look the same
// to the registry.
func (g *Gateway) displayStatusHandler(w http.ResponseWriter, r *http.Request) {
	displayID := chi.URLParam(r, "displayID")
	if displayID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing display id")
		return
	}

	st := g.registry.Status(displayID)
	httputil.WriteJSON(w, http.StatusOK, displayStatusResponse{
		Key:             st.Key,
		IsConnected:     st.Connected,
		ConnectionCount: st.Connections,
	})
}
