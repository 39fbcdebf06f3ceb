package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes returns the http.Handler with all routes and middleware configured
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(g.loggingMiddleware)
	if g.cfg.Gateway.CORSEnabled {
		r.Use(g.corsMiddleware)
	}

	// Bounded request/response endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/health", g.healthHandler)
		r.Get("/v1/health", g.healthHandler)
		r.Get("/v1/version", g.versionHandler)
		r.Get("/v1/status", g.statusHandler)

		r.Get("/v1/displays", g.displaysHandler)
		r.Get("/v1/displays/{displayID}/status", g.displayStatusHandler)

		r.Group(func(r chi.Router) {
			r.Use(g.rateLimitMiddleware)
			r.Post("/v1/displays/{displayID}/notify", g.displayNotifyHandler)
			r.Post("/v1/broadcast", g.broadcastHandler)
		})
	})

	// Subscribe endpoints hold their connection open for the lifetime of
	// the display session; no timeout middleware here.
	r.Get("/v1/displays/{displayID}/events", g.displayEventsHandler)
	r.Get("/v1/displays/{displayID}/ws", g.displayWebsocketHandler)

	return r
}
