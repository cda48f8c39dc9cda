package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "route not found")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/lot", s.handleLot)
		r.Get("/gate", s.handleGate)

		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.handleListScenes)
			r.Get("/{id}", s.handleGetScene)
			r.Post("/{id}/trigger", s.handleTriggerScene)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/refresh", s.handleRefreshSessions)
			r.Get("/plate/{plate}/latest", s.handleLatestForPlate)
		})

		r.Route("/allowed", func(r chi.Router) {
			r.Get("/", s.handleListAllowed)
			r.Post("/", s.handleAddAllowed)
			r.Delete("/{plate}", s.handleRemoveAllowed)
		})

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
