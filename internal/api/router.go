package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Zone endpoints
		r.Route("/zones", func(r chi.Router) {
			r.Get("/", s.handleListZones)
			r.Post("/", s.handleCreateZone)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetZone)
				r.Put("/", s.handleUpdateZone)
				r.Delete("/", s.handleDeleteZone)
				r.Post("/enable", s.handleEnableZone)
				r.Post("/disable", s.handleDisableZone)
			})
		})

		// Preference endpoints
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", s.handleGetPreferences)
			r.Patch("/", s.handleUpdatePreferences)
		})

		// Permission status (read-only, declared in config)
		r.Get("/permissions", s.handleGetPermissions)

		// Trigger history
		r.Get("/triggers", s.handleListTriggers)
	})

	return r
}

// handleHealth returns the server health status, including the state
// of the database and MQTT broker when those checkers are wired.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{}

	status := http.StatusOK
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			components["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	}
	if s.broker != nil {
		if err := s.broker.HealthCheck(r.Context()); err != nil {
			components["mqtt"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			components["mqtt"] = "ok"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	writeJSON(w, status, map[string]any{
		"status":     overall,
		"version":    s.version,
		"components": components,
	})
}
