package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restwell/carebed-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Route guard evaluation. Works for both anonymous and
		// authenticated callers, so it sits outside the auth group.
		r.Post("/auth/guard", s.handleGuard)

		// WebSocket (auth via single-use ticket, validated in handler)
		r.Get("/ws", s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/logout", s.handleLogout)
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Bed state and movement
			r.Route("/bed", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermBedView)).
					Get("/", s.handleGetBedState)

				r.Group(func(r chi.Router) {
					r.Use(s.requirePermission(auth.PermBedControl))

					r.Put("/position", s.handleSetPosition)
					r.Put("/back", s.handleAdjustBack)
					r.Put("/leg", s.handleAdjustLeg)
					r.Put("/height", s.handleAdjustHeight)
					r.Post("/lock", s.handleToggleLock)
					r.Put("/battery", s.handleSetBattery)
					r.Post("/presets/{type}", s.handleApplyPreset)
				})
			})

			// Custom presets
			r.Route("/presets", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermPresetView)).
					Get("/", s.handleListCustomPresets)
				r.With(s.requirePermission(auth.PermPresetCreate)).
					Post("/", s.handleCreateCustomPreset)
				r.With(s.requirePermission(auth.PermPresetDelete)).
					Delete("/{id}", s.handleDeleteCustomPreset)
				r.With(s.requirePermission(auth.PermBedControl)).
					Post("/{id}/apply", s.handleApplyCustomPreset)
			})

			// Sleep history
			r.Route("/sleep", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermSleepView)).
					Get("/daily", s.handleSleepDaily)
				r.With(s.requirePermission(auth.PermSleepHistory)).
					Get("/weekly", s.handleSleepWeekly)
			})

			// Audit trail and administration
			r.With(s.requirePermission(auth.PermAdminView)).
				Get("/audit", s.handleListAudit)
			r.With(s.requirePermission(auth.PermAdminView)).
				Post("/admin/factory-reset", s.handleFactoryReset)

			// Settings
			r.Route("/settings", func(r chi.Router) {
				r.Use(s.requirePermission(auth.PermSettingsView))

				r.Get("/font-size", s.handleGetFontSize)
				r.Put("/font-size", s.handleSetFontSize)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"bed_id":  s.bedID,
		"version": s.version,
	})
}
