/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/meetings/*     Meeting booking and lifecycle transitions
  /api/assignments/*  Quota contracts
  /api/reps/*         Dashboard, history, commission, compensation
  /api/revision       Change notification polling

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Meeting routes
		r.Route("/meetings", func(r chi.Router) {
			r.Post("/", h.CreateMeeting)
			r.Get("/{id}", h.GetMeeting)
			r.Delete("/{id}", h.DeleteMeeting)
			r.Post("/{id}/confirm", h.ConfirmMeeting)
			r.Post("/{id}/hold", h.HoldMeeting)
			r.Post("/{id}/no-show", h.NoShowMeeting)
			r.Post("/{id}/reset", h.ResetMeeting)
			r.Put("/{id}/icp-status", h.SetICPStatus)
			r.Put("/{id}/not-interested", h.SetNotInterested)
		})

		// Assignment routes
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.SaveAssignment)
			r.Get("/{id}", h.GetAssignment)
		})

		// Rep routes
		r.Route("/reps/{id}", func(r chi.Router) {
			r.Get("/dashboard", h.GetDashboard)
			r.Get("/history", h.GetHistory)
			r.Post("/commission/whatif", h.WhatIfCommission)
			r.Put("/compensation", h.SaveCompensation)
			r.Get("/compensation", h.GetCompensation)
			r.Put("/commission-goal", h.SaveOverride)
			r.Delete("/commission-goal", h.DeleteOverride)
		})

		// Change notification
		r.Get("/revision", h.GetRevision)
	})

	return r
}
