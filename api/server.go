/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the front-desk UI

SECURITY NOTE:
  No authentication middleware. Authentication and RBAC live in a
  collaborator service; this API trusts the X-Acting-User header for
  audit fields only.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Acting-User"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Room routes
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetRoom)
				r.Get("/folio", h.GetFolio)

				r.Post("/checkin", h.CheckIn)
				r.Post("/checkout", h.CheckOut)
				r.Post("/reserve", h.Reserve)
				r.Post("/reservation/cancel", h.CancelReservation)
				r.Post("/maintenance", h.SetMaintenance)
				r.Post("/available", h.MarkAvailable)

				r.Post("/charges", h.PostCharges)
				r.Delete("/charges/{chargeID}", h.RemoveCharge)

				r.Post("/dnd", h.ToggleDND)
				r.Post("/wakeup", h.SetWakeUp)
				r.Delete("/wakeup", h.ClearWakeUp)

				r.Post("/housekeeping", h.AddHousekeeping)
				r.Post("/housekeeping/{reqID}/done", h.CompleteHousekeeping)
			})
		})

		// Booking audit trail
		r.Get("/bookings", h.ListBookings)

		// Reference data
		r.Get("/catalog", h.GetCatalog)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		// Reporting
		r.Get("/dashboard", h.GetDashboard)

		// Admin routes (dev only)
		r.Post("/admin/reset", h.ResetDatabase)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Front Desk Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Front Desk Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/rooms">/api/rooms</a> - Room grid</li>
<li><a href="/api/bookings">/api/bookings</a> - Stay history</li>
<li><a href="/api/dashboard">/api/dashboard</a> - Occupancy and revenue</li>
</ul>
</body>
</html>`))
	})

	return r
}
