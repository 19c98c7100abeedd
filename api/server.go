/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the planner frontend

ROUTE GROUPS:
  /api/days/*       Day records and per-day plan operations
  /api/plans/*      Consolidated plans, creation, search
  /api/settings     Holiday settings
  /api/allowance    Vacation allowance summary
  /api/holidays     Bank holidays
  /api/upcoming     Upcoming panel
  /api/export.ics   iCalendar export
  /api/session      Sign-in state (repository switch)
  /api/scenarios/*  Demo data

SECURITY NOTE:
  No authentication middleware. /api/session trusts the user id it is
  given and is meant to sit behind an authenticating proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/year-planner/internal/config"
)

// RouterOptions tunes the router.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = config.DefaultCORSOrigins()
	}
	// A wildcard origin never gets credentials.
	credentials := !slices.Contains(origins, "*")

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: credentials,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Day routes
		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Get("/{date}", h.GetDay)
			r.Post("/{date}/plans", h.AddDayPlan)
			r.Put("/{date}/plans/{id}", h.EditPlan)
			r.Delete("/{date}/plans/{id}", h.RemovePlan)
			r.Get("/{date}/plans/{id}/range", h.GetPlanRange)
		})

		// Plan routes
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.ListPlans)
			r.Post("/", h.CreatePlan)
			r.Get("/search", h.SearchPlans)
		})

		// Allowance routes
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
		r.Get("/allowance", h.GetAllowance)
		r.Get("/holidays", h.ListHolidays)
		r.Get("/upcoming", h.GetUpcoming)

		r.Get("/export.ics", h.ExportICS)

		// Session routes
		r.Get("/session", h.GetSession)
		r.Post("/session", h.SignIn)
		r.Delete("/session", h.SignOut)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
