package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/sdr-dashboard/internal/infra/http/handlers"
	httpmw "github.com/xavierca1/sdr-dashboard/internal/infra/http/middleware"
)

type routes struct {
	leads          *handlers.LeadHandler
	activity       *handlers.ActivityHandler
	sessions       *handlers.SessionHandler
	events         *handlers.EventsHandler
	health         *handlers.HealthHandler
	limiter        *httpmw.RateLimiter
	allowedOrigins []string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(httpmw.Metrics)

	r.Get("/health", rt.health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/events", rt.events.ServeSSE)

	r.Get("/leads", rt.leads.List)
	r.Get("/stats", rt.leads.Stats)
	r.Route("/leads/{id}", func(r chi.Router) {
		r.Get("/", rt.leads.Get)
		r.Get("/slots", rt.leads.GetSlots)
		r.Get("/draft", rt.leads.GetDraft)
		r.Put("/draft", rt.leads.PutDraft)
		r.Delete("/draft", rt.leads.DeleteDraft)
		r.Get("/activity", rt.activity.Recent)
		r.Post("/advance", rt.leads.Advance)
		r.Post("/email", rt.leads.LogEmail)

		// actions that hit collaborators or the SMTP relay
		r.Group(func(r chi.Router) {
			r.Use(rt.limiter.Limit)
			r.Post("/qualify", rt.leads.Qualify)
			r.Post("/compose", rt.leads.Compose)
			r.Post("/slots", rt.leads.ProposeSlots)
			r.Post("/send", rt.leads.Send)
		})
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", rt.sessions.Get)
		r.Get("/view", rt.sessions.View)
		r.Put("/filters", rt.sessions.PutFilters)
		r.Put("/search", rt.sessions.PutSearch)
		r.Delete("/error", rt.sessions.DismissError)
	})

	return r
}
