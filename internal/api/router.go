package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Health and metrics are unauthenticated; all trip and geocode routes require
// bearer auth. Rate limiting is applied globally: 60 requests per minute per IP.
// metrics may be nil, in which case /metrics is not mounted.
func NewRouter(handlers *Handlers, token string, metrics http.Handler, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))
		r.Route("/api/v1/trips", func(r chi.Router) {
			r.Post("/", handlers.CreateTrip)
			r.Get("/", handlers.ListTrips)
			r.Get("/{id}", handlers.GetTrip)
			r.Delete("/{id}", handlers.DeleteTrip)
			r.Get("/{id}/geojson", handlers.GetTripGeoJSON)
		})
		r.Get("/api/v1/geocode", handlers.Geocode)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
