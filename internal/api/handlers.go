package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
	"github.com/neexbeast/roadtrip-planner/internal/trip"
)

// maxBodyBytes bounds a trip request body.
const maxBodyBytes = 1 << 20

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	planner  RoutePlanner
	store    PlanStore
	geocoder Geocoder
	log      *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(planner RoutePlanner, store PlanStore, geocoder Geocoder, log *slog.Logger) *Handlers {
	return &Handlers{
		planner:  planner,
		store:    store,
		geocoder: geocoder,
		log:      log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// CreateTrip handles POST /api/v1/trips.
// Validation errors → 400. Pipeline or persistence failure → 500.
func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var in trip.RouteInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	plan, err := h.planner.ProcessRoute(r.Context(), in)
	if err != nil {
		if errors.Is(err, trip.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("process route failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create trip plan")
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// ListTrips handles GET /api/v1/trips, optionally filtered by ?category=.
func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	var (
		plans []*trip.Plan
		err   error
	)

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, ok := poi.ParseCategory(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category: "+raw)
			return
		}
		plans, err = h.store.ListByCategory(r.Context(), string(category))
	} else {
		plans, err = h.store.List(r.Context())
	}
	if err != nil {
		h.log.Error("list trips failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if plans == nil {
		plans = []*trip.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetTrip handles GET /api/v1/trips/{id}.
func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetTripGeoJSON handles GET /api/v1/trips/{id}/geojson.
func (h *Handlers) GetTripGeoJSON(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(PlanFeatureCollection(plan))
}

// DeleteTrip handles DELETE /api/v1/trips/{id}. Unknown ids → 404.
func (h *Handlers) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), plan.ID); err != nil {
		h.log.Error("delete trip failed", "id", plan.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadPlan fetches the plan named by the {id} URL parameter, writing a 404
// or 500 response and returning false when it cannot.
func (h *Handlers) loadPlan(w http.ResponseWriter, r *http.Request) (*trip.Plan, bool) {
	id := chi.URLParam(r, "id")

	plan, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.log.Error("get trip failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "trip not found")
		return nil, false
	}
	return plan, true
}

// Geocode handles GET /api/v1/geocode?q=.
func (h *Handlers) Geocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	locs, err := h.geocoder.Search(r.Context(), q)
	if err != nil {
		h.log.Warn("geocoding failed", "q", q, "err", err)
		writeError(w, http.StatusBadGateway, "geocoding service unavailable")
		return
	}
	if len(locs) == 0 {
		writeError(w, http.StatusNotFound, "no matching locations")
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

// HealthCheck handles GET /api/v1/health.
// Pings DB and Redis when configured; returns 200 if all ok, 503 otherwise.
type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity. A nil pinger reports "disabled" and never fails the check.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "disabled"
		redisStatus := "disabled"

		if db != nil {
			dbStatus = "ok"
			if err := db.Ping(ctx); err != nil {
				log.Error("health check: db ping failed", "err", err)
				dbStatus = "error"
				status = http.StatusServiceUnavailable
			}
		}

		if redis != nil {
			redisStatus = "ok"
			if err := redis.Ping(ctx); err != nil {
				log.Error("health check: redis ping failed", "err", err)
				redisStatus = "error"
				status = http.StatusServiceUnavailable
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
