package api

import (
	"context"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/trip"
)

// RoutePlanner runs the route pipeline; satisfied by *trip.Service.
type RoutePlanner interface {
	ProcessRoute(ctx context.Context, in trip.RouteInput) (*trip.Plan, error)
}

// PlanStore defines the read and delete operations needed by handlers.
// Both storage.MemoryStore and storage.PlanRepository satisfy it.
type PlanStore interface {
	Get(ctx context.Context, id string) (*trip.Plan, error)
	List(ctx context.Context) ([]*trip.Plan, error)
	ListByCategory(ctx context.Context, category string) ([]*trip.Plan, error)
	Delete(ctx context.Context, id string) error
}

// Geocoder resolves free text into candidate locations.
type Geocoder interface {
	Search(ctx context.Context, text string) ([]geo.Location, error)
}
