// Package trip turns a route into a persisted, ranked trip plan.
package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/scoring"
)

// ErrInvalidInput is wrapped by every RouteInput validation failure.
var ErrInvalidInput = errors.New("invalid route input")

// RouteInput is what a caller submits to plan a trip.
type RouteInput struct {
	Origin        geo.Location `json:"origin"`
	Destination   geo.Location `json:"destination"`
	DepartureTime time.Time    `json:"departureTime"`
	Preferences   []string     `json:"preferences"`
}

// Validate reports missing or out-of-range fields.
func (in RouteInput) Validate() error {
	switch {
	case in.Origin.IsZero():
		return fmt.Errorf("%w: origin is required", ErrInvalidInput)
	case !in.Origin.Valid():
		return fmt.Errorf("%w: origin coordinates out of range", ErrInvalidInput)
	case in.Destination.IsZero():
		return fmt.Errorf("%w: destination is required", ErrInvalidInput)
	case !in.Destination.Valid():
		return fmt.Errorf("%w: destination coordinates out of range", ErrInvalidInput)
	case in.DepartureTime.IsZero():
		return fmt.Errorf("%w: departure time is required", ErrInvalidInput)
	}
	return nil
}

// Checkpoint is a point sampled along the route.
type Checkpoint struct {
	Index             int          `json:"index"`
	Location          geo.Location `json:"location"`
	DistanceFromStart float64      `json:"distanceFromStart"`
	EstimatedTime     time.Time    `json:"estimatedTime"`
}

// Bounds is the bounding box of everything on a plan.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// Plan is the result of processing a route. It is saved as one unit.
type Plan struct {
	ID              string              `json:"id"`
	Route           RouteInput          `json:"route"`
	Checkpoints     []Checkpoint        `json:"checkpoints"`
	POIs            []scoring.ScoredPOI `json:"pois"`
	TotalDistanceKm float64             `json:"totalDistanceKm"`
	Bounds          Bounds              `json:"bounds"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// HasCategory reports whether any selected POI is in category c.
func (p *Plan) HasCategory(c string) bool {
	for _, s := range p.POIs {
		if string(s.Category) == c {
			return true
		}
	}
	return false
}

// Store persists plans. Get returns nil, nil when the id is unknown.
type Store interface {
	Save(ctx context.Context, plan *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
	Delete(ctx context.Context, id string) error
}
