package api

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/neexbeast/roadtrip-planner/internal/trip"
)

// PlanFeatureCollection renders a plan as GeoJSON: the route as a
// LineString, then one Point per checkpoint and one per selected POI.
func PlanFeatureCollection(plan *trip.Plan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	route := geojson.NewFeature(orb.LineString{plan.Route.Origin.Point(), plan.Route.Destination.Point()})
	route.ID = plan.ID
	route.Properties["kind"] = "route"
	route.Properties["origin"] = plan.Route.Origin.Address
	route.Properties["destination"] = plan.Route.Destination.Address
	route.Properties["distanceKm"] = plan.TotalDistanceKm
	fc.Append(route)

	for _, cp := range plan.Checkpoints {
		f := geojson.NewFeature(cp.Location.Point())
		f.Properties["kind"] = "checkpoint"
		f.Properties["index"] = cp.Index
		f.Properties["distanceFromStart"] = cp.DistanceFromStart
		f.Properties["estimatedTime"] = cp.EstimatedTime
		fc.Append(f)
	}

	for _, p := range plan.POIs {
		f := geojson.NewFeature(p.Location.Point())
		f.ID = p.ID
		f.Properties["kind"] = "poi"
		f.Properties["name"] = p.Name
		f.Properties["category"] = string(p.Category)
		f.Properties["aiScore"] = p.AIScore
		f.Properties["closestTo"] = string(p.ClosestTo)
		f.Properties["distanceFromRoute"] = p.DistanceFromRoute
		fc.Append(f)
	}

	b := plan.Bounds
	fc.BBox = geojson.NewBBox(orb.Bound{
		Min: orb.Point{b.MinLng, b.MinLat},
		Max: orb.Point{b.MaxLng, b.MaxLat},
	})
	return fc
}
