package trip

import (
	"math"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
)

const (
	// CheckpointIntervalKm is the sampling distance between checkpoints.
	CheckpointIntervalKm = 50.0
	// AverageSpeedKmh is used to estimate arrival times.
	AverageSpeedKmh = 80.0
)

// PlanCheckpoints samples max(2, floor(D/50)) evenly spaced points on the
// straight line from origin to destination. The first is the origin and the
// last is the destination, even when the two coincide.
func PlanCheckpoints(in RouteInput) []Checkpoint {
	total := geo.DistanceKm(in.Origin, in.Destination)
	count := max(2, int(math.Floor(total/CheckpointIntervalKm)))

	out := make([]Checkpoint, 0, count)
	for i := range count {
		t := 0.0
		if count > 1 {
			t = float64(i) / float64(count-1)
		}
		dist := t * total
		out = append(out, Checkpoint{
			Index:             i,
			Location:          geo.Interpolate(in.Origin, in.Destination, t),
			DistanceFromStart: dist,
			EstimatedTime:     in.DepartureTime.Add(time.Duration(dist / AverageSpeedKmh * float64(time.Hour))),
		})
	}
	return out
}
