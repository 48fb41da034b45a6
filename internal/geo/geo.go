package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Location is a geographic point in degrees with an optional display address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Endpoint names one end of a route.
type Endpoint string

const (
	Origin      Endpoint = "origin"
	Destination Endpoint = "destination"
)

// Point returns the location as an orb.Point ([lng, lat]).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// FromPoint builds a Location from an orb.Point.
func FromPoint(p orb.Point, address string) Location {
	return Location{Lat: p.Lat(), Lng: p.Lon(), Address: address}
}

// IsZero reports whether the location carries no information at all.
func (l Location) IsZero() bool {
	return l.Lat == 0 && l.Lng == 0 && l.Address == ""
}

// Valid reports whether both coordinates are finite and within range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lng) || math.IsInf(l.Lat, 0) || math.IsInf(l.Lng, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// DistanceKm returns the haversine distance between a and b in kilometres.
func DistanceKm(a, b Location) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// ClosestEndpoint returns the distance from p to the nearer of origin and
// destination and which one it is. Equal distances resolve to Origin.
func ClosestEndpoint(p, origin, destination Location) (float64, Endpoint) {
	toOrigin := DistanceKm(p, origin)
	toDest := DistanceKm(p, destination)
	if toDest < toOrigin {
		return toDest, Destination
	}
	return toOrigin, Origin
}

// Interpolate returns the point at fraction t of the way from origin to
// destination, linear in latitude/longitude. t is clamped to [0, 1]; the
// endpoints are returned unchanged at t=0 and t=1.
func Interpolate(origin, destination Location, t float64) Location {
	switch {
	case t <= 0:
		return origin
	case t >= 1:
		return destination
	}
	return Location{
		Lat: origin.Lat + (destination.Lat-origin.Lat)*t,
		Lng: origin.Lng + (destination.Lng-origin.Lng)*t,
	}
}

// Bounds returns the bounding box of the given locations.
func Bounds(locs ...Location) orb.Bound {
	mp := make(orb.MultiPoint, 0, len(locs))
	for _, l := range locs {
		mp = append(mp, l.Point())
	}
	return mp.Bound()
}

// RoundKey formats the coordinates rounded to the given number of decimal
// places, for use as a bucket or dedup key.
func RoundKey(l Location, places int) string {
	return fmt.Sprintf("%.*f,%.*f", places, round(l.Lat, places), places, round(l.Lng, places))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // normalise -0
	}
	return r
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
