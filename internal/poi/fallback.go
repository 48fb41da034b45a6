package poi

import (
	"fmt"
	"math"
	"strings"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
)

// fallbackNames holds place names used when no source returns anything.
var fallbackNames = map[Category][]string{
	Restaurants:       {"Highway Dhaba", "The Roadside Kitchen", "Traveller's Table"},
	Museums:           {"Regional Heritage Museum", "Town History Museum"},
	Parks:             {"Riverside Park", "Green Meadow Gardens"},
	Shopping:          {"Main Street Bazaar", "Crossroads Plaza"},
	HistoricSites:     {"Old Fort Ruins", "Stepwell of the Old Town"},
	Entertainment:     {"Starlight Cinema", "Fun Junction"},
	OutdoorActivities: {"Hilltop Trailhead", "Lakeside Boating Point"},
	ArtGalleries:      {"Folk Art Gallery", "Canvas House"},
	LocalMarkets:      {"Weekly Farmers Market", "Spice Market"},
	ScenicViews:       {"Sunset Point", "Valley Viewpoint"},
	CoffeeShops:       {"Milestone Coffee", "Chai Corner"},
	Nightlife:         {"Night Owl Lounge", "The Junction Pub"},
}

const (
	fallbackMin = 5
	fallbackMax = 8
	kmPerDegree = 111.0
)

// synthesize builds a small randomised POI set around loc, favouring
// categories that match the hints.
func (a *Aggregator) synthesize(loc geo.Location, hints []string, radiusKm float64) []POI {
	if radiusKm <= 0 {
		radiusKm = 5
	}
	preferred := categoriesForHints(hints)

	a.mu.Lock()
	defer a.mu.Unlock()

	n := fallbackMin + a.rng.IntN(fallbackMax-fallbackMin+1)
	out := make([]POI, 0, n)
	for i := 0; i < n; i++ {
		var cat Category
		if len(preferred) > 0 && i%2 == 0 {
			cat = preferred[(i/2)%len(preferred)]
		} else {
			cat = Categories[a.rng.IntN(len(Categories))]
		}
		names := fallbackNames[cat]
		name := names[a.rng.IntN(len(names))]

		dLat := (a.rng.Float64()*2 - 1) * radiusKm / kmPerDegree
		dLng := (a.rng.Float64()*2 - 1) * radiusKm / (kmPerDegree * math.Max(0.1, math.Cos(loc.Lat*math.Pi/180)))
		rating := math.Round((3.5+a.rng.Float64()*1.5)*10) / 10
		price := 1 + a.rng.IntN(4)

		place := loc.Address
		if place == "" {
			place = "your route"
		}

		out = append(out, POI{
			ID:           fmt.Sprintf("%s-%s-%d", SourceFallback, geo.RoundKey(loc, 4), i),
			Name:         name,
			Description:  fmt.Sprintf("A popular %s stop near %s", strings.ToLower(string(cat)), place),
			Category:     cat,
			Location:     geo.Location{Lat: loc.Lat + dLat, Lng: loc.Lng + dLng},
			Rating:       &rating,
			PriceLevel:   &price,
			OpeningHours: []string{"Mon-Sun: 9:00 AM - 9:00 PM"},
			Source:       SourceFallback,
		})
	}
	return out
}
