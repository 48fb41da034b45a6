package poi

import (
	"strings"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/weather"
)

// Category is the fixed POI taxonomy every source is mapped into.
type Category string

const (
	Restaurants       Category = "Restaurants"
	Museums           Category = "Museums"
	Parks             Category = "Parks"
	Shopping          Category = "Shopping"
	HistoricSites     Category = "Historic Sites"
	Entertainment     Category = "Entertainment"
	OutdoorActivities Category = "Outdoor Activities"
	ArtGalleries      Category = "Art Galleries"
	LocalMarkets      Category = "Local Markets"
	ScenicViews       Category = "Scenic Views"
	CoffeeShops       Category = "Coffee Shops"
	Nightlife         Category = "Nightlife"
	Other             Category = "Other"
)

// Categories lists every category except Other, in display order.
var Categories = []Category{
	Restaurants, Museums, Parks, Shopping, HistoricSites, Entertainment,
	OutdoorActivities, ArtGalleries, LocalMarkets, ScenicViews, CoffeeShops, Nightlife,
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	if strings.EqualFold(s, string(Other)) {
		return Other, true
	}
	return "", false
}

// POI is a point of interest in canonical form. DistanceFromRoute, ClosestTo
// and Weather are filled in during enrichment.
type POI struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     Category     `json:"category"`
	Location     geo.Location `json:"location"`
	Rating       *float64     `json:"rating,omitempty"`
	PriceLevel   *int         `json:"priceLevel,omitempty"`
	Photos       []string     `json:"photos,omitempty"`
	OpeningHours []string     `json:"openingHours,omitempty"`
	Website      string       `json:"website,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Source       string       `json:"source"`

	DistanceFromRoute float64           `json:"distanceFromRoute"`
	ClosestTo         geo.Endpoint      `json:"closestTo,omitempty"`
	Weather           *weather.Snapshot `json:"weather,omitempty"`
}

// DedupKey identifies the same place reported twice: the normalised name
// plus coordinates rounded to 4 decimal places (~11 m).
func (p POI) DedupKey() string {
	return normalizeName(p.Name) + "|" + geo.RoundKey(p.Location, 4)
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
