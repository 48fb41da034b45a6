package scoring

import (
	"strings"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
)

type timeOfDay string

const (
	morning   timeOfDay = "morning"
	afternoon timeOfDay = "afternoon"
	evening   timeOfDay = "evening"
	night     timeOfDay = "night"
)

func timeOfDayAt(t time.Time) timeOfDay {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return morning
	case h >= 12 && h < 17:
		return afternoon
	case h >= 17 && h < 22:
		return evening
	default:
		return night
	}
}

type season string

const (
	spring season = "spring"
	summer season = "summer"
	fall   season = "fall"
	winter season = "winter"
)

func seasonAt(t time.Time) season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return spring
	case time.June, time.July, time.August:
		return summer
	case time.September, time.October, time.November:
		return fall
	default:
		return winter
	}
}

// affinity tables; a category missing from a table gets the caller's default.
type affinity map[poi.Category]float64

func lookup(table affinity, c poi.Category, def float64) float64 {
	if v, ok := table[c]; ok {
		return v
	}
	return def
}

var timeAffinity = map[timeOfDay]affinity{
	morning: {
		poi.CoffeeShops:       0.9,
		poi.Parks:             0.9,
		poi.OutdoorActivities: 0.9,
		poi.LocalMarkets:      0.9,
		poi.Museums:           0.8,
		poi.HistoricSites:     0.8,
		poi.ScenicViews:       0.8,
		poi.ArtGalleries:      0.7,
		poi.Restaurants:       0.6,
		poi.Shopping:          0.5,
		poi.Entertainment:     0.4,
		poi.Nightlife:         0.1,
	},
	afternoon: {
		poi.Museums:           0.9,
		poi.ArtGalleries:      0.9,
		poi.HistoricSites:     0.9,
		poi.Shopping:          0.9,
		poi.Parks:             0.8,
		poi.OutdoorActivities: 0.8,
		poi.ScenicViews:       0.8,
		poi.Restaurants:       0.7,
		poi.CoffeeShops:       0.7,
		poi.LocalMarkets:      0.7,
		poi.Entertainment:     0.7,
		poi.Nightlife:         0.2,
	},
	evening: {
		poi.Restaurants:       1.0,
		poi.Entertainment:     0.9,
		poi.ScenicViews:       0.9,
		poi.Nightlife:         0.8,
		poi.Shopping:          0.6,
		poi.LocalMarkets:      0.6,
		poi.CoffeeShops:       0.5,
		poi.Parks:             0.5,
		poi.ArtGalleries:      0.5,
		poi.HistoricSites:     0.5,
		poi.Museums:           0.4,
		poi.OutdoorActivities: 0.4,
	},
	night: {
		poi.Nightlife:         1.0,
		poi.Entertainment:     0.7,
		poi.Restaurants:       0.6,
		poi.CoffeeShops:       0.3,
		poi.ScenicViews:       0.3,
		poi.Shopping:          0.2,
		poi.Parks:             0.1,
		poi.OutdoorActivities: 0.1,
		poi.Museums:           0.1,
		poi.ArtGalleries:      0.1,
		poi.HistoricSites:     0.1,
		poi.LocalMarkets:      0.1,
	},
}

var seasonAffinity = map[season]affinity{
	spring: {
		poi.Parks:             1.0,
		poi.OutdoorActivities: 0.9,
		poi.ScenicViews:       0.9,
		poi.LocalMarkets:      0.8,
		poi.HistoricSites:     0.8,
	},
	summer: {
		poi.OutdoorActivities: 1.0,
		poi.Parks:             0.9,
		poi.ScenicViews:       0.9,
		poi.Nightlife:         0.8,
		poi.Museums:           0.6,
	},
	fall: {
		poi.ScenicViews:       1.0,
		poi.Parks:             0.9,
		poi.HistoricSites:     0.8,
		poi.LocalMarkets:      0.9,
		poi.OutdoorActivities: 0.8,
	},
	winter: {
		poi.Museums:           0.9,
		poi.ArtGalleries:      0.9,
		poi.CoffeeShops:       0.9,
		poi.Shopping:          0.8,
		poi.Entertainment:     0.8,
		poi.Parks:             0.4,
		poi.OutdoorActivities: 0.4,
	},
}

// weatherSensitivity is how much a category's appeal depends on the weather.
func weatherSensitivity(c poi.Category) float64 {
	switch c {
	case poi.Parks, poi.OutdoorActivities:
		return 1.0
	case poi.ScenicViews:
		return 0.9
	case poi.LocalMarkets:
		return 0.7
	case poi.HistoricSites:
		return 0.6
	case poi.Restaurants, poi.CoffeeShops, poi.Entertainment:
		return 0.3
	case poi.Shopping, poi.Museums, poi.ArtGalleries:
		return 0.2
	case poi.Nightlife:
		return 0.1
	default:
		return 0.5
	}
}

// concepts maps preference word stems to the categories they imply.
var concepts = []struct {
	word       string
	categories []poi.Category
}{
	{"food", []poi.Category{poi.Restaurants, poi.CoffeeShops, poi.LocalMarkets}},
	{"eat", []poi.Category{poi.Restaurants, poi.CoffeeShops, poi.LocalMarkets}},
	{"cultur", []poi.Category{poi.Museums, poi.HistoricSites, poi.ArtGalleries}},
	{"histor", []poi.Category{poi.HistoricSites, poi.Museums}},
	{"heritage", []poi.Category{poi.HistoricSites, poi.Museums}},
	{"art", []poi.Category{poi.ArtGalleries, poi.Museums}},
	{"natur", []poi.Category{poi.Parks, poi.OutdoorActivities, poi.ScenicViews}},
	{"outdoor", []poi.Category{poi.Parks, poi.OutdoorActivities, poi.ScenicViews}},
	{"adventure", []poi.Category{poi.OutdoorActivities, poi.Parks}},
	{"hiking", []poi.Category{poi.OutdoorActivities, poi.Parks, poi.ScenicViews}},
	{"shop", []poi.Category{poi.Shopping, poi.LocalMarkets}},
	{"nightlife", []poi.Category{poi.Nightlife, poi.Entertainment}},
	{"party", []poi.Category{poi.Nightlife, poi.Entertainment}},
	{"fun", []poi.Category{poi.Entertainment, poi.Nightlife, poi.Parks}},
	{"coffee", []poi.Category{poi.CoffeeShops}},
	{"relax", []poi.Category{poi.Parks, poi.CoffeeShops, poi.ScenicViews}},
	{"family", []poi.Category{poi.Parks, poi.Entertainment, poi.Museums}},
	{"photo", []poi.Category{poi.ScenicViews, poi.HistoricSites, poi.Parks}},
	{"view", []poi.Category{poi.ScenicViews}},
}

func conceptMatches(tag string, c poi.Category) bool {
	for _, word := range strings.Fields(tag) {
		for _, concept := range concepts {
			if !strings.HasPrefix(word, concept.word) {
				continue
			}
			for _, mapped := range concept.categories {
				if mapped == c {
					return true
				}
			}
		}
	}
	return false
}
