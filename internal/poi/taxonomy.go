package poi

import (
	"strconv"
	"strings"
)

// DefaultPriceLevel is used when a source gives no price signal.
const DefaultPriceLevel = 2

// nativeCategories maps native type tokens from Google Places types,
// OpenStreetMap tag values and OpenTripMap kinds onto the taxonomy.
var nativeCategories = map[string]Category{
	// Google Places
	"restaurant":         Restaurants,
	"meal_takeaway":      Restaurants,
	"meal_delivery":      Restaurants,
	"bakery":             Restaurants,
	"food":               Restaurants,
	"cafe":               CoffeeShops,
	"museum":             Museums,
	"park":               Parks,
	"shopping_mall":      Shopping,
	"store":              Shopping,
	"clothing_store":     Shopping,
	"department_store":   Shopping,
	"book_store":         Shopping,
	"art_gallery":        ArtGalleries,
	"night_club":         Nightlife,
	"bar":                Nightlife,
	"casino":             Nightlife,
	"amusement_park":     Entertainment,
	"movie_theater":      Entertainment,
	"bowling_alley":      Entertainment,
	"aquarium":           Entertainment,
	"zoo":                Entertainment,
	"stadium":            Entertainment,
	"campground":         OutdoorActivities,
	"rv_park":            OutdoorActivities,
	"natural_feature":    OutdoorActivities,
	"tourist_attraction": ScenicViews,
	"church":             HistoricSites,
	"hindu_temple":       HistoricSites,
	"mosque":             HistoricSites,
	"synagogue":          HistoricSites,

	// OpenStreetMap
	"fast_food":      Restaurants,
	"food_court":     Restaurants,
	"pub":            Nightlife,
	"nightclub":      Nightlife,
	"biergarten":     Nightlife,
	"marketplace":    LocalMarkets,
	"cinema":         Entertainment,
	"theatre":        Entertainment,
	"arts_centre":    Entertainment,
	"theme_park":     Entertainment,
	"gallery":        ArtGalleries,
	"viewpoint":      ScenicViews,
	"camp_site":      OutdoorActivities,
	"picnic_site":    OutdoorActivities,
	"nature_reserve": OutdoorActivities,
	"garden":         Parks,
	"historic":       HistoricSites,
	"shop":           Shopping,

	// OpenTripMap
	"museums":                     Museums,
	"historic_architecture":       HistoricSites,
	"architecture":                HistoricSites,
	"monuments_and_memorials":     HistoricSites,
	"fortifications":              HistoricSites,
	"castles":                     HistoricSites,
	"religion":                    HistoricSites,
	"natural":                     OutdoorActivities,
	"beaches":                     OutdoorActivities,
	"nature_reserves":             OutdoorActivities,
	"mountain_peaks":              OutdoorActivities,
	"gardens_and_parks":           Parks,
	"view_points":                 ScenicViews,
	"foods":                       Restaurants,
	"restaurants":                 Restaurants,
	"cafes":                       CoffeeShops,
	"bars":                        Nightlife,
	"pubs":                        Nightlife,
	"nightclubs":                  Nightlife,
	"amusements":                  Entertainment,
	"theatres_and_entertainments": Entertainment,
	"cinemas":                     Entertainment,
	"shops":                       Shopping,
	"malls":                       Shopping,
	"marketplaces":                LocalMarkets,
	"art_galleries":               ArtGalleries,
}

// CategoryFromNative returns the category of the first token that maps into
// the taxonomy, or Other when none does.
func CategoryFromNative(tokens ...string) Category {
	for _, tok := range tokens {
		if c, ok := nativeCategories[strings.ToLower(strings.TrimSpace(tok))]; ok {
			return c
		}
	}
	return Other
}

// InferPriceLevel turns a heterogeneous price signal into a level in [0, 4]:
// "$"-strings count their symbols, numbers are clamped, and textual tags are
// matched by keyword. Anything else yields DefaultPriceLevel.
func InferPriceLevel(signal string) int {
	s := strings.ToLower(strings.TrimSpace(signal))
	if s == "" {
		return DefaultPriceLevel
	}

	if n := strings.Count(s, "$"); n > 0 && strings.Trim(s, "$") == "" {
		return clampPrice(n)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clampPrice(n)
	}

	switch {
	case s == "free" || s == "no" || strings.Contains(s, "no fee"):
		return 0
	case strings.Contains(s, "very expensive") || strings.Contains(s, "luxury"):
		return 4
	case strings.Contains(s, "inexpensive") || strings.Contains(s, "cheap") || strings.Contains(s, "budget"):
		return 1
	case strings.Contains(s, "expensive") || strings.Contains(s, "upscale"):
		return 3
	case strings.Contains(s, "moderate"):
		return 2
	}
	return DefaultPriceLevel
}

func clampPrice(n int) int {
	if n < 0 {
		return 0
	}
	if n > 4 {
		return 4
	}
	return n
}

// categoriesForHints resolves free-text hints to taxonomy categories by
// substring match in either direction.
func categoriesForHints(hints []string) []Category {
	var out []Category
	seen := make(map[Category]bool)
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		for _, c := range Categories {
			name := strings.ToLower(string(c))
			if (strings.Contains(name, h) || strings.Contains(h, name)) && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
