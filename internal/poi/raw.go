package poi

import (
	"fmt"
	"math"
	"strings"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
)

// RawRecord is a source-native POI record. The concrete variants are
// PlacesRecord, OverpassRecord and OpenTripMapRecord; Normalize converts any
// of them into the canonical POI.
type RawRecord interface {
	sourceName() string
}

// PlacesRecord is a Google Places Nearby Search result.
type PlacesRecord struct {
	PlaceID     string
	Name        string
	Vicinity    string
	Lat, Lng    *float64
	Types       []string
	Rating      *float64
	PriceLevel  *int
	PhotoRefs   []string
	WeekdayText []string
	Website     string
	Phone       string
}

// OverpassRecord is an OpenStreetMap element returned by the Overpass API.
type OverpassRecord struct {
	Type     string
	ID       int64
	Lat, Lon *float64
	Tags     map[string]string
}

// OpenTripMapRecord is an OpenTripMap radius-search feature.
type OpenTripMapRecord struct {
	XID      string
	Name     string
	Kinds    string
	Rate     int
	Lat, Lon *float64
}

func (PlacesRecord) sourceName() string      { return SourceGooglePlaces }
func (OverpassRecord) sourceName() string    { return SourceOverpass }
func (OpenTripMapRecord) sourceName() string { return SourceOpenTripMap }

// Source names, used as id prefixes and log/metric labels.
const (
	SourceGooglePlaces = "google"
	SourceOverpass     = "osm"
	SourceOpenTripMap  = "otm"
	SourceFallback     = "fallback"
)

// Normalize converts a raw record into a POI. It reports false for records
// without a usable name or coordinate pair.
func Normalize(raw RawRecord) (POI, bool) {
	var p POI
	var lat, lng *float64

	switch r := raw.(type) {
	case PlacesRecord:
		lat, lng = r.Lat, r.Lng
		p = POI{
			ID:           fmt.Sprintf("%s-%s", SourceGooglePlaces, r.PlaceID),
			Name:         r.Name,
			Description:  r.Vicinity,
			Category:     CategoryFromNative(r.Types...),
			Rating:       clampRating(r.Rating),
			Photos:       r.PhotoRefs,
			OpeningHours: r.WeekdayText,
			Website:      r.Website,
			Phone:        r.Phone,
		}
		price := DefaultPriceLevel
		if r.PriceLevel != nil {
			price = clampPrice(*r.PriceLevel)
		}
		p.PriceLevel = &price

	case OverpassRecord:
		lat, lng = r.Lat, r.Lon
		p = normalizeOverpass(r)

	case OpenTripMapRecord:
		lat, lng = r.Lat, r.Lon
		kinds := strings.Split(r.Kinds, ",")
		p = POI{
			ID:          fmt.Sprintf("%s-%s", SourceOpenTripMap, r.XID),
			Name:        r.Name,
			Description: describeKinds(kinds),
			Category:    CategoryFromNative(kinds...),
			Rating:      otmRating(r.Rate),
		}
		price := DefaultPriceLevel
		p.PriceLevel = &price

	default:
		return POI{}, false
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || lat == nil || lng == nil {
		return POI{}, false
	}
	p.Location = geo.Location{Lat: *lat, Lng: *lng}
	if !p.Location.Valid() {
		return POI{}, false
	}
	p.Source = raw.sourceName()
	return p, true
}

// overpassCategoryKeys is the tag precedence used to classify OSM elements.
var overpassCategoryKeys = []string{"tourism", "historic", "leisure", "amenity", "shop"}

func normalizeOverpass(r OverpassRecord) POI {
	tags := r.Tags
	tokens := make([]string, 0, len(overpassCategoryKeys))
	for _, k := range overpassCategoryKeys {
		v, ok := tags[k]
		if !ok {
			continue
		}
		switch k {
		case "historic", "shop":
			// any value of these keys classifies the element
			tokens = append(tokens, v, k)
		default:
			tokens = append(tokens, v)
		}
	}

	p := POI{
		ID:          fmt.Sprintf("%s-%s-%d", SourceOverpass, r.Type, r.ID),
		Name:        tags["name"],
		Description: firstNonEmpty(tags["description"], describeTags(tags)),
		Category:    CategoryFromNative(tokens...),
		Website:     firstNonEmpty(tags["website"], tags["contact:website"]),
		Phone:       firstNonEmpty(tags["phone"], tags["contact:phone"]),
	}
	if oh := strings.TrimSpace(tags["opening_hours"]); oh != "" {
		for _, part := range strings.Split(oh, ";") {
			if part = strings.TrimSpace(part); part != "" {
				p.OpeningHours = append(p.OpeningHours, part)
			}
		}
	}
	if img := strings.TrimSpace(tags["image"]); img != "" {
		p.Photos = []string{img}
	}

	priceSignal := tags["price"]
	if priceSignal == "" && tags["fee"] == "no" {
		priceSignal = "free"
	}
	price := InferPriceLevel(priceSignal)
	p.PriceLevel = &price
	return p
}

func describeTags(tags map[string]string) string {
	for _, k := range overpassCategoryKeys {
		if v, ok := tags[k]; ok && v != "yes" {
			return strings.ReplaceAll(v, "_", " ")
		}
	}
	return ""
}

func describeKinds(kinds []string) string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if k = strings.TrimSpace(k); k != "" && k != "interesting_places" {
			out = append(out, strings.ReplaceAll(k, "_", " "))
		}
		if len(out) == 3 {
			break
		}
	}
	return strings.Join(out, ", ")
}

// otmRating maps OpenTripMap's popularity rate (1-3, 7 for heritage sites)
// onto a 0-5 star scale.
func otmRating(rate int) *float64 {
	if rate <= 0 {
		return nil
	}
	r := math.Min(5, math.Round(float64(rate)*5/3*10)/10)
	return &r
}

func clampRating(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := math.Max(0, math.Min(5, *r))
	return &v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
