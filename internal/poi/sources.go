package poi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/httpclient"
)

// Source is an external POI collaborator. Results stay in the source's raw
// shape until the Aggregator normalises them.
type Source interface {
	Name() string
	Search(ctx context.Context, loc geo.Location, hints []string, radiusKm float64) ([]RawRecord, error)
}

func radiusMeters(km float64) int {
	return int(km * 1000)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ---- Google Places ----

const placesDefaultURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// PlacesClient queries Google Places Nearby Search.
type PlacesClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewPlacesClient constructs a PlacesClient with the given API key.
func NewPlacesClient(apiKey string, timeout time.Duration) *PlacesClient {
	return &PlacesClient{apiKey: apiKey, baseURL: placesDefaultURL, client: httpclient.New(timeout)}
}

// NewPlacesClientWithURL points the client at a custom base URL (for tests).
func NewPlacesClientWithURL(baseURL, apiKey string) *PlacesClient {
	return &PlacesClient{apiKey: apiKey, baseURL: baseURL, client: httpclient.New(0)}
}

func (c *PlacesClient) Name() string { return SourceGooglePlaces }

type placesResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Types      []string `json:"types"`
		Rating     *float64 `json:"rating"`
		PriceLevel *int     `json:"price_level"`
		Photos     []struct {
			Reference string `json:"photo_reference"`
		} `json:"photos"`
		OpeningHours *struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Website string `json:"website"`
		Phone   string `json:"formatted_phone_number"`
	} `json:"results"`
}

// Search returns places within radiusKm of loc, biased by the hints as keywords.
func (c *PlacesClient) Search(ctx context.Context, loc geo.Location, hints []string, radiusKm float64) ([]RawRecord, error) {
	q := url.Values{}
	q.Set("location", formatCoord(loc.Lat)+","+formatCoord(loc.Lng))
	q.Set("radius", strconv.Itoa(radiusMeters(radiusKm)))
	q.Set("key", c.apiKey)
	if len(hints) > 0 {
		q.Set("keyword", strings.Join(hints, " "))
	}

	var raw placesResponse
	if err := httpclient.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("google places nearby search: %w", err)
	}
	if raw.Status != "OK" && raw.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("google places nearby search: status %s: %s", raw.Status, raw.ErrorMessage)
	}

	out := make([]RawRecord, 0, len(raw.Results))
	for _, r := range raw.Results {
		rec := PlacesRecord{
			PlaceID:    r.PlaceID,
			Name:       r.Name,
			Vicinity:   r.Vicinity,
			Lat:        r.Geometry.Location.Lat,
			Lng:        r.Geometry.Location.Lng,
			Types:      r.Types,
			Rating:     r.Rating,
			PriceLevel: r.PriceLevel,
			Website:    r.Website,
			Phone:      r.Phone,
		}
		for _, ph := range r.Photos {
			rec.PhotoRefs = append(rec.PhotoRefs, ph.Reference)
		}
		if r.OpeningHours != nil {
			rec.WeekdayText = r.OpeningHours.WeekdayText
		}
		out = append(out, rec)
	}
	return out, nil
}

// ---- OpenStreetMap Overpass ----

const overpassDefaultURL = "https://overpass-api.de/api/interpreter"

// OverpassClient queries OpenStreetMap through the Overpass API (no key required).
type OverpassClient struct {
	baseURL string
	limit   int
	client  *http.Client
}

// NewOverpassClient constructs an OverpassClient. An empty baseURL uses the public endpoint.
func NewOverpassClient(baseURL string, timeout time.Duration) *OverpassClient {
	if baseURL == "" {
		baseURL = overpassDefaultURL
	}
	return &OverpassClient{baseURL: baseURL, limit: 40, client: httpclient.New(timeout)}
}

func (c *OverpassClient) Name() string { return SourceOverpass }

type overpassResponse struct {
	Elements []struct {
		Type   string   `json:"type"`
		ID     int64    `json:"id"`
		Lat    *float64 `json:"lat"`
		Lon    *float64 `json:"lon"`
		Center *struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// overpassQuery selects named tourism, historic, leisure and amenity
// features around a point.
func (c *OverpassClient) overpassQuery(loc geo.Location, radiusKm float64) string {
	around := fmt.Sprintf("around:%d,%s,%s", radiusMeters(radiusKm), formatCoord(loc.Lat), formatCoord(loc.Lng))
	return fmt.Sprintf(`[out:json][timeout:25];
(
  nwr(%[1]s)["name"]["tourism"~"museum|gallery|viewpoint|attraction|theme_park|zoo|camp_site|picnic_site"];
  nwr(%[1]s)["name"]["historic"];
  nwr(%[1]s)["name"]["leisure"~"park|garden|nature_reserve"];
  nwr(%[1]s)["name"]["amenity"~"restaurant|fast_food|cafe|bar|pub|nightclub|marketplace|cinema|theatre|arts_centre"];
);
out center %[2]d;`, around, c.limit)
}

// Search returns named OSM features within radiusKm of loc.
func (c *OverpassClient) Search(ctx context.Context, loc geo.Location, _ []string, radiusKm float64) ([]RawRecord, error) {
	form := url.Values{}
	form.Set("data", c.overpassQuery(loc, radiusKm))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var raw overpassResponse
	if err := httpclient.Do(c.client, req, &raw); err != nil {
		return nil, fmt.Errorf("overpass search: %w", err)
	}

	out := make([]RawRecord, 0, len(raw.Elements))
	for _, e := range raw.Elements {
		rec := OverpassRecord{Type: e.Type, ID: e.ID, Lat: e.Lat, Lon: e.Lon, Tags: e.Tags}
		if rec.Lat == nil && e.Center != nil {
			rec.Lat, rec.Lon = e.Center.Lat, e.Center.Lon
		}
		out = append(out, rec)
	}
	return out, nil
}

// ---- OpenTripMap ----

const otmDefaultURL = "https://api.opentripmap.com/0.1/en/places/radius"

// OpenTripMapClient queries the OpenTripMap radius search.
type OpenTripMapClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenTripMapClient constructs an OpenTripMapClient with the given API key.
func NewOpenTripMapClient(apiKey string, timeout time.Duration) *OpenTripMapClient {
	return &OpenTripMapClient{apiKey: apiKey, baseURL: otmDefaultURL, client: httpclient.New(timeout)}
}

// NewOpenTripMapClientWithURL points the client at a custom base URL (for tests).
func NewOpenTripMapClientWithURL(baseURL, apiKey string) *OpenTripMapClient {
	return &OpenTripMapClient{apiKey: apiKey, baseURL: baseURL, client: httpclient.New(0)}
}

func (c *OpenTripMapClient) Name() string { return SourceOpenTripMap }

type otmRadiusResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			XID   string `json:"xid"`
			Name  string `json:"name"`
			Kinds string `json:"kinds"`
			Rate  int    `json:"rate"`
		} `json:"properties"`
	} `json:"features"`
}

// otmKinds maps taxonomy categories onto OpenTripMap kind filters.
var otmKinds = map[Category]string{
	Restaurants:       "foods",
	Museums:           "museums",
	Parks:             "gardens_and_parks",
	Shopping:          "shops",
	HistoricSites:     "historic,architecture",
	Entertainment:     "amusements,theatres_and_entertainments",
	OutdoorActivities: "natural",
	ArtGalleries:      "museums",
	LocalMarkets:      "marketplaces",
	ScenicViews:       "view_points",
	CoffeeShops:       "cafes",
	Nightlife:         "bars,pubs,nightclubs",
}

func kindsForHints(hints []string) string {
	var kinds []string
	seen := make(map[string]bool)
	for _, c := range categoriesForHints(hints) {
		if k, ok := otmKinds[c]; ok && !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return "interesting_places,foods"
	}
	return strings.Join(kinds, ",")
}

// Search returns OpenTripMap features within radiusKm of loc.
func (c *OpenTripMapClient) Search(ctx context.Context, loc geo.Location, hints []string, radiusKm float64) ([]RawRecord, error) {
	q := url.Values{}
	q.Set("radius", strconv.Itoa(radiusMeters(radiusKm)))
	q.Set("lon", formatCoord(loc.Lng))
	q.Set("lat", formatCoord(loc.Lat))
	q.Set("kinds", kindsForHints(hints))
	q.Set("limit", "20")
	q.Set("format", "geojson")
	q.Set("apikey", c.apiKey)

	var raw otmRadiusResponse
	if err := httpclient.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("opentripmap radius search: %w", err)
	}

	out := make([]RawRecord, 0, len(raw.Features))
	for _, f := range raw.Features {
		rec := OpenTripMapRecord{
			XID:   f.Properties.XID,
			Name:  f.Properties.Name,
			Kinds: f.Properties.Kinds,
			Rate:  f.Properties.Rate,
		}
		if len(f.Geometry.Coordinates) == 2 {
			lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
			rec.Lon, rec.Lat = &lon, &lat
		}
		out = append(out, rec)
	}
	return out, nil
}
