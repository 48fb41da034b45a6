// Package geocode resolves free-text addresses into locations.
package geocode

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

// DefaultURL is the public Nominatim search endpoint.
const DefaultURL = "https://nominatim.openstreetmap.org/search"

const defaultLimit = 5

// Client queries a Nominatim-compatible search endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client. An empty baseURL uses DefaultURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{baseURL: baseURL, client: httpclient.New(timeout)}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns candidate locations for text, best match first. Results
// with unparseable coordinates are skipped.
func (c *Client) Search(ctx context.Context, text string) ([]geo.Location, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(defaultLimit))

	var raw []nominatimResult
	if err := httpclient.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", text, err)
	}

	out := make([]geo.Location, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		loc := geo.Location{Lat: lat, Lng: lng, Address: r.DisplayName}
		if !loc.Valid() {
			continue
		}
		out = append(out, loc)
	}
	return out, nil
}
