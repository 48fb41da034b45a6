// Package httpclient holds the JSON-over-HTTP helpers shared by the
// collaborator clients (weather, POI sources, geocoding).
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single collaborator request.
const DefaultTimeout = 10 * time.Second

// userAgent is sent on every request; Nominatim and Overpass reject anonymous clients.
const userAgent = "roadtrip-planner/1.0"

// New returns an http.Client with the given timeout, or DefaultTimeout when zero.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GetJSON performs a GET request and decodes the JSON response into dst.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	return Do(client, req, dst)
}

// Do sends req and decodes a 200 JSON response into dst.
func Do(client *http.Client, req *http.Request, dst any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s returned status %d", req.Method, req.URL.Redacted(), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Redacted(), err)
	}

	return nil
}
