package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/roadtrip-planner/internal/geocode"
)

func TestSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Jaipur, India", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat":"26.9154576","lon":"75.8189817","display_name":"Jaipur, Rajasthan, India"},
			{"lat":"not-a-number","lon":"75.8","display_name":"Broken"},
			{"lat":"26.9","lon":"75.7","display_name":"Jaipur District"}
		]`))
	}))
	defer srv.Close()

	c := geocode.NewClient(srv.URL, 0)
	locs, err := c.Search(context.Background(), "  Jaipur, India ")
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.InDelta(t, 26.9154576, locs[0].Lat, 1e-9)
	assert.InDelta(t, 75.8189817, locs[0].Lng, 1e-9)
	assert.Equal(t, "Jaipur, Rajasthan, India", locs[0].Address)
	assert.Equal(t, "Jaipur District", locs[1].Address)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := geocode.NewClient("http://127.0.0.1:1", 0)
	locs, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := geocode.NewClient(srv.URL, 0).Search(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	locs, err := geocode.NewClient(srv.URL, 0).Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, locs)
}
