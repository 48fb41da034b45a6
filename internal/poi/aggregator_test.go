package poi_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/metrics"
	"github.com/neexbeast/roadtrip-planner/internal/poi"
)

var jaipur = geo.Location{Lat: 26.9124, Lng: 75.7873, Address: "Jaipur"}

type stubSource struct {
	name  string
	recs  []poi.RawRecord
	err   error
	delay time.Duration
	panic bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(ctx context.Context, _ geo.Location, _ []string, _ float64) ([]poi.RawRecord, error) {
	if s.panic {
		panic("boom")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.recs, s.err
}

func ptr[T any](v T) *T { return &v }

func placesRec(id, name string, lat, lng float64, types ...string) poi.PlacesRecord {
	return poi.PlacesRecord{PlaceID: id, Name: name, Lat: ptr(lat), Lng: ptr(lng), Types: types, Rating: ptr(4.2)}
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newAggregator(sources ...poi.Source) *poi.Aggregator {
	return poi.NewAggregator(sources, 200*time.Millisecond, rand.New(rand.NewPCG(1, 2)), nil, quietLog())
}

func TestSearchNear_MergesInSourcePriorityOrder(t *testing.T) {
	primary := &stubSource{name: "google", recs: []poi.RawRecord{
		placesRec("a", "Amber Fort", 26.9855, 75.8513, "tourist_attraction"),
	}}
	open := &stubSource{name: "osm", delay: 20 * time.Millisecond, recs: []poi.RawRecord{
		poi.OverpassRecord{Type: "node", ID: 1, Lat: ptr(26.9239), Lon: ptr(75.8267),
			Tags: map[string]string{"name": "Hawa Mahal", "historic": "palace"}},
	}}

	got := newAggregator(primary, open).SearchNear(context.Background(), jaipur, nil, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "google-a", got[0].ID)
	assert.Equal(t, "osm-node-1", got[1].ID)
	assert.Equal(t, poi.HistoricSites, got[1].Category)
}

func TestSearchNear_Dedup_CaseAndWhitespace(t *testing.T) {
	src := &stubSource{name: "google", recs: []poi.RawRecord{
		placesRec("a", "Hawa Mahal", 26.92391, 75.82671, "tourist_attraction"),
		placesRec("b", "  hawa   MAHAL ", 26.92389, 75.82669, "museum"),
	}}

	got := newAggregator(src).SearchNear(context.Background(), jaipur, nil, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "google-a", got[0].ID, "first occurrence wins")
}

func TestSearchNear_Dedup_DifferentBucketsKept(t *testing.T) {
	src := &stubSource{name: "google", recs: []poi.RawRecord{
		placesRec("a", "Cafe Coffee Day", 26.9000, 75.8000, "cafe"),
		placesRec("b", "Cafe Coffee Day", 26.9100, 75.8000, "cafe"),
	}}

	got := newAggregator(src).SearchNear(context.Background(), jaipur, nil, 10)
	assert.Len(t, got, 2)
}

func TestSearchNear_TruncatesToMax(t *testing.T) {
	var recs []poi.RawRecord
	for i := 0; i < 30; i++ {
		recs = append(recs, placesRec(fmt.Sprint(i), fmt.Sprintf("Place %d", i), 26.9+float64(i)*0.001, 75.8, "restaurant"))
	}
	got := newAggregator(&stubSource{name: "google", recs: recs}).SearchNear(context.Background(), jaipur, nil, 10)
	require.Len(t, got, poi.MaxResults)
	assert.Equal(t, "google-0", got[0].ID)
	assert.Equal(t, "google-19", got[19].ID)
}

func TestSearchNear_FailingSourceIsIsolated(t *testing.T) {
	bad := &stubSource{name: "google", err: errors.New("quota exceeded")}
	slow := &stubSource{name: "otm", delay: time.Second}
	panicky := &stubSource{name: "broken", panic: true}
	good := &stubSource{name: "osm", recs: []poi.RawRecord{
		poi.OverpassRecord{Type: "node", ID: 7, Lat: ptr(26.92), Lon: ptr(75.82),
			Tags: map[string]string{"name": "Central Park", "leisure": "park"}},
	}}

	m := metrics.NewPipeline()
	agg := poi.NewAggregator([]poi.Source{bad, slow, panicky, good}, 50*time.Millisecond, rand.New(rand.NewPCG(1, 2)), m, quietLog())

	start := time.Now()
	got := agg.SearchNear(context.Background(), jaipur, nil, 10)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "slow source bounded by timeout")

	require.Len(t, got, 1)
	assert.Equal(t, "Central Park", got[0].Name)
	assert.Equal(t, poi.Parks, got[0].Category)
}

func TestSearchNear_DiscardsRecordsWithoutNameOrCoordinates(t *testing.T) {
	src := &stubSource{name: "google", recs: []poi.RawRecord{
		poi.PlacesRecord{PlaceID: "x", Name: "   ", Lat: ptr(26.9), Lng: ptr(75.8)},
		poi.PlacesRecord{PlaceID: "y", Name: "No Coords"},
		placesRec("z", "Valid", 26.9, 75.8, "park"),
	}}
	got := newAggregator(src).SearchNear(context.Background(), jaipur, nil, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "Valid", got[0].Name)
}

func TestSearchNear_EmptyPoolUsesFallback(t *testing.T) {
	src := &stubSource{name: "google", err: errors.New("down")}
	got := newAggregator(src).SearchNear(context.Background(), jaipur, []string{"Museums"}, 10)

	require.GreaterOrEqual(t, len(got), 5)
	require.LessOrEqual(t, len(got), 8)
	assert.Equal(t, poi.Museums, got[0].Category, "hinted categories come first")
	for _, p := range got {
		assert.Equal(t, poi.SourceFallback, p.Source)
		assert.NotEmpty(t, p.Name)
		require.NotNil(t, p.PriceLevel)
		assert.GreaterOrEqual(t, *p.PriceLevel, 0)
		assert.LessOrEqual(t, *p.PriceLevel, 4)
		assert.LessOrEqual(t, geo.DistanceKm(jaipur, p.Location), 15.0)
	}
}

func TestSearchNear_NoSourcesUsesFallback(t *testing.T) {
	got := newAggregator().SearchNear(context.Background(), jaipur, nil, 10)
	assert.NotEmpty(t, got)
}

func TestSearchNear_FallbackDeterministicForSeed(t *testing.T) {
	a := newAggregator().SearchNear(context.Background(), jaipur, nil, 10)
	b := newAggregator().SearchNear(context.Background(), jaipur, nil, 10)
	assert.Equal(t, a, b)
}

func TestDedup_KeepsOrder(t *testing.T) {
	pois := []poi.POI{
		{ID: "1", Name: "A", Location: geo.Location{Lat: 1, Lng: 1}},
		{ID: "2", Name: "B", Location: geo.Location{Lat: 1, Lng: 1}},
		{ID: "3", Name: "a", Location: geo.Location{Lat: 1.00001, Lng: 1}},
	}
	got := poi.Dedup(pois)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}
