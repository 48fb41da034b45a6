package poi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
)

func TestCategoryFromNative(t *testing.T) {
	assert.Equal(t, poi.CoffeeShops, poi.CategoryFromNative("cafe"))
	assert.Equal(t, poi.Museums, poi.CategoryFromNative("point_of_interest", "museum", "establishment"))
	assert.Equal(t, poi.ScenicViews, poi.CategoryFromNative("VIEW_POINTS"))
	assert.Equal(t, poi.Other, poi.CategoryFromNative("lodging", "establishment"))
	assert.Equal(t, poi.Other, poi.CategoryFromNative())
}

func TestParseCategory(t *testing.T) {
	c, ok := poi.ParseCategory("historic sites")
	require.True(t, ok)
	assert.Equal(t, poi.HistoricSites, c)

	c, ok = poi.ParseCategory("other")
	require.True(t, ok)
	assert.Equal(t, poi.Other, c)

	_, ok = poi.ParseCategory("spaceports")
	assert.False(t, ok)
}

func TestInferPriceLevel(t *testing.T) {
	cases := map[string]int{
		"":               2,
		"$":              1,
		"$$$":            3,
		"$$$$$$":         4,
		"0":              0,
		"7":              4,
		"free":           0,
		"Inexpensive":    1,
		"moderate":       2,
		"expensive":      3,
		"Very Expensive": 4,
		"10 EUR":         2,
	}
	for in, want := range cases {
		assert.Equal(t, want, poi.InferPriceLevel(in), "signal %q", in)
	}
}

func ptrF(v float64) *float64 { return &v }

func TestNormalize_Places(t *testing.T) {
	p, ok := poi.Normalize(poi.PlacesRecord{
		PlaceID: "abc", Name: "Cafe Palladio", Vicinity: "Kanota Bagh",
		Lat: ptrF(26.9), Lng: ptrF(75.8), Types: []string{"cafe", "food"},
		Rating: ptrF(4.6), PhotoRefs: []string{"r1", "r2"},
	})
	require.True(t, ok)
	assert.Equal(t, "google-abc", p.ID)
	assert.Equal(t, poi.CoffeeShops, p.Category)
	require.NotNil(t, p.PriceLevel)
	assert.Equal(t, 2, *p.PriceLevel, "absent price defaults to mid-range")
	assert.Equal(t, "google", p.Source)
	assert.Len(t, p.Photos, 2)
}

func TestNormalize_Overpass(t *testing.T) {
	p, ok := poi.Normalize(poi.OverpassRecord{
		Type: "way", ID: 42, Lat: ptrF(26.92), Lon: ptrF(75.82),
		Tags: map[string]string{
			"name":          "City Palace Museum",
			"tourism":       "museum",
			"opening_hours": "Mo-Su 09:30-17:00; PH off",
			"website":       "https://example.org",
			"fee":           "no",
		},
	})
	require.True(t, ok)
	assert.Equal(t, "osm-way-42", p.ID)
	assert.Equal(t, poi.Museums, p.Category)
	assert.Equal(t, []string{"Mo-Su 09:30-17:00", "PH off"}, p.OpeningHours)
	assert.Equal(t, "https://example.org", p.Website)
	assert.Equal(t, 0, *p.PriceLevel)
	assert.Nil(t, p.Rating)
}

func TestNormalize_OverpassAnyShopIsShopping(t *testing.T) {
	p, ok := poi.Normalize(poi.OverpassRecord{
		Type: "node", ID: 1, Lat: ptrF(1), Lon: ptrF(1),
		Tags: map[string]string{"name": "Bapu Bazaar Textiles", "shop": "fabric"},
	})
	require.True(t, ok)
	assert.Equal(t, poi.Shopping, p.Category)
}

func TestNormalize_OpenTripMap(t *testing.T) {
	p, ok := poi.Normalize(poi.OpenTripMapRecord{
		XID: "N123", Name: "Nahargarh Fort", Kinds: "fortifications,historic,interesting_places",
		Rate: 3, Lat: ptrF(26.937), Lon: ptrF(75.815),
	})
	require.True(t, ok)
	assert.Equal(t, "otm-N123", p.ID)
	assert.Equal(t, poi.HistoricSites, p.Category)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 5.0, *p.Rating)
	assert.Equal(t, "fortifications, historic", p.Description)
}

func TestNormalize_RejectsInvalid(t *testing.T) {
	_, ok := poi.Normalize(poi.OpenTripMapRecord{XID: "1", Name: "", Lat: ptrF(1), Lon: ptrF(1)})
	assert.False(t, ok, "missing name")

	_, ok = poi.Normalize(poi.OpenTripMapRecord{XID: "1", Name: "Somewhere"})
	assert.False(t, ok, "missing coordinates")

	_, ok = poi.Normalize(poi.PlacesRecord{PlaceID: "1", Name: "Bad", Lat: ptrF(120), Lng: ptrF(1)})
	assert.False(t, ok, "latitude out of range")

	_, ok = poi.Normalize(nil)
	assert.False(t, ok)
}
