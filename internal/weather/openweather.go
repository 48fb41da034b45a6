package weather

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/httpclient"
)

const owmDefaultURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherClient fetches current weather from OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenWeatherClient constructs a client with the given API key.
func NewOpenWeatherClient(apiKey string, timeout time.Duration) *OpenWeatherClient {
	return &OpenWeatherClient{apiKey: apiKey, baseURL: owmDefaultURL, client: httpclient.New(timeout)}
}

// NewOpenWeatherClientWithURL points the client at a custom base URL (for tests).
func NewOpenWeatherClientWithURL(baseURL, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{apiKey: apiKey, baseURL: baseURL, client: httpclient.New(0)}
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s in metric units
	} `json:"wind"`
}

// Fetch retrieves the current weather at loc.
func (c *OpenWeatherClient) Fetch(ctx context.Context, loc geo.Location) (*Snapshot, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lng, 'f', 4, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	var raw owmResponse
	if err := httpclient.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("openweathermap fetch for %s: %w", geo.RoundKey(loc, 2), err)
	}

	cond := Unknown
	if len(raw.Weather) > 0 {
		cond = conditionFromOWM(raw.Weather[0].Main, raw.Weather[0].Description)
	}

	return &Snapshot{
		Temperature: raw.Main.Temp,
		Condition:   cond,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   math.Round(raw.Wind.Speed*3.6*10) / 10,
		Icon:        cond.Icon(),
	}, nil
}

// conditionFromOWM maps OpenWeatherMap's condition group and description
// onto Condition.
func conditionFromOWM(group, description string) Condition {
	desc := strings.ToLower(description)
	switch strings.ToLower(group) {
	case "clear":
		return Clear
	case "clouds":
		switch {
		case strings.Contains(desc, "few"), strings.Contains(desc, "scattered"):
			return PartlyCloudy
		case strings.Contains(desc, "overcast"):
			return Overcast
		default:
			return Cloudy
		}
	case "drizzle":
		return LightRain
	case "rain":
		switch {
		case strings.Contains(desc, "light"):
			return LightRain
		case strings.Contains(desc, "heavy"), strings.Contains(desc, "extreme"), strings.Contains(desc, "very"):
			return HeavyRain
		default:
			return Rain
		}
	case "snow":
		return Snow
	case "thunderstorm":
		return Thunderstorm
	case "mist", "haze", "fog", "smoke":
		return Overcast
	default:
		return ParseCondition(description)
	}
}
