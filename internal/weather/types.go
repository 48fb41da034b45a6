package weather

import "strings"

// Condition is the closed set of weather conditions the pipeline understands.
type Condition string

const (
	Clear        Condition = "Clear"
	Sunny        Condition = "Sunny"
	PartlyCloudy Condition = "Partly Cloudy"
	Cloudy       Condition = "Cloudy"
	Overcast     Condition = "Overcast"
	LightRain    Condition = "Light Rain"
	Rain         Condition = "Rain"
	HeavyRain    Condition = "Heavy Rain"
	Snow         Condition = "Snow"
	Thunderstorm Condition = "Thunderstorm"
	Unknown      Condition = "Unknown"
)

var knownConditions = []Condition{
	Clear, Sunny, PartlyCloudy, Cloudy, Overcast, LightRain, Rain, HeavyRain, Snow, Thunderstorm,
}

// ParseCondition matches a condition label case-insensitively; anything
// unrecognised becomes Unknown.
func ParseCondition(s string) Condition {
	s = strings.TrimSpace(s)
	for _, c := range knownConditions {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Unknown
}

// Icon returns the display glyph for a condition.
func (c Condition) Icon() string {
	switch c {
	case Clear:
		return "🌤️"
	case Sunny:
		return "☀️"
	case PartlyCloudy:
		return "⛅"
	case Cloudy, Overcast:
		return "☁️"
	case LightRain:
		return "🌦️"
	case Rain, HeavyRain:
		return "🌧️"
	case Snow:
		return "❄️"
	case Thunderstorm:
		return "⛈️"
	default:
		return "🌡️"
	}
}

// Snapshot is the weather observed (or synthesised) at one location.
type Snapshot struct {
	Temperature float64   `json:"temperature"`
	Condition   Condition `json:"condition"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"` // km/h
	Icon        string    `json:"icon"`
}
