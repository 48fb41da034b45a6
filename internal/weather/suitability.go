package weather

// Suitability scores how favourable the weather is for being out and about,
// in [0, 1]: a temperature penalty, a condition factor and a wind penalty
// multiplied together.
func Suitability(s Snapshot) float64 {
	score := 1.0
	score *= temperatureFactor(s.Temperature)
	score *= conditionFactor(s.Condition)
	score *= windFactor(s.WindSpeed)
	return clamp01(score)
}

// temperatureFactor is 1.0 between 15 and 28°C and steps down to a floor of
// 0.3 below 5°C or above 35°C.
func temperatureFactor(c float64) float64 {
	switch {
	case c >= 15 && c <= 28:
		return 1.0
	case c >= 10 && c <= 32:
		return 0.8
	case c >= 5 && c <= 35:
		return 0.6
	default:
		return 0.3
	}
}

func conditionFactor(c Condition) float64 {
	switch c {
	case Clear, Sunny:
		return 1.0
	case PartlyCloudy:
		return 0.9
	case Cloudy:
		return 0.8
	case Overcast:
		return 0.7
	case LightRain:
		return 0.5
	case Snow:
		return 0.4
	case Rain:
		return 0.3
	case HeavyRain:
		return 0.2
	case Thunderstorm:
		return 0.1
	default:
		return 0.5
	}
}

func windFactor(kmh float64) float64 {
	switch {
	case kmh < 25:
		return 1.0
	case kmh <= 40:
		return 0.7
	default:
		return 0.3
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
