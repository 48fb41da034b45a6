package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
)

const maxReasons = 3

var timePhrases = map[timeOfDay]string{
	morning:   "a great way to start the morning",
	afternoon: "ideal for an afternoon stop",
	evening:   "perfect for the evening",
	night:     "lively late at night",
}

var seasonPhrases = map[season]string{
	spring: "at its best in spring",
	summer: "a summer favourite",
	fall:   "beautiful in the fall",
	winter: "a cosy winter pick",
}

func recommend(p poi.POI, b Breakdown, tod timeOfDay, s season) string {
	var reasons []string
	switch {
	case b.WeatherSuitability > 0.8:
		reasons = append(reasons, "great weather for a visit")
	case b.WeatherSuitability < 0.4:
		reasons = append(reasons, "a good indoor alternative given the weather")
	}
	if b.PreferenceMatch > 0.8 {
		reasons = append(reasons, "a strong match for your interests")
	}
	if b.TimeRelevance > 0.8 {
		reasons = append(reasons, timePhrases[tod])
	}
	if b.PopularityScore > 0.8 && p.Rating != nil && *p.Rating >= 4.5 {
		reasons = append(reasons, "highly rated by visitors")
	}
	if b.SeasonalRelevance > 0.8 {
		reasons = append(reasons, seasonPhrases[s])
	}

	if len(reasons) == 0 {
		return "An interesting " + strings.ToLower(string(p.Category)) + " stop along your route."
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return capitalize(joinReasons(reasons)) + "."
}

// joinReasons renders "a", "a and b" or "a, b, and c".
func joinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return ""
	case 1:
		return reasons[0]
	case 2:
		return reasons[0] + " and " + reasons[1]
	default:
		return strings.Join(reasons[:len(reasons)-1], ", ") + ", and " + reasons[len(reasons)-1]
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
