// Package scoring ranks POIs for a traveller by combining weather, preference,
// time-of-day, season, popularity and accessibility signals.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
	"github.com/neexbeast/roadtrip-planner/internal/weather"
)

// Breakdown holds the six sub-scores, each in [0, 1].
type Breakdown struct {
	WeatherSuitability float64 `json:"weatherSuitability"`
	PreferenceMatch    float64 `json:"preferenceMatch"`
	TimeRelevance      float64 `json:"timeRelevance"`
	SeasonalRelevance  float64 `json:"seasonalRelevance"`
	PopularityScore    float64 `json:"popularityScore"`
	AccessibilityScore float64 `json:"accessibilityScore"`
}

// Weights assigns each sub-score its share of the aggregate.
type Weights Breakdown

// DefaultWeights sum to 1.0.
var DefaultWeights = Weights{
	WeatherSuitability: 0.25,
	PreferenceMatch:    0.30,
	TimeRelevance:      0.15,
	SeasonalRelevance:  0.10,
	PopularityScore:    0.15,
	AccessibilityScore: 0.05,
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.WeatherSuitability + w.PreferenceMatch + w.TimeRelevance +
		w.SeasonalRelevance + w.PopularityScore + w.AccessibilityScore
}

// ScoredPOI is a POI with its aggregate score, breakdown and a generated
// recommendation sentence.
type ScoredPOI struct {
	poi.POI
	AIScore        float64   `json:"aiScore"`
	Breakdown      Breakdown `json:"scoreBreakdown"`
	Recommendation string    `json:"aiRecommendation"`
}

// Engine scores POIs with a fixed set of weights.
type Engine struct {
	weights Weights
}

// NewEngine returns an Engine using DefaultWeights.
func NewEngine() *Engine {
	return &Engine{weights: DefaultWeights}
}

// Score computes the breakdown, aggregate and recommendation for one POI.
// at is the moment the visit is considered for (time of day and season).
func (e *Engine) Score(p poi.POI, preferences []string, at time.Time) ScoredPOI {
	tod := timeOfDayAt(at)
	season := seasonAt(at)

	b := Breakdown{
		WeatherSuitability: weatherScore(p),
		PreferenceMatch:    preferenceScore(p, preferences),
		TimeRelevance:      lookup(timeAffinity[tod], p.Category, 0.5),
		SeasonalRelevance:  lookup(seasonAffinity[season], p.Category, 0.7),
		PopularityScore:    popularityScore(p),
		AccessibilityScore: accessibilityScore(p),
	}

	w := e.weights
	total := b.WeatherSuitability*w.WeatherSuitability +
		b.PreferenceMatch*w.PreferenceMatch +
		b.TimeRelevance*w.TimeRelevance +
		b.SeasonalRelevance*w.SeasonalRelevance +
		b.PopularityScore*w.PopularityScore +
		b.AccessibilityScore*w.AccessibilityScore

	return ScoredPOI{
		POI:            p,
		AIScore:        math.Round(clamp01(total)*100) / 100,
		Breakdown:      b,
		Recommendation: recommend(p, b, tod, season),
	}
}

// Rank scores every POI and sorts by descending aggregate score. Equal
// scores keep their input order.
func (e *Engine) Rank(pois []poi.POI, preferences []string, at time.Time) []ScoredPOI {
	out := make([]ScoredPOI, 0, len(pois))
	for _, p := range pois {
		out = append(out, e.Score(p, preferences, at))
	}
	SortByScore(out)
	return out
}

// SortByScore sorts in place by descending AIScore, keeping the relative
// order of ties.
func SortByScore(scored []ScoredPOI) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].AIScore > scored[j].AIScore
	})
}

func weatherScore(p poi.POI) float64 {
	if p.Weather == nil {
		return 0.7
	}
	s := weatherSensitivity(p.Category)
	return clamp01(s*weather.Suitability(*p.Weather) + (1-s)*0.8)
}

func preferenceScore(p poi.POI, preferences []string) float64 {
	var tags []string
	for _, t := range preferences {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return 0.6
	}

	category := strings.ToLower(string(p.Category))
	text := strings.ToLower(p.Name + " " + p.Description)

	var sum float64
	for _, tag := range tags {
		switch {
		case category != "" && (strings.Contains(category, tag) || strings.Contains(tag, category)):
			sum += 1.0
		case conceptMatches(tag, p.Category):
			sum += 0.7
		case strings.Contains(text, tag):
			sum += 0.5
		}
	}
	return math.Min(1, sum/float64(len(tags)))
}

func popularityScore(p poi.POI) float64 {
	rating := 0.3
	if p.Rating != nil {
		rating = 0.6 * (*p.Rating / 5)
	}

	price := 0.14
	if p.PriceLevel != nil {
		if *p.PriceLevel == 2 || *p.PriceLevel == 3 {
			price = 0.2
		} else {
			price = 0.2 * 0.7
		}
	}

	var completeness float64
	if p.Website != "" {
		completeness += 0.3
	}
	if p.Phone != "" {
		completeness += 0.3
	}
	if len(p.Photos) > 1 {
		completeness += 0.2
	}
	if len(p.OpeningHours) > 0 {
		completeness += 0.2
	}

	return clamp01(rating + price + 0.2*math.Min(1, completeness))
}

func accessibilityScore(p poi.POI) float64 {
	score := 0.7 - math.Min(0.3, p.DistanceFromRoute/10)
	if p.Phone != "" {
		score += 0.1
	}
	if p.Website != "" {
		score += 0.1
	}
	if len(p.OpeningHours) > 0 {
		score += 0.1
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
