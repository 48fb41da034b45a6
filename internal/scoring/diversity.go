package scoring

import "github.com/neexbeast/roadtrip-planner/internal/poi"

const (
	// MaxPerCategory caps how many POIs of one category survive selection.
	MaxPerCategory = 3
	// MaxResults caps the length of the selected list.
	MaxResults = 15
)

// Diversify walks a score-sorted list and keeps at most MaxPerCategory
// entries per category and MaxResults overall, preserving input order.
func Diversify(sorted []ScoredPOI) []ScoredPOI {
	counts := make(map[poi.Category]int)
	out := make([]ScoredPOI, 0, min(len(sorted), MaxResults))
	for _, s := range sorted {
		if len(out) >= MaxResults {
			break
		}
		if counts[s.Category] >= MaxPerCategory {
			continue
		}
		counts[s.Category]++
		out = append(out, s)
	}
	return out
}
