package scoring_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
	"github.com/neexbeast/roadtrip-planner/internal/scoring"
)

func scored(id string, c poi.Category, score float64) scoring.ScoredPOI {
	return scoring.ScoredPOI{POI: basePOI(id, c), AIScore: score}
}

func TestDiversify_SameCategoryKeepsTopThree(t *testing.T) {
	in := make([]scoring.ScoredPOI, 0, 20)
	for i := range 20 {
		in = append(in, scored(fmt.Sprintf("p%02d", i), poi.Museums, 1-float64(i)*0.01))
	}

	out := scoring.Diversify(in)
	require.Len(t, out, scoring.MaxPerCategory)
	assert.Equal(t, "p00", out[0].ID)
	assert.Equal(t, "p01", out[1].ID)
	assert.Equal(t, "p02", out[2].ID)
}

func TestDiversify_CapsTotal(t *testing.T) {
	var in []scoring.ScoredPOI
	for i := range 60 {
		c := poi.Categories[i%len(poi.Categories)]
		in = append(in, scored(fmt.Sprintf("p%02d", i), c, 1-float64(i)*0.01))
	}

	out := scoring.Diversify(in)
	assert.Len(t, out, scoring.MaxResults)

	counts := map[poi.Category]int{}
	for i, s := range out {
		counts[s.Category]++
		assert.LessOrEqual(t, counts[s.Category], scoring.MaxPerCategory)
		if i > 0 {
			assert.GreaterOrEqual(t, out[i-1].AIScore, s.AIScore)
		}
	}
}

func TestDiversify_SkipsOverflowAndKeepsOrder(t *testing.T) {
	in := []scoring.ScoredPOI{
		scored("a", poi.Parks, 0.9),
		scored("b", poi.Parks, 0.8),
		scored("c", poi.Parks, 0.7),
		scored("d", poi.Parks, 0.6),
		scored("e", poi.Museums, 0.5),
	}

	out := scoring.Diversify(in)
	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "e"}, ids)
}

func TestDiversify_Empty(t *testing.T) {
	assert.Empty(t, scoring.Diversify(nil))
}
