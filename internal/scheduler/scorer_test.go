package scheduler

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasReason(reasons []ScoreReason, code ScoreReasonCode) bool {
	for _, r := range reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

func TestRescore_BaseScoreOnly(t *testing.T) {
	c := RescoreActivity(ScoringInput{
		Activity: testutil.NewTestActivity("a", testutil.WithScore(42)),
		Weights:  defaultWeights(),
	})

	assert.Equal(t, 42.0, c.Score)
	require.Len(t, c.Reasons, 1)
	assert.Equal(t, ReasonBaseScore, c.Reasons[0].Code)
}

func TestRescore_SameNeighborhoodBonus(t *testing.T) {
	c := RescoreActivity(ScoringInput{
		Activity:         testutil.NewTestActivity("a", testutil.WithScore(40), testutil.WithNeighborhood("marais")),
		PrevNeighborhood: "marais",
		Weights:          defaultWeights(),
	})

	assert.Equal(t, 50.0, c.Score)
	assert.True(t, hasReason(c.Reasons, ReasonSameNeighborhood))
}

func TestRescore_CategoryRepeatPenalty(t *testing.T) {
	c := RescoreActivity(ScoringInput{
		Activity:       testutil.NewTestActivity("a", testutil.WithScore(40), testutil.WithCategory("museum")),
		UsedCategories: map[string]bool{"museum": true},
		Weights:        defaultWeights(),
	})

	assert.Equal(t, 35.0, c.Score)
	assert.True(t, hasReason(c.Reasons, ReasonCategoryRepeat))
}

func TestRescore_FactorsCombine(t *testing.T) {
	c := RescoreActivity(ScoringInput{
		Activity:         testutil.NewTestActivity("a", testutil.WithScore(40), testutil.WithNeighborhood("marais")),
		PrevNeighborhood: "marais",
		UsedCategories:   map[string]bool{"museum": true},
		Weights:          defaultWeights(),
	})

	assert.Equal(t, 45.0, c.Score)
	assert.Len(t, c.Reasons, 3)
}

func TestRescore_EmptyNeighborhoodNeverMatches(t *testing.T) {
	c := RescoreActivity(ScoringInput{
		Activity: testutil.NewTestActivity("a", testutil.WithScore(40), testutil.WithNeighborhood("")),
		Weights:  defaultWeights(),
	})

	assert.Equal(t, 40.0, c.Score)
}
