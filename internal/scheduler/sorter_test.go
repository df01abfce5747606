package scheduler

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func candidate(id string, score float64, poolIndex int) ScoredCandidate {
	return ScoredCandidate{
		Input: ScoringInput{Activity: testutil.NewTestActivity(id), PoolIndex: poolIndex},
		Score: score,
	}
}

func TestCanonicalSort_ScoreThenPoolOrder(t *testing.T) {
	cs := []ScoredCandidate{
		candidate("low", 10, 0),
		candidate("late-tie", 50, 3),
		candidate("high", 80, 4),
		candidate("early-tie", 50, 1),
	}

	CanonicalSort(cs)

	var got []string
	for _, c := range cs {
		got = append(got, c.Input.Activity.ID)
	}
	assert.Equal(t, []string{"high", "early-tie", "late-tie", "low"}, got)
}

func TestCanonicalSort_Deterministic(t *testing.T) {
	a := []ScoredCandidate{candidate("x", 5, 2), candidate("y", 5, 0), candidate("z", 5, 1)}
	b := []ScoredCandidate{candidate("z", 5, 1), candidate("x", 5, 2), candidate("y", 5, 0)}

	CanonicalSort(a)
	CanonicalSort(b)

	assert.Equal(t, a, b)
}
