package scheduler

import (
	"github.com/alexanderramin/itinera/internal/domain"
)

type ScoreReasonCode string

const (
	ReasonBaseScore        ScoreReasonCode = "BASE_SCORE"
	ReasonSameNeighborhood ScoreReasonCode = "SAME_NEIGHBORHOOD"
	ReasonCategoryRepeat   ScoreReasonCode = "CATEGORY_REPEAT"
)

type ScoreReason struct {
	Code        ScoreReasonCode
	Message     string
	WeightDelta float64
}

type ScoringWeights struct {
	NeighborhoodBonus float64
	CategoryPenalty   float64
}

func defaultWeights() ScoringWeights {
	return ScoringWeights{
		NeighborhoodBonus: 10,
		CategoryPenalty:   5,
	}
}

type ScoringInput struct {
	Activity         domain.ScoredActivity
	PoolIndex        int
	PrevNeighborhood string
	UsedCategories   map[string]bool
	Weights          ScoringWeights
}

type ScoredCandidate struct {
	Input   ScoringInput
	Score   float64
	Reasons []ScoreReason
}

// RescoreActivity adjusts an upstream score for the slot being filled.
func RescoreActivity(input ScoringInput) ScoredCandidate {
	result := ScoredCandidate{
		Input: input,
		Score: input.Activity.Score,
		Reasons: []ScoreReason{{
			Code:        ReasonBaseScore,
			Message:     "Upstream desirability",
			WeightDelta: input.Activity.Score,
		}},
	}

	factors := []func(ScoringInput) (float64, *ScoreReason){
		scoreNeighborhood,
		scoreCategoryRepeat,
	}
	for _, f := range factors {
		delta, reason := f(input)
		result.Score += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}
	return result
}

func scoreNeighborhood(input ScoringInput) (float64, *ScoreReason) {
	if input.PrevNeighborhood == "" || input.Activity.Neighborhood != input.PrevNeighborhood {
		return 0, nil
	}
	delta := input.Weights.NeighborhoodBonus
	return delta, &ScoreReason{
		Code:        ReasonSameNeighborhood,
		Message:     "Same neighborhood as the previous stop",
		WeightDelta: delta,
	}
}

func scoreCategoryRepeat(input ScoringInput) (float64, *ScoreReason) {
	if input.Activity.Category == "" || !input.UsedCategories[input.Activity.Category] {
		return 0, nil
	}
	delta := -input.Weights.CategoryPenalty
	return delta, &ScoreReason{
		Code:        ReasonCategoryRepeat,
		Message:     "Category already covered today",
		WeightDelta: delta,
	}
}
