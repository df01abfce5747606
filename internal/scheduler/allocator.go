package scheduler

import (
	"maps"

	"github.com/alexanderramin/itinera/internal/domain"
)

const (
	durationOverflowMin = 30
	maxAlternatives     = 3
)

// Assignment is the outcome of filling one slot. Activity is nil when no
// candidate survived filtering.
type Assignment struct {
	Slot         domain.TimeSlot
	Activity     *domain.ScoredActivity
	Score        float64
	Reasons      []ScoreReason
	Alternatives []domain.ScoredActivity
}

type Allocation struct {
	Assignments []Assignment
	Remaining   []domain.ScoredActivity
}

// allocationState is threaded through the fold over slots. Each step
// returns a new state; the previous one is never modified.
type allocationState struct {
	usedIDs          map[string]bool
	usedCategories   map[string]bool
	prevNeighborhood string
}

func newAllocationState(prevNeighborhood string) allocationState {
	return allocationState{
		usedIDs:          map[string]bool{},
		usedCategories:   map[string]bool{},
		prevNeighborhood: prevNeighborhood,
	}
}

func (s allocationState) use(a domain.ScoredActivity) allocationState {
	next := allocationState{
		usedIDs:          maps.Clone(s.usedIDs),
		usedCategories:   maps.Clone(s.usedCategories),
		prevNeighborhood: a.Neighborhood,
	}
	next.usedIDs[a.ID] = true
	if a.Category != "" {
		next.usedCategories[a.Category] = true
	}
	return next
}

// AllocateActivities fills each slot, in template order, with the best
// unused candidate. It is a pure function of its inputs.
func AllocateActivities(slots []domain.TimeSlot, pool []domain.ScoredActivity, prevNeighborhood string) Allocation {
	state := newAllocationState(prevNeighborhood)
	weights := defaultWeights()
	assignments := make([]Assignment, 0, len(slots))

	for _, s := range slots {
		var a Assignment
		a, state = allocateSlot(s, pool, state, weights)
		assignments = append(assignments, a)
	}

	remaining := make([]domain.ScoredActivity, 0, len(pool))
	for _, c := range pool {
		if !state.usedIDs[c.ID] {
			remaining = append(remaining, c.Clone())
		}
	}
	return Allocation{Assignments: assignments, Remaining: remaining}
}

func allocateSlot(s domain.TimeSlot, pool []domain.ScoredActivity, state allocationState, weights ScoringWeights) (Assignment, allocationState) {
	var candidates []ScoredCandidate
	for i, c := range pool {
		if state.usedIDs[c.ID] || !eligibleForSlot(s, c) {
			continue
		}
		candidates = append(candidates, RescoreActivity(ScoringInput{
			Activity:         c,
			PoolIndex:        i,
			PrevNeighborhood: state.prevNeighborhood,
			UsedCategories:   state.usedCategories,
			Weights:          weights,
		}))
	}

	assignment := Assignment{Slot: s}
	if len(candidates) == 0 {
		return assignment, state
	}

	CanonicalSort(candidates)
	best := candidates[0].Input.Activity.Clone()
	assignment.Activity = &best
	assignment.Score = candidates[0].Score
	assignment.Reasons = candidates[0].Reasons
	for _, alt := range candidates[1:] {
		if len(assignment.Alternatives) == maxAlternatives {
			break
		}
		assignment.Alternatives = append(assignment.Alternatives, alt.Input.Activity.Clone())
	}
	return assignment, state.use(best)
}

func eligibleForSlot(s domain.TimeSlot, a domain.ScoredActivity) bool {
	if s.MealType != domain.MealNone {
		if !a.ServesMeal(s.MealType) {
			return false
		}
	} else if a.IsRestaurant {
		return false
	}
	if !a.FitsTimeOfDay(s.TimeOfDay) {
		return false
	}
	return a.RecommendedDuration <= s.DurationMinutes+durationOverflowMin
}
