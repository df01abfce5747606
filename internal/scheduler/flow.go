package scheduler

import (
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/geo"
)

// OptimizeFlow reorders the movable activities of a day to cut travel,
// using a greedy nearest-neighbour walk. Locked slots and meal slots are
// anchored. Activities inherit the original slot windows in sequence, so
// only the activity-to-window assignment changes. The pass is a no-op for
// days with two or fewer activities and for days that are either a single
// neighborhood or fully fragmented.
func OptimizeFlow(slots []domain.ScheduledActivity) []domain.ScheduledActivity {
	out := cloneSlots(slots)
	if len(out) <= 2 {
		return out
	}

	var movable []domain.ScheduledActivity
	neighborhoods := map[string]bool{}
	for _, s := range out {
		if isAnchored(s) {
			continue
		}
		movable = append(movable, s)
		neighborhoods[s.Activity.Neighborhood] = true
	}
	if len(movable) <= 2 || len(neighborhoods) <= 1 || len(neighborhoods) >= len(movable) {
		return out
	}

	used := make([]bool, len(movable))
	var last *domain.ScoredActivity
	for i := range out {
		if isAnchored(out[i]) {
			last = &out[i].Activity
			continue
		}
		pick := nextStop(movable, used, last)
		used[pick] = true
		out[i] = moveInto(out[i], movable[pick])
		last = &out[i].Activity
	}
	return out
}

func isAnchored(s domain.ScheduledActivity) bool {
	return s.IsLocked || s.MealType != domain.MealNone
}

// nextStop returns the index of the next unused movable activity. Same
// neighborhood as last wins; otherwise the nearest; ties go to pool order.
func nextStop(movable []domain.ScheduledActivity, used []bool, last *domain.ScoredActivity) int {
	if last == nil {
		for i := range movable {
			if !used[i] {
				return i
			}
		}
	}

	best, bestSame := -1, false
	var bestDist float64
	for i, m := range movable {
		if used[i] {
			continue
		}
		same := m.Activity.Neighborhood != "" && m.Activity.Neighborhood == last.Neighborhood
		d := geo.Haversine(last.Location, m.Activity.Location)
		switch {
		case best == -1,
			same && !bestSame,
			same == bestSame && d < bestDist:
			best, bestSame, bestDist = i, same, d
		}
	}
	return best
}

// moveInto places content's activity into window's time slot.
func moveInto(window, content domain.ScheduledActivity) domain.ScheduledActivity {
	moved := window
	moved.Activity = content.Activity.Clone()
	moved.Alternatives = content.Clone().Alternatives
	moved.Note = content.Note
	moved.ActualDuration = content.ActualDuration
	moved.CommuteFromPrevious = nil
	moved.Reschedule(window.ScheduledStart)
	return moved
}

func cloneSlots(slots []domain.ScheduledActivity) []domain.ScheduledActivity {
	out := make([]domain.ScheduledActivity, len(slots))
	for i, s := range slots {
		out[i] = s.Clone()
	}
	return out
}

// TotalDistance sums the great-circle legs between consecutive activities.
func TotalDistance(slots []domain.ScheduledActivity) float64 {
	var total float64
	for i := 1; i < len(slots); i++ {
		total += geo.Haversine(slots[i-1].Activity.Location, slots[i].Activity.Location)
	}
	return total
}
