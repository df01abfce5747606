package scheduler

import (
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/geo"
)

// recomputeCommutes rebuilds every inbound edge from the current adjacency.
// The first slot of a day has no inbound edge.
func recomputeCommutes(slots []domain.ScheduledActivity, cfg domain.PlannerConfig) {
	for i := range slots {
		if i == 0 {
			slots[i].CommuteFromPrevious = nil
			continue
		}
		c := geo.Estimate(slots[i-1].Activity.Location, slots[i].Activity.Location, cfg.MaxWalkMinutes, cfg.CommutePreference)
		slots[i].CommuteFromPrevious = &c
	}
}

// RecomputeCommutes returns a copy of slots with fresh commute edges.
func RecomputeCommutes(slots []domain.ScheduledActivity, cfg domain.PlannerConfig) []domain.ScheduledActivity {
	out := cloneSlots(slots)
	recomputeCommutes(out, cfg)
	return out
}
