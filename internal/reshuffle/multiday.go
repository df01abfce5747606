package reshuffle

import (
	"fmt"
	"slices"
	"sort"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/geo"
)

// TripOutcome is the result of a mutation spanning several days. Found is
// false when a referenced day or slot does not exist.
type TripOutcome struct {
	Trip    domain.TripSchedule
	Changes []domain.ScheduleChange
	Found   bool
}

func unchangedTrip(trip domain.TripSchedule, found bool) TripOutcome {
	return TripOutcome{Trip: trip, Changes: []domain.ScheduleChange{}, Found: found}
}

// DeferredSlotID is the id a slot receives when it moves to another day.
func DeferredSlotID(dayIndex int, activityID string) string {
	return fmt.Sprintf("d%d-deferred-%s", dayIndex, activityID)
}

// appendSlot places s after the last slot of day, leaving room for the
// commute. It fails when the day has no room before the configured end.
func (m *Mutator) appendSlot(day domain.DaySchedule, s domain.ScheduledActivity) (domain.DaySchedule, domain.ScheduledActivity, bool) {
	start := m.cfg.Planner.DayStart
	if n := len(day.Slots); n > 0 {
		last := day.Slots[n-1]
		c := geo.Estimate(last.Activity.Location, s.Activity.Location, m.cfg.Planner.MaxWalkMinutes, m.cfg.Planner.CommutePreference)
		start = max(start, last.ScheduledEnd.Add(c.DurationMinutes))
	}
	if end := m.cfg.Planner.DayEnd; end > 0 && start.Add(s.ActualDuration) > end {
		return day, domain.ScheduledActivity{}, false
	}

	placed := s.Clone()
	placed.ID = DeferredSlotID(day.DayIndex, s.Activity.ID)
	for n := 2; day.SlotIndex(placed.ID) >= 0; n++ {
		placed.ID = fmt.Sprintf("%s-%d", DeferredSlotID(day.DayIndex, s.Activity.ID), n)
	}
	placed.SlotName = "deferred"
	placed.MealType = domain.MealNone
	placed.IsLocked = false
	placed.Reschedule(start)

	next := day.Clone()
	next.Slots = append(next.Slots, placed)
	return m.finalize(next), placed, true
}

// DeferActivityToDay moves an unlocked, deferrable slot to the end of
// another day. The source day keeps its other slots where they are.
func (m *Mutator) DeferActivityToDay(trip domain.TripSchedule, fromDay int, slotID string, toDay int) TripOutcome {
	if fromDay < 0 || fromDay >= len(trip.Days) || toDay < 0 || toDay >= len(trip.Days) {
		return unchangedTrip(trip, false)
	}
	idx := trip.Days[fromDay].SlotIndex(slotID)
	if idx < 0 {
		return unchangedTrip(trip, false)
	}
	s := trip.Days[fromDay].Slots[idx]
	if fromDay == toDay || !m.cfg.FlexibilityOf(s).CanDefer {
		return unchangedTrip(trip, true)
	}

	target, placed, ok := m.appendSlot(trip.Days[toDay], s)
	if !ok {
		return unchangedTrip(trip, true)
	}
	next := trip.Clone()
	source := next.Days[fromDay]
	source.Slots = slices.Delete(source.Slots, idx, idx+1)
	next.Days[fromDay] = m.finalize(source)
	next.Days[toDay] = target

	out := unchangedTrip(next, true)
	out.Changes = append(out.Changes, deferredChange(s, placed, trip.Days[toDay]))
	return out
}

func deferredChange(before, after domain.ScheduledActivity, target domain.DaySchedule) domain.ScheduleChange {
	c := change(domain.ChangeDeferred, &before, &after,
		fmt.Sprintf("%s moved to day %d at %s", before.Activity.Name, target.DayIndex+1, after.ScheduledStart))
	c.SlotID = before.ID
	return c
}

// BalanceDayWorkload moves activities off days holding more than the
// configured maximum. The most skippable deferrable activities go first,
// each to the nearest later day inside its defer window that still has
// room.
func (m *Mutator) BalanceDayWorkload(trip domain.TripSchedule) TripOutcome {
	out := unchangedTrip(trip, true)
	cur := trip
	limit := m.cfg.MaxActivitiesPerDay

	for d := range cur.Days {
		for len(cur.Days[d].Slots) > limit {
			moved := false
			for _, s := range m.deferCandidates(cur.Days[d]) {
				window := m.cfg.FlexibilityOf(s).DeferDays
				for t := d + 1; t < len(cur.Days) && t <= d+window; t++ {
					if len(cur.Days[t].Slots) >= limit {
						continue
					}
					res := m.DeferActivityToDay(cur, d, s.ID, t)
					if len(res.Changes) == 0 {
						continue
					}
					cur = res.Trip
					out.Changes = append(out.Changes, res.Changes...)
					moved = true
					break
				}
				if moved {
					break
				}
			}
			if !moved {
				break
			}
		}
	}
	out.Trip = cur
	return out
}

// deferCandidates orders a day's deferrable slots by skip priority, later
// slots first within the same priority.
func (m *Mutator) deferCandidates(day domain.DaySchedule) []domain.ScheduledActivity {
	var out []domain.ScheduledActivity
	for _, s := range day.Slots {
		if s.MealType == domain.MealNone && m.cfg.FlexibilityOf(s).CanDefer {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := m.cfg.FlexibilityOf(out[i]).SkipPriority, m.cfg.FlexibilityOf(out[j]).SkipPriority
		if pi != pj {
			return pi < pj
		}
		return out[i].ScheduledStart > out[j].ScheduledStart
	})
	return out
}

// EmergencyMultiDayReshuffle clears every unlocked slot on days
// fromDay..toDay and tries to place each cleared deferrable activity on a
// following day inside its defer window. Whatever does not fit is dropped.
func (m *Mutator) EmergencyMultiDayReshuffle(trip domain.TripSchedule, fromDay, toDay int) TripOutcome {
	if fromDay < 0 || toDay < fromDay || toDay >= len(trip.Days) {
		return unchangedTrip(trip, false)
	}

	next := trip.Clone()
	out := unchangedTrip(trip, true)

	type cleared struct {
		slot domain.ScheduledActivity
		day  int
	}
	var pending []cleared
	for d := fromDay; d <= toDay; d++ {
		day := next.Days[d]
		kept := make([]domain.ScheduledActivity, 0, len(day.Slots))
		for _, s := range day.Slots {
			if s.IsLocked {
				kept = append(kept, s)
				continue
			}
			pending = append(pending, cleared{slot: s, day: d})
		}
		day.Slots = kept
		next.Days[d] = m.finalize(day)
	}

	for _, c := range pending {
		placed := false
		if m.cfg.FlexibilityOf(c.slot).CanDefer && c.slot.MealType == domain.MealNone {
			window := m.cfg.FlexibilityOf(c.slot).DeferDays
			for t := toDay + 1; t < len(next.Days) && t <= c.day+window; t++ {
				if len(next.Days[t].Slots) >= m.cfg.MaxActivitiesPerDay {
					continue
				}
				target, p, ok := m.appendSlot(next.Days[t], c.slot)
				if !ok {
					continue
				}
				before := next.Days[t]
				next.Days[t] = target
				out.Changes = append(out.Changes, deferredChange(c.slot, p, before))
				placed = true
				break
			}
		}
		if !placed {
			out.Changes = append(out.Changes, change(domain.ChangeRemoved, &c.slot, nil,
				fmt.Sprintf("Cleared %s from day %d", c.slot.Activity.Name, trip.Days[c.day].DayIndex+1)))
		}
	}

	if len(out.Changes) > 0 {
		out.Trip = next
	}
	return out
}
