package scheduler

import (
	"slices"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Explicit user edits. Each returns a new, re-validated day and whether the
// referenced slot existed; an unknown slot leaves the day unchanged.

func (b *Builder) Lock(day domain.DaySchedule, slotID string) (domain.DaySchedule, bool) {
	return b.setLocked(day, slotID, true)
}

func (b *Builder) Unlock(day domain.DaySchedule, slotID string) (domain.DaySchedule, bool) {
	return b.setLocked(day, slotID, false)
}

func (b *Builder) setLocked(day domain.DaySchedule, slotID string, locked bool) (domain.DaySchedule, bool) {
	idx := day.SlotIndex(slotID)
	if idx < 0 {
		return day, false
	}
	out := day.Clone()
	out.Slots[idx].IsLocked = locked
	return b.Finalize(out), true
}

// Remove drops a slot without moving the rest of the day.
func (b *Builder) Remove(day domain.DaySchedule, slotID string) (domain.DaySchedule, bool) {
	idx := day.SlotIndex(slotID)
	if idx < 0 {
		return day, false
	}
	out := day.Clone()
	out.Slots = slices.Delete(out.Slots, idx, idx+1)
	return b.Finalize(out), true
}

// SwapActivity puts replacement into the slot, keeping its start time. The
// displaced activity becomes the first alternative. Locked slots may be
// swapped because this is an explicit edit.
func (b *Builder) SwapActivity(day domain.DaySchedule, slotID string, replacement domain.ScoredActivity) (domain.DaySchedule, bool) {
	idx := day.SlotIndex(slotID)
	if idx < 0 {
		return day, false
	}
	out := day.Clone()
	s := &out.Slots[idx]
	displaced := s.Activity

	alts := []domain.ScoredActivity{displaced}
	for _, a := range s.Alternatives {
		if a.ID != replacement.ID {
			alts = append(alts, a)
		}
	}
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}

	s.Activity = replacement.Clone()
	s.Alternatives = alts
	if replacement.RecommendedDuration > 0 {
		s.SetDuration(replacement.RecommendedDuration)
	}
	return b.Finalize(out), true
}

// SwapWithAlternative promotes the slot's n-th alternative.
func (b *Builder) SwapWithAlternative(day domain.DaySchedule, slotID string, n int) (domain.DaySchedule, bool) {
	idx := day.SlotIndex(slotID)
	if idx < 0 || n < 0 || n >= len(day.Slots[idx].Alternatives) {
		return day, false
	}
	return b.SwapActivity(day, slotID, day.Slots[idx].Alternatives[n])
}

// ApplyTemplate rebuilds the day from a named template. Locked slots are
// kept as they are and template slots overlapping them are dropped.
// It returns the rebuilt day and the unused candidates.
func (b *Builder) ApplyTemplate(day domain.DaySchedule, name TemplateName, candidates []domain.ScoredActivity) (domain.DaySchedule, []domain.ScoredActivity, bool) {
	if !ValidTemplates[name] {
		return day, candidates, false
	}

	var locked []domain.ScheduledActivity
	lockedIDs := map[string]bool{}
	for _, s := range day.Slots {
		if s.IsLocked {
			locked = append(locked, s.Clone())
			lockedIDs[s.Activity.ID] = true
		}
	}

	templ := AdjustSlots(TemplateSlots(name), SlotRequest{
		Pace:     b.cfg.Pace,
		DayType:  day.DayType,
		DayStart: b.cfg.DayStart,
		DayEnd:   b.cfg.DayEnd,
		TripMode: b.cfg.TripMode,
	})
	free := make([]domain.TimeSlot, 0, len(templ))
	for _, ts := range templ {
		if !overlapsAny(ts, locked) {
			free = append(free, ts)
		}
	}

	pool := make([]domain.ScoredActivity, 0, len(candidates))
	for _, c := range candidates {
		if !lockedIDs[c.ID] {
			pool = append(pool, c)
		}
	}

	alloc := AllocateActivities(free, pool, "")
	taken := map[string]bool{}
	for _, s := range locked {
		taken[s.ID] = true
	}
	slots := locked
	for _, s := range scheduleAssignments(day.DayIndex, alloc.Assignments) {
		if taken[s.ID] {
			s.ID += "-" + string(name)
		}
		taken[s.ID] = true
		slots = append(slots, s)
	}
	slices.SortStableFunc(slots, func(a, b domain.ScheduledActivity) int {
		return a.ScheduledStart.Sub(b.ScheduledStart)
	})

	out := day.Clone()
	out.Slots = OptimizeFlow(slots)
	return b.Finalize(out), alloc.Remaining, true
}

func overlapsAny(ts domain.TimeSlot, slots []domain.ScheduledActivity) bool {
	for _, s := range slots {
		if ts.StartTime < s.ScheduledEnd && s.ScheduledStart < ts.EndTime {
			return true
		}
	}
	return false
}
