package reshuffle

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

// Outcome is the result of a single mutation. Found is false when the
// referenced slot does not exist; in that case, and whenever nothing could
// be changed, Day is the input schedule.
type Outcome struct {
	Day              domain.DaySchedule
	Changes          []domain.ScheduleChange
	TimeSavedMinutes int
	RemainingDelay   int
	Found            bool
}

func unchanged(day domain.DaySchedule, found bool) Outcome {
	return Outcome{Day: day, Changes: []domain.ScheduleChange{}, Found: found}
}

// Mutator implements the repair operations on a day. Locked slots are
// never moved, resized or removed by any of them.
type Mutator struct {
	cfg Config
}

func NewMutator(cfg Config) *Mutator {
	return &Mutator{cfg: cfg}
}

func (m *Mutator) finalize(day domain.DaySchedule) domain.DaySchedule {
	return scheduler.Finalize(day, m.cfg.Planner)
}

func change(typ domain.ChangeType, before, after *domain.ScheduledActivity, desc string) domain.ScheduleChange {
	c := domain.ScheduleChange{Type: typ, Description: desc}
	if before != nil {
		b := before.Clone()
		c.Before = &b
		c.SlotID = b.ID
	}
	if after != nil {
		a := after.Clone()
		c.After = &a
		c.SlotID = a.ID
	}
	return c
}

// shiftFrom moves slots[from:] by delta minutes, stopping at the first
// locked slot.
func shiftFrom(slots []domain.ScheduledActivity, from, delta int) []domain.ScheduleChange {
	var changes []domain.ScheduleChange
	if delta == 0 {
		return changes
	}
	for i := from; i < len(slots); i++ {
		if slots[i].IsLocked {
			break
		}
		before := slots[i]
		slots[i].Reschedule(before.ScheduledStart.Add(delta))
		changes = append(changes, change(domain.ChangeShifted, &before, &slots[i],
			fmt.Sprintf("%s moved from %s to %s", before.Activity.Name, before.ScheduledStart, slots[i].ScheduledStart)))
	}
	return changes
}

// CompressBuffer pushes the slots starting at or after from back by the
// delay, letting the idle time above the compress floor between
// activities absorb part of it. The walk ends at a locked slot, which
// stays put. RemainingDelay is what could not be absorbed.
func (m *Mutator) CompressBuffer(day domain.DaySchedule, delay int, from timeutil.Clock) Outcome {
	out := unchanged(day, true)
	out.RemainingDelay = max(delay, 0)
	if delay <= 0 {
		return out
	}

	next := day.Clone()
	remaining := delay
	first := true
	for i, orig := range day.Slots {
		if orig.ScheduledStart < from {
			continue
		}
		if !first {
			remaining, _ = absorb(remaining, slackBefore(day, i, from, false), m.cfg.CompressFloorMin)
		}
		first = false
		if remaining == 0 || orig.IsLocked {
			break
		}
		next.Slots[i].Reschedule(orig.ScheduledStart.Add(remaining))
		out.Changes = append(out.Changes, change(domain.ChangeShifted, &orig, &next.Slots[i],
			fmt.Sprintf("%s pushed back %d min to %s", orig.Activity.Name, remaining, next.Slots[i].ScheduledStart)))
	}

	out.RemainingDelay = remaining
	out.TimeSavedMinutes = delay - remaining
	if len(out.Changes) > 0 {
		out.Day = m.finalize(next)
	}
	return out
}

// ShortenActivity trims up to minutes from a slot, capped by the
// category's maximum shorten percentage, and pulls the following slots
// earlier by the amount actually applied.
func (m *Mutator) ShortenActivity(day domain.DaySchedule, slotID string, minutes int) Outcome {
	idx := day.SlotIndex(slotID)
	if idx < 0 {
		return unchanged(day, false)
	}
	s := day.Slots[idx]
	applied := min(minutes, m.cfg.maxShortenMinutes(s))
	if s.IsLocked || applied <= 0 {
		return unchanged(day, true)
	}

	next := day.Clone()
	next.Slots[idx].SetDuration(s.ActualDuration - applied)
	out := unchanged(day, true)
	out.Changes = append(out.Changes, change(domain.ChangeShortened, &s, &next.Slots[idx],
		fmt.Sprintf("%s shortened by %d min to %d min", s.Activity.Name, applied, next.Slots[idx].ActualDuration)))
	out.Changes = append(out.Changes, shiftFrom(next.Slots, idx+1, -applied)...)
	out.TimeSavedMinutes = applied
	out.Day = m.finalize(next)
	return out
}

// SkipActivity removes a slot and pulls the following slots earlier by its
// duration plus its inbound commute.
func (m *Mutator) SkipActivity(day domain.DaySchedule, slotID, reason string) Outcome {
	idx := day.SlotIndex(slotID)
	if idx < 0 {
		return unchanged(day, false)
	}
	s := day.Slots[idx]
	if s.IsLocked {
		return unchanged(day, true)
	}

	saved := s.ActualDuration + s.InboundCommuteMinutes()
	next := day.Clone()
	next.Slots = slices.Delete(next.Slots, idx, idx+1)

	desc := fmt.Sprintf("Skipped %s", s.Activity.Name)
	if reason != "" {
		desc += " (" + reason + ")"
	}
	out := unchanged(day, true)
	out.Changes = append(out.Changes, change(domain.ChangeSkipped, &s, nil, desc))
	out.Changes = append(out.Changes, shiftFrom(next.Slots, idx, -saved)...)
	out.TimeSavedMinutes = saved
	out.Day = m.finalize(next)
	return out
}

// FindBestActivityToSkip returns the unlocked, skippable slot starting at
// or after the given time with the lowest skip priority. Ties go to the
// slot that frees the most time, then to the earlier slot.
func (m *Mutator) FindBestActivityToSkip(day domain.DaySchedule, after timeutil.Clock) (string, bool) {
	return m.findSkip(day, after, timeutil.Clock(timeutil.MinutesPerDay+1))
}

func (m *Mutator) findSkip(day domain.DaySchedule, after, before timeutil.Clock) (string, bool) {
	best := -1
	var bestFlex domain.ActivityFlexibility
	var bestSaved int
	for i, s := range day.Slots {
		if s.ScheduledStart < after || s.ScheduledStart >= before || s.IsLocked {
			continue
		}
		flex := m.cfg.FlexibilityOf(s)
		if !flex.CanSkip {
			continue
		}
		saved := s.ActualDuration + s.InboundCommuteMinutes()
		if best == -1 ||
			flex.SkipPriority < bestFlex.SkipPriority ||
			(flex.SkipPriority == bestFlex.SkipPriority && saved > bestSaved) {
			best, bestFlex, bestSaved = i, flex, saved
		}
	}
	if best == -1 {
		return "", false
	}
	return day.Slots[best].ID, true
}

// SwapActivityOrder exchanges the activities of two slots. The time
// windows stay where they are.
func (m *Mutator) SwapActivityOrder(day domain.DaySchedule, slotID1, slotID2 string) Outcome {
	i, j := day.SlotIndex(slotID1), day.SlotIndex(slotID2)
	if i < 0 || j < 0 {
		return unchanged(day, false)
	}
	if i == j || day.Slots[i].IsLocked || day.Slots[j].IsLocked {
		return unchanged(day, true)
	}

	next := day.Clone()
	a, b := &next.Slots[i], &next.Slots[j]
	a.Activity, b.Activity = b.Activity, a.Activity
	a.Alternatives, b.Alternatives = b.Alternatives, a.Alternatives
	a.Note, b.Note = b.Note, a.Note

	before1, before2 := day.Slots[i], day.Slots[j]
	out := unchanged(day, true)
	out.Changes = []domain.ScheduleChange{
		change(domain.ChangeSwapped, &before1, a, fmt.Sprintf("%s now at %s", a.Activity.Name, a.ScheduledStart)),
		change(domain.ChangeSwapped, &before2, b, fmt.Sprintf("%s now at %s", b.Activity.Name, b.ScheduledStart)),
	}
	out.Day = m.finalize(next)
	return out
}

// EmergencyReroute keeps only the slots that have already ended by now or
// are locked, and clears the rest of the day.
func (m *Mutator) EmergencyReroute(day domain.DaySchedule, now timeutil.Clock) Outcome {
	out := unchanged(day, true)
	next := day.Clone()
	next.Slots = next.Slots[:0]
	for _, s := range day.Slots {
		if s.ScheduledEnd <= now || s.IsLocked {
			next.Slots = append(next.Slots, s.Clone())
			continue
		}
		out.Changes = append(out.Changes, change(domain.ChangeRemoved, &s, nil,
			fmt.Sprintf("Cleared %s at %s", s.Activity.Name, s.ScheduledStart)))
		out.TimeSavedMinutes += s.ActualDuration
	}
	if len(out.Changes) > 0 {
		out.Day = m.finalize(next)
	}
	return out
}

// ReplaceActivity fills a slot whose venue is unavailable with its best
// alternative that does not name the same venue. The replacement never
// outgrows the original window. Without a usable alternative the slot
// is skipped.
func (m *Mutator) ReplaceActivity(day domain.DaySchedule, slotID, venue string) Outcome {
	idx := day.SlotIndex(slotID)
	if idx < 0 {
		return unchanged(day, false)
	}
	s := day.Slots[idx]
	if s.IsLocked {
		return unchanged(day, true)
	}

	pick := -1
	for i, alt := range s.Alternatives {
		if !activityMatchesVenue(alt, venue) && alt.ID != s.Activity.ID {
			pick = i
			break
		}
	}
	if pick < 0 {
		return m.SkipActivity(day, slotID, "closed, no alternative")
	}

	next := day.Clone()
	r := &next.Slots[idx]
	replacement := s.Alternatives[pick].Clone()
	r.Activity = replacement
	r.Alternatives = slices.Delete(slices.Clone(r.Alternatives), pick, pick+1)
	if d := replacement.RecommendedDuration; d > 0 && d < s.ActualDuration {
		r.SetDuration(d)
	}

	out := unchanged(day, true)
	out.Changes = []domain.ScheduleChange{change(domain.ChangeReplaced, &s, r,
		fmt.Sprintf("%s replaced by %s at %s", s.Activity.Name, replacement.Name, r.ScheduledStart))}
	out.Day = m.finalize(next)
	return out
}
