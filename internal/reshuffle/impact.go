package reshuffle

import (
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

// DayOverDelay is the delay that stands for "nothing more happens today".
const DayOverDelay = 999

const maxImpactSeverity = 100

// ResolveDelay returns the delay a trigger implies. An explicit minute
// count wins over the traveler state.
func ResolveDelay(ctx domain.TriggerContext) int {
	if ctx.DelayMinutes > 0 {
		return ctx.DelayMinutes
	}
	switch ctx.UserState {
	case domain.StateNeedBreak:
		return 30
	case domain.StateSlightTired:
		return 15
	case domain.StateVeryTired:
		return 45
	case domain.StateDoneForDay, domain.StateSick:
		return DayOverDelay
	case domain.StateNone, domain.StateEnergized, domain.StateEarly, domain.StateRunningLate:
		return 0
	}
	return 0
}

func endsDay(state domain.UserState) bool {
	return state == domain.StateDoneForDay || state == domain.StateSick
}

func isProtected(s domain.ScheduledActivity) bool {
	return s.IsLocked || s.Activity.HasFirmBooking()
}

// slackBefore is the idle time in front of slot i. For the first slot the
// trigger touches it is measured from whichever is later, now or the
// arrival from the previous activity.
func slackBefore(day domain.DaySchedule, i int, now timeutil.Clock, firstAffected bool) int {
	s := day.Slots[i]
	ref := now
	if i > 0 {
		arrival := day.Slots[i-1].ScheduledEnd.Add(s.InboundCommuteMinutes())
		if !firstAffected || arrival > ref {
			ref = arrival
		}
	}
	return s.ScheduledStart.Sub(ref)
}

// absorb reduces delay by the slack above floor.
func absorb(delay, slack, floor int) (remaining, absorbed int) {
	spare := slack - floor
	if spare <= 0 || delay <= 0 {
		return delay, 0
	}
	absorbed = min(spare, delay)
	return delay - absorbed, absorbed
}

// closureTarget picks the slot a closure refers to: the first affected
// slot naming the venue, or the next affected slot when no venue is known.
func closureTarget(trigger domain.TriggerEvent, day domain.DaySchedule) string {
	if trigger.Type != domain.TriggerClosure {
		return ""
	}
	affected := idSet(trigger.AffectedSlotIDs)
	for _, s := range day.Slots {
		if !affected[s.ID] {
			continue
		}
		if trigger.Context.Venue == "" || MatchesVenue(s, trigger.Context.Venue) {
			return s.ID
		}
	}
	return ""
}

func classifyBooking(buffer, minBuffer int) domain.BookingRisk {
	switch {
	case buffer < 0:
		return domain.BookingWillMiss
	case buffer < minBuffer:
		return domain.BookingAtRisk
	case buffer < 2*minBuffer:
		return domain.BookingTight
	default:
		return domain.BookingSafe
	}
}

// Analyze walks the affected slots carrying the cumulative delay. Idle
// time above the absorb floor between activities soaks part of it up.
func Analyze(trigger domain.TriggerEvent, day domain.DaySchedule, cfg Config) domain.ImpactAnalysis {
	delay := ResolveDelay(trigger.Context)
	now := trigger.Context.CurrentTime
	affected := idSet(trigger.AffectedSlotIDs)
	closed := closureTarget(trigger, day)
	dayOver := endsDay(trigger.Context.UserState)

	out := domain.ImpactAnalysis{
		TriggerID:          trigger.ID,
		AffectedActivities: []domain.AffectedActivity{},
		BookingsAtRisk:     []domain.AtRiskBooking{},
		TotalDelayMinutes:  delay,
	}

	cumulative := delay
	first := true
	for i, s := range day.Slots {
		if !affected[s.ID] {
			continue
		}
		slack := slackBefore(day, i, now, first)
		incoming := cumulative
		if !first {
			cumulative, _ = absorb(cumulative, slack, cfg.AbsorbFloorMin)
		}
		first = false

		if isProtected(s) {
			buffer := slack - incoming
			out.BookingsAtRisk = append(out.BookingsAtRisk, domain.AtRiskBooking{
				SlotID:        s.ID,
				Risk:          classifyBooking(buffer, cfg.MinBookingBufferMin),
				BufferMinutes: buffer,
			})
		}

		impossible := dayOver || s.ID == closed
		if cumulative <= 0 && !impossible {
			continue
		}
		a := domain.AffectedActivity{
			SlotID:          s.ID,
			ImpactType:      domain.ImpactDelayed,
			Severity:        min(maxImpactSeverity, cumulative),
			CumulativeDelay: cumulative,
			RecoveryOptions: recoveryOptions(s, cumulative, cfg),
		}
		if impossible {
			a.ImpactType = domain.ImpactImpossible
			a.Severity = maxImpactSeverity
		}
		out.AffectedActivities = append(out.AffectedActivities, a)
	}

	n := len(out.AffectedActivities)
	switch {
	case delay >= DayOverDelay:
		out.CascadeEffect = domain.CascadeMultiDay
	case n <= 1:
		out.CascadeEffect = domain.CascadeIsolated
	case n <= 3:
		out.CascadeEffect = domain.CascadePartial
	default:
		out.CascadeEffect = domain.CascadeRestOfDay
	}

	endangered := out.HasEndangeredBooking()
	switch {
	case endangered:
		out.Urgency = domain.UrgencyImmediate
	case delay > 30:
		out.Urgency = domain.UrgencyWithinHour
	default:
		out.Urgency = domain.UrgencyToday
	}
	out.CanAutoResolve = delay <= cfg.SilentBufferMin && !endangered
	return out
}

func recoveryOptions(s domain.ScheduledActivity, needed int, cfg Config) []domain.RecoveryOption {
	flex := cfg.FlexibilityOf(s)
	var opts []domain.RecoveryOption
	if flex.CanShorten && needed > 0 && needed <= cfg.maxShortenMinutes(s) {
		opts = append(opts, domain.RecoveryOption{Action: domain.RecoveryShorten, TimeSavedMinutes: needed})
	}
	if flex.CanSkip {
		opts = append(opts, domain.RecoveryOption{Action: domain.RecoverySkip, TimeSavedMinutes: s.ActualDuration + s.InboundCommuteMinutes()})
	}
	return opts
}

func idSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
