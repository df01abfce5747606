package scheduler

import (
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

type TemplateName string

const (
	TemplateRelaxed   TemplateName = "relaxed"
	TemplateStandard  TemplateName = "standard"
	TemplatePacked    TemplateName = "packed"
	TemplateArrival   TemplateName = "arrival"
	TemplateDeparture TemplateName = "departure"
)

// ValidTemplates is the canonical set of named slot templates.
var ValidTemplates = map[TemplateName]bool{
	TemplateRelaxed: true, TemplateStandard: true, TemplatePacked: true,
	TemplateArrival: true, TemplateDeparture: true,
}

const (
	familyCutoff     = 21 * 60
	romanticEarliest = 10 * 60
)

func slot(name, start, end string, tod domain.TimeOfDay, meal domain.MealType, flexible bool) domain.TimeSlot {
	s := timeutil.MustClock(start)
	e := timeutil.MustClock(end)
	return domain.TimeSlot{
		Name:            name,
		StartTime:       s,
		EndTime:         e,
		DurationMinutes: e.Sub(s),
		TimeOfDay:       tod,
		MealType:        meal,
		IsFlexible:      flexible,
		IsRequired:      meal != domain.MealNone,
	}
}

// TemplateSlots returns a fresh copy of the named template's slots.
// Unknown names return nil.
func TemplateSlots(name TemplateName) []domain.TimeSlot {
	switch name {
	case TemplateRelaxed:
		return []domain.TimeSlot{
			slot("breakfast", "08:30", "09:30", domain.TimeMorning, domain.MealBreakfast, true),
			slot("morning", "10:00", "12:30", domain.TimeMorning, domain.MealNone, true),
			slot("lunch", "13:00", "14:30", domain.TimeAfternoon, domain.MealLunch, true),
			slot("afternoon", "15:00", "17:30", domain.TimeAfternoon, domain.MealNone, true),
			slot("dinner", "19:30", "21:00", domain.TimeEvening, domain.MealDinner, true),
		}
	case TemplateStandard:
		return []domain.TimeSlot{
			slot("breakfast", "08:00", "09:00", domain.TimeMorning, domain.MealBreakfast, true),
			slot("morning", "09:30", "12:00", domain.TimeMorning, domain.MealNone, false),
			slot("lunch", "12:30", "13:30", domain.TimeAfternoon, domain.MealLunch, true),
			slot("afternoon", "14:00", "17:00", domain.TimeAfternoon, domain.MealNone, false),
			slot("dinner", "19:00", "20:30", domain.TimeEvening, domain.MealDinner, true),
			slot("evening", "21:00", "22:30", domain.TimeNight, domain.MealNone, true),
		}
	case TemplatePacked:
		return []domain.TimeSlot{
			slot("breakfast", "07:30", "08:15", domain.TimeMorning, domain.MealBreakfast, false),
			slot("early_morning", "08:30", "10:30", domain.TimeMorning, domain.MealNone, false),
			slot("late_morning", "10:45", "12:30", domain.TimeMorning, domain.MealNone, false),
			slot("lunch", "12:45", "13:45", domain.TimeAfternoon, domain.MealLunch, false),
			slot("afternoon", "14:00", "16:00", domain.TimeAfternoon, domain.MealNone, false),
			slot("late_afternoon", "16:15", "18:15", domain.TimeAfternoon, domain.MealNone, false),
			slot("dinner", "19:00", "20:30", domain.TimeEvening, domain.MealDinner, false),
			slot("evening", "21:00", "23:00", domain.TimeNight, domain.MealNone, true),
		}
	case TemplateArrival:
		return []domain.TimeSlot{
			slot("afternoon", "15:00", "17:30", domain.TimeAfternoon, domain.MealNone, true),
			slot("dinner", "19:00", "20:30", domain.TimeEvening, domain.MealDinner, true),
			slot("evening", "21:00", "22:00", domain.TimeNight, domain.MealNone, true),
		}
	case TemplateDeparture:
		return []domain.TimeSlot{
			slot("breakfast", "08:00", "09:00", domain.TimeMorning, domain.MealBreakfast, true),
			slot("morning", "09:30", "11:30", domain.TimeMorning, domain.MealNone, true),
			slot("lunch", "12:00", "13:00", domain.TimeAfternoon, domain.MealLunch, true),
		}
	}
	return nil
}

// SlotRequest carries what the selector needs from the planner config.
type SlotRequest struct {
	Pace     domain.PaceMode
	DayType  domain.DayType
	DayStart timeutil.Clock
	DayEnd   timeutil.Clock
	TripMode domain.TripMode
}

// TemplateFor maps a day type and pace to a template name.
// Travel days have no template.
func TemplateFor(dayType domain.DayType, pace domain.PaceMode) (TemplateName, bool) {
	switch dayType {
	case domain.DayTravel:
		return "", false
	case domain.DayArrival:
		return TemplateArrival, true
	case domain.DayDeparture:
		return TemplateDeparture, true
	}
	switch pace {
	case domain.PaceRelaxed:
		return TemplateRelaxed, true
	case domain.PaceAmbitious:
		return TemplatePacked, true
	default:
		return TemplateStandard, true
	}
}

// SelectSlots returns the ordered slots for a day. It never fails; a travel
// day or a narrow day window yields an empty list.
func SelectSlots(req SlotRequest) []domain.TimeSlot {
	name, ok := TemplateFor(req.DayType, req.Pace)
	if !ok {
		return []domain.TimeSlot{}
	}
	return AdjustSlots(TemplateSlots(name), req)
}

// AdjustSlots clips slots to the day window and applies trip-mode rules.
func AdjustSlots(slots []domain.TimeSlot, req SlotRequest) []domain.TimeSlot {
	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.StartTime < req.DayStart || (req.DayEnd > 0 && s.EndTime > req.DayEnd) {
			continue
		}
		out = append(out, s)
	}

	switch {
	case req.TripMode.IsFamilyStyle():
		kept := out[:0]
		for _, s := range out {
			if s.EndTime <= familyCutoff {
				kept = append(kept, s)
			}
		}
		out = kept
	case req.TripMode.IsRomantic():
		kept := out[:0]
		for _, s := range out {
			if s.StartTime >= romanticEarliest {
				kept = append(kept, s)
			}
		}
		out = kept
		if n := len(out); n > 0 && isEveningSlot(out[n-1]) {
			out = out[:n-1]
		}
	}
	return out
}

func isEveningSlot(s domain.TimeSlot) bool {
	return s.TimeOfDay == domain.TimeEvening || s.TimeOfDay == domain.TimeNight
}
