package scheduler

import (
	"fmt"
	"math"

	"github.com/alexanderramin/itinera/internal/domain"
)

const (
	rushBufferMin      = 10
	longCommuteMin     = 45
	relaxedMaxActivity = 360
	lateNightCutoff    = 21 * 60
	paceFullDayMin     = 600.0
	paceCommutePenalty = 20.0
	paceCommuteFullMin = 120.0
	neutralPaceScore   = 50
)

// Validate scans a finalized day and returns advisory warnings.
func Validate(day domain.DaySchedule, cfg domain.PlannerConfig) []domain.ScheduleWarning {
	warnings := []domain.ScheduleWarning{}
	slots := day.Slots

	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		commute := cur.InboundCommuteMinutes()
		arrival := prev.ScheduledEnd.Add(commute)
		buffer := cur.ScheduledStart.Sub(arrival)

		switch {
		case buffer < 0:
			warnings = append(warnings, domain.ScheduleWarning{
				Type:          domain.WarnOverlap,
				Severity:      domain.SeverityWarning,
				Message:       fmt.Sprintf("%s runs %d min into %s (including %d min travel)", prev.Activity.Name, -buffer, cur.Activity.Name, commute),
				AffectedSlots: []string{prev.ID, cur.ID},
				Suggestion:    fmt.Sprintf("Shorten %s or start %s later", prev.Activity.Name, cur.Activity.Name),
			})
		case buffer < rushBufferMin:
			warnings = append(warnings, domain.ScheduleWarning{
				Type:          domain.WarnRush,
				Severity:      domain.SeverityInfo,
				Message:       fmt.Sprintf("Only %d min to spare between %s and %s", buffer, prev.Activity.Name, cur.Activity.Name),
				AffectedSlots: []string{prev.ID, cur.ID},
				Suggestion:    "Leave a little earlier or trim the first visit",
			})
		}

		if commute > longCommuteMin {
			warnings = append(warnings, domain.ScheduleWarning{
				Type:          domain.WarnLongCommute,
				Severity:      domain.SeverityWarning,
				Message:       fmt.Sprintf("%d min travel to %s", commute, cur.Activity.Name),
				AffectedSlots: []string{cur.ID},
				Suggestion:    "Swap for something closer or regroup the day by neighborhood",
			})
		}
	}

	warnings = append(warnings, weatherWarnings(day)...)

	if cfg.Pace == domain.PaceRelaxed && day.TotalActivityTime > relaxedMaxActivity {
		warnings = append(warnings, domain.ScheduleWarning{
			Type:       domain.WarnPace,
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("%d min of activities is a lot for a relaxed day", day.TotalActivityTime),
			Suggestion: "Drop one activity or switch to a normal pace",
		})
	}

	if cfg.TripMode.IsFamilyStyle() {
		for _, s := range slots {
			if s.ScheduledEnd > lateNightCutoff {
				warnings = append(warnings, domain.ScheduleWarning{
					Type:          domain.WarnLateNight,
					Severity:      domain.SeverityInfo,
					Message:       fmt.Sprintf("%s ends at %s", s.Activity.Name, s.ScheduledEnd),
					AffectedSlots: []string{s.ID},
					Suggestion:    "Consider an earlier finish for younger or older travelers",
				})
			}
		}
	}
	return warnings
}

func weatherWarnings(day domain.DaySchedule) []domain.ScheduleWarning {
	if day.Weather == nil {
		return nil
	}
	var out []domain.ScheduleWarning
	for _, s := range day.Slots {
		if !s.Activity.IsOutdoor || !s.Activity.WeatherSensitive {
			continue
		}
		switch {
		case day.Weather.IsRainy():
			out = append(out, domain.ScheduleWarning{
				Type:          domain.WarnWeather,
				Severity:      domain.SeverityWarning,
				Message:       fmt.Sprintf("%s is outdoors and %s is forecast", s.Activity.Name, day.Weather.Condition),
				AffectedSlots: []string{s.ID},
				Suggestion:    "Swap with an indoor alternative",
			})
		case day.Weather.IsExtremeTemperature():
			out = append(out, domain.ScheduleWarning{
				Type:          domain.WarnWeather,
				Severity:      domain.SeverityInfo,
				Message:       fmt.Sprintf("%s is outdoors with %.0f–%.0f °C forecast", s.Activity.Name, day.Weather.TempLowC, day.Weather.TempHighC),
				AffectedSlots: []string{s.ID},
				Suggestion:    "Plan for the temperature or keep the visit short",
			})
		}
	}
	return out
}

// CalculatePaceScore rates day density on 0–100. Commute time costs up to
// 20 points. Non-full days and empty days score a neutral 50.
func CalculatePaceScore(dayType domain.DayType, activityMin, commuteMin int) int {
	if dayType != domain.DayFull || activityMin <= 0 {
		return neutralPaceScore
	}
	density := math.Max(0, math.Min(100, float64(activityMin)/paceFullDayMin*100))
	penalty := math.Min(paceCommutePenalty, float64(commuteMin)/paceCommuteFullMin*paceCommutePenalty)
	score := int(math.Round(density - penalty))
	if score < 0 {
		return 0
	}
	return score
}
