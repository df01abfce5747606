package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

// FormatTripList renders stored trips, soonest first, with their start
// relative to now.
func FormatTripList(trips []repository.TripSummary, now time.Time) string {
	if len(trips) == 0 {
		return Dim("No trips yet. Plan one with: itinera plan <pool-file>") + "\n"
	}

	headers := []string{"ID", "NAME", "START", "DAYS", "UPDATED"}
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		start := t.StartDate
		if d, err := timeutil.ParseLocalDate(t.StartDate); err == nil {
			start = fmt.Sprintf("%s %s", t.StartDate, Dim("("+RelativeDateFrom(d, now)+")"))
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Name),
			start,
			fmt.Sprintf("%d", t.DayCount),
			Dim(HumanTimestampFrom(t.UpdatedAt, now)),
		})
	}

	var b strings.Builder
	b.WriteString(Header("Trips"))
	b.WriteString("\n")
	b.WriteString(RenderTableAligned(headers, rows, 3))
	return b.String()
}

// FormatTrip renders every day of a trip under a summary line.
func FormatTrip(trip *domain.TripSchedule) string {
	var b strings.Builder

	var activityMin, commuteMin, slots int
	var cost float64
	for _, d := range trip.Days {
		activityMin += d.TotalActivityTime
		commuteMin += d.TotalCommuteTime
		cost += d.TotalCost
		slots += len(d.Slots)
	}

	summary := fmt.Sprintf("%s  %s\n%s %s · %s %d · %s %s · %s %s · %s %s",
		Bold(trip.Name), TruncID(trip.ID),
		Dim("from"), trip.StartDate,
		Dim("days"), len(trip.Days),
		Dim("pace"), trip.Config.Pace,
		Dim("activities"), FormatMinutes(activityMin),
		Dim("commute"), FormatMinutes(commuteMin),
	)
	b.WriteString(RenderBox("Itinerary", summary+fmt.Sprintf("\n%s %d · %s %s", Dim("slots"), slots, Dim("cost"), FormatCost(cost))))
	b.WriteString("\n\n")

	for i, d := range trip.Days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatDay(d))
	}
	return b.String()
}

// FormatDay renders one day as a timeline table followed by its totals
// and warnings.
func FormatDay(day domain.DaySchedule) string {
	var b strings.Builder

	title := fmt.Sprintf("Day %d · %s", day.DayIndex+1, day.Date)
	b.WriteString(Header(title))
	b.WriteString("\n")
	b.WriteString(DayTypeBadge(day.DayType))
	if day.Weather != nil {
		b.WriteString("  ")
		b.WriteString(formatWeather(*day.Weather))
	}
	b.WriteString("\n\n")

	if len(day.Slots) == 0 {
		b.WriteString(Dim("Nothing scheduled."))
		b.WriteString("\n")
	} else {
		headers := []string{"TIME", "SLOT", "ACTIVITY", "AREA", "LENGTH", "GETTING THERE"}
		rows := make([][]string, 0, len(day.Slots))
		for _, s := range day.Slots {
			rows = append(rows, []string{
				fmt.Sprintf("%s–%s", s.ScheduledStart, s.ScheduledEnd),
				Dim(s.ID),
				activityLabel(s),
				s.Activity.Neighborhood,
				FormatMinutes(s.ActualDuration),
				ModeLabel(s.CommuteFromPrevious),
			})
		}
		b.WriteString(RenderTableAligned(headers, rows, 4))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s\n",
		Dim("activities"), FormatMinutes(day.TotalActivityTime),
		Dim("commute"), FormatMinutes(day.TotalCommuteTime),
		Dim("cost"), FormatCost(day.TotalCost),
		Dim("pace"), PaceGauge(day.PaceScore),
	))

	if w := FormatWarnings(day.Warnings); w != "" {
		b.WriteString("\n")
		b.WriteString(w)
	}
	return b.String()
}

// FormatWarnings lists schedule warnings with their suggestions.
func FormatWarnings(warnings []domain.ScheduleWarning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(fmt.Sprintf("%s  %s", SeverityIndicator(w.Severity), w.Message))
		if len(w.AffectedSlots) > 0 {
			b.WriteString(Dim(" [" + strings.Join(w.AffectedSlots, ", ") + "]"))
		}
		b.WriteString("\n")
		if w.Suggestion != "" {
			b.WriteString(fmt.Sprintf("   %s %s\n", Dim("→"), w.Suggestion))
		}
	}
	return b.String()
}

func activityLabel(s domain.ScheduledActivity) string {
	label := s.Activity.Name
	var marks []string
	if s.IsLocked {
		marks = append(marks, StylePurple.Render("locked"))
	}
	if s.Activity.Booking != nil && s.Activity.Booking.Confirmed {
		marks = append(marks, StyleGreen.Render("booked"))
	}
	if s.MealType != domain.MealNone {
		marks = append(marks, StyleYellow.Render(string(s.MealType)))
	}
	if n := len(s.Alternatives); n > 0 {
		marks = append(marks, Dim(fmt.Sprintf("+%d alt", n)))
	}
	if len(marks) > 0 {
		label += " " + strings.Join(marks, " ")
	}
	return label
}

func formatWeather(w domain.WeatherForecast) string {
	text := fmt.Sprintf("%s %d%% %.0f–%.0f°C", w.Condition, w.PrecipitationPct, w.TempLowC, w.TempHighC)
	if w.PrecipitationPct >= 50 {
		return StyleYellow.Render(text)
	}
	return Dim(text)
}
