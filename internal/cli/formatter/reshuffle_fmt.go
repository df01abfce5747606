package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/service"
)

// FormatReshuffle renders the outcome of a reported disruption: what was
// detected, what changed, and how to undo it.
func FormatReshuffle(res *domain.ReshuffleResult) string {
	var b strings.Builder

	trig := res.Trigger
	sev := TriggerSeverityStyle(trig.Severity).Render(strings.ToUpper(string(trig.Severity)))
	b.WriteString(Header("Disruption"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s %s\n", sev, Bold(humanize(string(trig.Type))), Dim("at "+trig.Context.CurrentTime.String())))
	if res.Impact.TotalDelayMinutes > 0 {
		b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
			Dim("delay"), FormatMinutes(res.Impact.TotalDelayMinutes),
			Dim("cascade"), humanize(string(res.Impact.CascadeEffect))))
	}
	for _, bk := range res.Impact.BookingsAtRisk {
		if bk.Risk.Endangered() {
			b.WriteString(fmt.Sprintf("%s booking %s is %s (%s buffer)\n",
				StyleRed.Render("!"), bk.SlotID, humanize(string(bk.Risk)), FormatMinutes(bk.BufferMinutes)))
		}
	}

	if !res.Success {
		b.WriteString("\n")
		b.WriteString(StyleRed.Render("Could not reshuffle: " + res.Error))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	strategy := humanize(string(res.Strategy))
	for _, e := range res.Escalations {
		strategy += " → " + humanize(string(e))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("strategy"), StyleBlue.Render(strategy)))
	if res.Explanation != "" {
		b.WriteString(res.Explanation)
		b.WriteString("\n")
	}

	if len(res.Changes) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatChanges(res.Changes))
	}

	if res.TimeSavedMinutes > 0 || res.BookingsProtected > 0 {
		b.WriteString(fmt.Sprintf("\n%s %s  %s %d\n",
			Dim("time saved"), FormatMinutes(res.TimeSavedMinutes),
			Dim("bookings protected"), res.BookingsProtected))
	}
	if res.UndoToken != "" {
		b.WriteString(fmt.Sprintf("\n%s itinera undo %s\n", Dim("undo with:"), res.UndoToken))
	}
	return b.String()
}

// FormatChanges lists slot changes, one per line.
func FormatChanges(changes []domain.ScheduleChange) string {
	if len(changes) == 0 {
		return Dim("No changes.") + "\n"
	}
	var b strings.Builder
	for _, c := range changes {
		tag := ChangeStyle(c.Type).Render(fmt.Sprintf("%-9s", c.Type))
		b.WriteString(fmt.Sprintf("%s %s  %s", tag, Dim(c.SlotID), c.Description))
		if span := changeSpan(c); span != "" {
			b.WriteString("  " + Dim(span))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func changeSpan(c domain.ScheduleChange) string {
	switch {
	case c.Before != nil && c.After != nil:
		return fmt.Sprintf("%s–%s → %s–%s",
			c.Before.ScheduledStart, c.Before.ScheduledEnd,
			c.After.ScheduledStart, c.After.ScheduledEnd)
	case c.Before != nil:
		return fmt.Sprintf("was %s–%s", c.Before.ScheduledStart, c.Before.ScheduledEnd)
	default:
		return ""
	}
}

// FormatUndo confirms a restored day.
func FormatUndo(res *service.UndoResult) string {
	var b strings.Builder
	source := "recent changes"
	if res.FromHistory {
		source = "saved history"
	}
	b.WriteString(fmt.Sprintf("%s Restored day %d from %s.\n\n",
		StyleGreen.Render("✔"), res.DayIndex+1, source))
	b.WriteString(FormatDay(res.Schedule))
	return b.String()
}

// FormatTripChange renders a multi-day repair: the changes and every
// day they touched.
func FormatTripChange(res *service.TripChangeResult) string {
	var b strings.Builder
	b.WriteString(Header("Changes"))
	b.WriteString("\n")
	b.WriteString(FormatChanges(res.Changes))

	touched := touchedDays(res)
	for _, d := range res.Trip.Days {
		if !touched[d.DayIndex] {
			continue
		}
		b.WriteString("\n")
		b.WriteString(FormatDay(d))
	}
	return b.String()
}

func touchedDays(res *service.TripChangeResult) map[int]bool {
	touched := make(map[int]bool)
	for _, d := range res.Trip.Days {
		prefix := fmt.Sprintf("d%d-", d.DayIndex)
		for _, c := range res.Changes {
			if strings.HasPrefix(c.SlotID, prefix) || (c.After != nil && strings.HasPrefix(c.After.ID, prefix)) {
				touched[d.DayIndex] = true
			}
		}
	}
	return touched
}

// FormatHistory renders reshuffle records, newest first.
func FormatHistory(records []*domain.ReshuffleRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No reshuffles recorded.") + "\n"
	}
	headers := []string{"WHEN", "DAY", "TRIGGER", "STRATEGY", "CHANGES", "TOKEN"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		token := r.Token
		if r.UndoneAt != nil {
			token = Dim(token + " (undone)")
		}
		rows = append(rows, []string{
			HumanTimestampFrom(r.CreatedAt, now),
			fmt.Sprintf("%d", r.DayIndex+1),
			humanize(string(r.Trigger.Type)),
			humanize(string(r.Strategy)),
			fmt.Sprintf("%d", len(r.Changes)),
			token,
		})
	}
	return Header("History") + "\n" + RenderTableAligned(headers, rows, 1, 4)
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
