package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanTimestampFrom returns a short relative timestamp such as "5m ago".
func HumanTimestampFrom(t time.Time, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}

// DayTypeBadge returns a colored label for the kind of day.
func DayTypeBadge(t domain.DayType) string {
	switch t {
	case domain.DayArrival:
		return StyleBlue.Render("✈ Arrival")
	case domain.DayDeparture:
		return StylePurple.Render("✈ Departure")
	case domain.DayTravel:
		return StyleYellow.Render("⇄ Travel")
	default:
		return StyleGreen.Render("● Full day")
	}
}

// ModeLabel renders a commute edge such as "walk 12m" or "transit 18m".
func ModeLabel(c *domain.CommuteInfo) string {
	if c == nil {
		return Dim("--")
	}
	var name string
	switch c.Mode {
	case domain.ModeWalking:
		name = "walk"
	case domain.ModeTransit:
		name = "transit"
	case domain.ModeTaxi:
		name = "taxi"
	case domain.ModeMixed:
		name = "mixed"
	default:
		name = string(c.Mode)
	}
	label := fmt.Sprintf("%s %s", name, FormatMinutes(c.DurationMinutes))
	if c.DurationMinutes > 30 {
		return StyleYellow.Render(label)
	}
	return label
}

// PaceGauge renders a 0-100 pace score as a colored bar.
func PaceGauge(score int) string {
	const width = 10
	score = max(0, min(100, score))
	filled := (score*width + 50) / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleGreen
	switch {
	case score > 85:
		style = StyleRed
	case score > 70:
		style = StyleYellow
	}
	return fmt.Sprintf("%s %d", style.Render(bar), score)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatCost renders a cost rounded to whole units, or "free".
func FormatCost(c float64) string {
	if c <= 0 {
		return "free"
	}
	return fmt.Sprintf("%.0f", math.Round(c))
}
