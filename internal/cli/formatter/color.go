package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor switches every style to plain text. Used when stdout is
// not a terminal and in tests.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// SeverityStyle returns the style for a schedule warning severity.
func SeverityStyle(sev domain.WarningSeverity) lipgloss.Style {
	switch sev {
	case domain.SeverityWarning:
		return StyleYellow
	case domain.SeverityInfo:
		return StyleBlue
	default:
		return StyleDim
	}
}

// SeverityIndicator returns a colored marker such as "▲ WARNING".
func SeverityIndicator(sev domain.WarningSeverity) string {
	switch sev {
	case domain.SeverityWarning:
		return StyleYellow.Render("▲ WARNING")
	case domain.SeverityInfo:
		return StyleBlue.Render("● INFO")
	default:
		return StyleDim.Render("● NOTE")
	}
}

// TriggerSeverityStyle colors disruption severities from low to critical.
func TriggerSeverityStyle(sev domain.TriggerSeverity) lipgloss.Style {
	switch sev {
	case domain.TriggerCritical:
		return StyleRed
	case domain.TriggerHigh:
		return StylePurple
	case domain.TriggerMedium:
		return StyleYellow
	case domain.TriggerLow:
		return StyleGreen
	default:
		return StyleDim
	}
}

// ChangeStyle colors a schedule change by how disruptive it is.
func ChangeStyle(t domain.ChangeType) lipgloss.Style {
	switch t {
	case domain.ChangeSkipped, domain.ChangeRemoved:
		return StyleRed
	case domain.ChangeShortened, domain.ChangeDeferred:
		return StyleYellow
	case domain.ChangeSwapped, domain.ChangeReplaced:
		return StylePurple
	default:
		return StyleBlue
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
