package styles

import (
	"github.com/charmbracelet/lipgloss"

	"ecosniper/internal/availability"
)

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Availability badges ---

// AvailabilityStyle returns the style for a resolved availability status.
func AvailabilityStyle(status availability.Status) lipgloss.Style {
	switch status {
	case availability.StatusAvailable:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case availability.StatusSoonAvailable:
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case availability.StatusUnavailable:
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// AvailabilityIndicator returns a small dot + label with appropriate color,
// e.g. "● available (72H)".
func AvailabilityIndicator(result availability.Result) string {
	style := AvailabilityStyle(result.Status)
	return style.Render("●") + " " + style.Render(result.Label)
}

// --- Table styles ---

var (
	// TableHeader is the style for table header cells.
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Gray).
			Padding(0, 1)

	// TableCell is the style for table data cells.
	TableCell = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)
)
