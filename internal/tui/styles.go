package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pakalnivut/backend/internal/models"
)

var (
	PrimaryColor  = lipgloss.Color("#A78BFA") // Purple
	NormalColor   = lipgloss.Color("#10B981") // Green
	WarningColor  = lipgloss.Color("#FBBF24") // Yellow
	CriticalColor = lipgloss.Color("#F87171") // Red
	MutedColor    = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor  = lipgloss.Color("#1F2937")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Clock = lipgloss.NewStyle().
		Bold(true)

	Header = lipgloss.NewStyle().
		Foreground(MutedColor)

	SortedHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	Selected = lipgloss.NewStyle().
			Background(SurfaceColor)

	Help = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(CriticalColor)
)

// SeverityStyle returns the gap cell style for s.
func SeverityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityCritical:
		return lipgloss.NewStyle().Bold(true).Foreground(CriticalColor)
	case models.SeverityWarning:
		return lipgloss.NewStyle().Foreground(WarningColor)
	case models.SeverityNormal:
		return lipgloss.NewStyle().Foreground(NormalColor)
	default:
		return lipgloss.NewStyle().Foreground(MutedColor)
	}
}
