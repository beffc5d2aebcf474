// Package ui holds the terminal presentation pieces shared by commands:
// the color theme, TTY detection and scan progress display.
package ui

import "github.com/charmbracelet/lipgloss"

// Brand colors (dark background variants).
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorText      = "#F9FAFB"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#4B5563"
)

// ThemeColors holds hex colors for the theme.
type ThemeColors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme bundles the colors and styles used for terminal output.
type Theme struct {
	Colors  ThemeColors
	NoColor bool
}

// NewTheme returns the default theme. With noColor set every style renders
// plain text.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		Colors: ThemeColors{
			Primary:   ColorPrimary,
			Secondary: ColorSecondary,
			Success:   ColorSuccess,
			Warning:   ColorWarning,
			Error:     ColorError,
			Muted:     ColorMuted,
		},
		NoColor: noColor,
	}
}

// Adaptive pairs a light-background color with a dark-background one.
func Adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func (t *Theme) fg(color string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Title styles headings.
func (t *Theme) Title() lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return t.fg(t.Colors.Primary).Bold(true)
}

// Success styles passing results.
func (t *Theme) Success() lipgloss.Style { return t.fg(t.Colors.Success) }

// Warning styles warnings and partial results.
func (t *Theme) Warning() lipgloss.Style { return t.fg(t.Colors.Warning) }

// Error styles failures.
func (t *Theme) Error() lipgloss.Style { return t.fg(t.Colors.Error) }

// Muted styles secondary text.
func (t *Theme) Muted() lipgloss.Style { return t.fg(t.Colors.Muted) }

// Box frames a block of text.
func (t *Theme) Box() lipgloss.Style {
	s := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if t.NoColor {
		return s
	}
	return s.BorderForeground(lipgloss.Color(ColorBorder))
}

// ForPercentage picks the success, warning or error style for a score.
func (t *Theme) ForPercentage(pct float64) lipgloss.Style {
	switch {
	case pct >= 80:
		return t.Success()
	case pct >= 60:
		return t.Warning()
	default:
		return t.Error()
	}
}
