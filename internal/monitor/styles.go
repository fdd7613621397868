package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iritop/iritop/internal/util"
)

// Dashboard color palette - quiet ops-room, readable over SSH
const (
	// Text colors
	ColorTextPrimary = lipgloss.Color("#E8E8F0") // Soft white
	ColorTextMuted   = lipgloss.Color("#6B7089") // Slate gray

	// Accent for the title and the active sort column
	ColorAccent = lipgloss.Color("#4FC1FF") // Signal cyan

	// Semantic colors for node health
	ColorHealthy = lipgloss.Color("#3FB950") // Green
	ColorWarning = lipgloss.Color("#D29922") // Amber
	ColorAlert   = lipgloss.Color("#F85149") // Red
)

// Base styles for the dashboard
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TitleNodeStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	HeaderActiveStyle = HeaderStyle.
				Foreground(ColorAccent).
				Underline(true)

	CellStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	// ChangedStyle is the blink. Reverse video reads as a flash on any
	// terminal, color-blind operators included.
	ChangedStyle = lipgloss.NewStyle().
			Reverse(true)

	StaleStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HealthyStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	AlertStyle = lipgloss.NewStyle().
			Foreground(ColorAlert)
)

// Sort direction markers shown on the active column header.
const (
	MarkerAscending  = "▲"
	MarkerDescending = "▼"
)

// Connection state glyphs for the type cell.
const (
	GlyphConnected    = "●"
	GlyphDisconnected = "○"
)

// Layout constants for the neighbor table.
const (
	columnSeparator  = "  "
	columnGap        = 2
	minIdentityWidth = 16
)

// lagStyle grades how far the solid milestone trails the latest one.
func lagStyle(lag int64) lipgloss.Style {
	switch {
	case lag <= 0:
		return HealthyStyle
	case lag <= 2:
		return WarningStyle
	default:
		return AlertStyle
	}
}

// connectedGlyph returns the glyph for a neighbor's connection state.
func connectedGlyph(connected bool) string {
	if connected {
		return GlyphConnected
	}
	return GlyphDisconnected
}

// fit truncates or pads s to exactly width cells. Numeric cells pad on
// the left so digits line up. Input is plain text; styling happens
// after fitting.
func fit(s string, width int, rightAlign bool) string {
	if width <= 0 {
		return ""
	}
	s = util.Truncate(s, width)
	pad := strings.Repeat(" ", width-len([]rune(s)))
	if rightAlign {
		return pad + s
	}
	return s + pad
}
