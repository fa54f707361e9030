package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stockdash/internal/dashboard"
)

// Styles.
var (
	symbolStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	symbolHlStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	gainStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#50f291"))
	lossStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#f63939"))
	colHeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	priceStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	buttonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#5766ca"))
	buttonOnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#13238e"))
	buttonOffStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	paneTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	summaryTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50f291"))
	markerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	hoverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))

	highlightBG = lipgloss.Color("236") // dark grey background
)

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

// classStyle maps a change class to its colour.
func classStyle(class string) lipgloss.Style {
	switch class {
	case dashboard.ClassGreen:
		return gainStyle
	case dashboard.ClassRed:
		return lossStyle
	default:
		return priceStyle
	}
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
