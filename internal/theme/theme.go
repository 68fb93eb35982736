package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Apply forces the adaptive palette to one side. "auto" leaves terminal
// background detection to lipgloss.
func Apply(name string) {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// NoticeStyle renders a success message inside the status bar.
var NoticeStyle = StatusBarStyle.
	Foreground(ColorGreen).
	Bold(true)

// ErrorNoticeStyle renders a failed action inside the status bar.
var ErrorNoticeStyle = StatusBarStyle.
	Foreground(ColorRed).
	Bold(true)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TagStyle renders one tech stack tag.
var TagStyle = lipgloss.NewStyle().
	Foreground(ColorMagenta).
	Padding(0, 1)

// OverdueStyle marks open tasks whose deadline has passed.
var OverdueStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// CompletedTaskStyle dims finished tasks.
var CompletedTaskStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// TodayStyle marks the current day in the calendar grid.
var TodayStyle = lipgloss.NewStyle().
	Bold(true).
	Underline(true)

// MarkedDayStyle marks calendar days that have tasks due.
var MarkedDayStyle = lipgloss.NewStyle().
	Foreground(ColorOrange).
	Bold(true)

// StatusStyle returns a color-coded style for the given project status.
func StatusStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusPlanning:
		return base.Foreground(ColorBlue)
	case model.StatusInProgress:
		return base.Foreground(ColorYellow)
	case model.StatusOnHold:
		return base.Foreground(ColorOrange)
	case model.StatusCompleted:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// ProgressColor picks the bar color for a completion percentage.
func ProgressColor(percent int) lipgloss.AdaptiveColor {
	switch {
	case percent >= 100:
		return ColorGreen
	case percent >= 50:
		return ColorBlue
	case percent > 0:
		return ColorYellow
	default:
		return ColorGray
	}
}

// ProgressBar renders a fixed-width text bar followed by the percentage.
func ProgressBar(percent, width int) string {
	if width < 1 {
		width = 1
	}
	percent = max(0, min(percent, 100))
	filled := percent * width / 100

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(ProgressColor(percent)).Render(bar) +
		fmt.Sprintf(" %3d%%", percent)
}
