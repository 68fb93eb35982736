package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/theme"
)

// Layout splits the terminal into a header line, a content area and a
// status line.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout for a terminal of the given size.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for the active view.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// RenderHeader renders the app title on the left and status on the right.
// The status is cut to fit when the terminal is narrow.
func (l Layout) RenderHeader(title, status string) string {
	left := theme.HeaderStyle.Render(title)

	room := max(l.Width-lipgloss.Width(left), 0)
	right := theme.HeaderStyle.
		MaxWidth(room).
		Render(status)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, l.fill(theme.HeaderStyle, left, right), right)
}

// RenderStatusBar renders the bottom line holding a notice or key hints.
func (l Layout) RenderStatusBar(text string) string {
	rendered := theme.StatusBarStyle.MaxWidth(l.Width).Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, l.fill(theme.StatusBarStyle, rendered))
}

// fill pads a bar to the full width with the bar's background.
func (l Layout) fill(style lipgloss.Style, parts ...string) string {
	gap := l.Width
	for _, p := range parts {
		gap -= lipgloss.Width(p)
	}
	if gap <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
