// Package command is the ":" palette for actions that have no single key.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/theme"
)

// Command is a parsed palette entry.
type Command struct {
	Name string
	Arg  string
}

// CommandMsg is emitted when the user executes a valid command.
type CommandMsg Command

// Spec documents one palette command.
type Spec struct {
	Name    string
	Usage   string
	Summary string
	needArg bool
}

// Specs lists every palette command in display order.
var Specs = []Spec{
	{Name: "new", Usage: "new", Summary: "create a project"},
	{Name: "dashboard", Usage: "dashboard", Summary: "show all projects"},
	{Name: "calendar", Usage: "calendar", Summary: "open the deadline calendar"},
	{Name: "filter", Usage: "filter <status|all>", Summary: "filter the dashboard by status", needArg: true},
	{Name: "search", Usage: "search <text>", Summary: "search names, descriptions and tech"},
	{Name: "help", Usage: "help", Summary: "show keyboard shortcuts"},
	{Name: "quit", Usage: "quit", Summary: "exit ProjectPilot"},
}

// Parse splits raw into a known command and its argument.
func Parse(raw string) (Command, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(raw), " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	for _, s := range Specs {
		if s.Name != name {
			continue
		}
		if s.needArg && arg == "" {
			return Command{}, fmt.Errorf("usage: %s", s.Usage)
		}
		return Command{Name: name, Arg: arg}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", name)
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	suggestions := make([]string, len(Specs))
	for i, s := range Specs {
		suggestions[i] = s.Name
	}
	ti.SetSuggestions(suggestions)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			return m, nil
		}
		c, err := Parse(raw)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.input.Reset()
		return m, func() tea.Msg { return CommandMsg(c) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Command Palette"), m.input.View()}
	if m.err != nil {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err.Error()))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input and clears stale input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	m.err = nil
	return m.input.Focus()
}
