// Package projectform creates and edits projects with a huh form.
package projectform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
	"github.com/nhle/projectpilot/internal/ui"
)

// SavedMsg reports the result of submitting the form.
type SavedMsg struct {
	Project model.Project
	Created bool
	Err     error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name          string
	description   string
	status        model.Status
	techStack     string
	githubURL     string
	deploymentURL string
	startDate     string
	targetDate    string
}

// Model is the Bubble Tea model for the project create/edit form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	store     store.Writer
	editID    string
	submitted bool
	width     int
	height    int
}

// New creates a new project form model.
func New(s store.Writer, width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.StatusPlanning},
		store:  s,
		width:  width,
		height: height,
	}
}

// Editing reports whether the form edits an existing project.
func (m Model) Editing() bool {
	return m.editID != ""
}

// StartCreate initializes the form for a new project.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = ""
	m.submitted = false
	*m.fb = formBindings{status: model.StatusPlanning}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with the fields of p.
func (m *Model) StartEdit(p model.Project) tea.Cmd {
	m.editID = p.ID
	m.submitted = false
	*m.fb = formBindings{
		name:        p.Name,
		description: p.Description,
		status:      p.Status,
		techStack:   strings.Join(p.TechStack, ", "),
		startDate:   ui.DateValue(p.StartDate),
		targetDate:  ui.DateValue(p.TargetCompletionDate),
	}
	if p.GithubURL != nil {
		m.fb.githubURL = *p.GithubURL
	}
	if p.DeploymentURL != nil {
		m.fb.deploymentURL = *p.DeploymentURL
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitted {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitted = true
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, ui.Emit(ui.BackMsg{})
	}

	return m, cmd
}

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.Editing() {
		titleText = "Edit Project"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}

func (m *Model) buildForm() *huh.Form {
	statusOpts := make([]huh.Option[model.Status], 0, len(model.Statuses()))
	for _, s := range model.Statuses() {
		statusOpts = append(statusOpts, huh.NewOption(s.Label(), s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(ui.ValidateRequired("Name")),
			huh.NewText().
				Title("Description").
				Placeholder("What is this project about?").
				Value(&m.fb.description),
			huh.NewSelect[model.Status]().
				Title("Status").
				Options(statusOpts...).
				Value(&m.fb.status),
			huh.NewInput().
				Title("Tech Stack").
				Placeholder("Go, SQLite, Bubble Tea").
				Value(&m.fb.techStack),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub URL").
				Placeholder("https://github.com/... (optional)").
				Value(&m.fb.githubURL),
			huh.NewInput().
				Title("Deployment URL").
				Placeholder("https://... (optional)").
				Value(&m.fb.deploymentURL),
			huh.NewInput().
				Title("Start Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.startDate).
				Validate(ui.ValidateOptionalDate),
			huh.NewInput().
				Title("Target Completion").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.targetDate).
				Validate(ui.ValidateOptionalDate),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

// submit writes the form to the store.
func (m Model) submit() tea.Cmd {
	fb := *m.fb
	s := m.store
	editID := m.editID

	return func() tea.Msg {
		if editID == "" {
			in, err := fb.toInput()
			if err != nil {
				return SavedMsg{Created: true, Err: err}
			}
			p, err := s.Create(in)
			return SavedMsg{Project: p, Created: true, Err: err}
		}

		patch, err := fb.toPatch()
		if err != nil {
			return SavedMsg{Err: err}
		}
		p, err := s.Update(editID, patch)
		return SavedMsg{Project: p, Err: err}
	}
}

func (fb formBindings) toInput() (model.ProjectInput, error) {
	start, err := model.ParseOptionalDate(fb.startDate)
	if err != nil {
		return model.ProjectInput{}, fmt.Errorf("start date: %w", err)
	}
	target, err := model.ParseOptionalDate(fb.targetDate)
	if err != nil {
		return model.ProjectInput{}, fmt.Errorf("target completion: %w", err)
	}

	return model.ProjectInput{
		Name:                 strings.TrimSpace(fb.name),
		Description:          strings.TrimSpace(fb.description),
		Status:               fb.status,
		TechStack:            splitTags(fb.techStack),
		GithubURL:            model.StringPtr(fb.githubURL),
		DeploymentURL:        model.StringPtr(fb.deploymentURL),
		StartDate:            start,
		TargetCompletionDate: target,
	}, nil
}

// toPatch sets every field the form shows. Blank optional fields clear
// the stored value.
func (fb formBindings) toPatch() (model.ProjectPatch, error) {
	in, err := fb.toInput()
	if err != nil {
		return model.ProjectPatch{}, err
	}

	return model.ProjectPatch{
		Name:                      &in.Name,
		Description:               &in.Description,
		Status:                    &in.Status,
		TechStack:                 &in.TechStack,
		GithubURL:                 in.GithubURL,
		DeploymentURL:             in.DeploymentURL,
		StartDate:                 in.StartDate,
		TargetCompletionDate:      in.TargetCompletionDate,
		ClearGithubURL:            in.GithubURL == nil,
		ClearDeploymentURL:        in.DeploymentURL == nil,
		ClearStartDate:            in.StartDate == nil,
		ClearTargetCompletionDate: in.TargetCompletionDate == nil,
	}, nil
}

func splitTags(raw string) []string {
	return model.NormalizeTechStack(strings.Split(raw, ","))
}
