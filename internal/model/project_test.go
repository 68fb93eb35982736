package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "planning", want: StatusPlanning},
		{in: "In Progress", want: StatusInProgress},
		{in: "on_hold", want: StatusOnHold},
		{in: " COMPLETED ", want: StatusCompleted},
		{in: "archived", want: StatusArchived},
		{in: "done", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "On Hold", StatusOnHold.Label())
	assert.Equal(t, "mystery", Status("mystery").Label())
	assert.Len(t, Statuses(), 5)
}

func TestProjectProgress(t *testing.T) {
	p := Project{}
	done, total, pct := p.Progress()
	assert.Equal(t, 0, done)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, pct)

	p.Tasks = []Task{{Completed: true}, {Completed: false}, {Completed: false}}
	done, total, pct = p.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 33, pct, "percentage rounds down")
}

func TestProjectMatches(t *testing.T) {
	p := Project{
		Name:        "ProjectPilot",
		Description: "A minimal personal project tracker",
		TechStack:   []string{"React", "Tailwind CSS"},
	}

	assert.True(t, p.Matches(""))
	assert.True(t, p.Matches("pilot"))
	assert.True(t, p.Matches("TRACKER"))
	assert.True(t, p.Matches("tailwind"))
	assert.False(t, p.Matches("golang"))
	assert.False(t, p.Matches(" pilot"), "query is matched as typed")
}

func TestProjectCloneKeepsEmptyTechStack(t *testing.T) {
	c := Project{TechStack: []string{}}.Clone()
	assert.NotNil(t, c.TechStack)
	assert.Empty(t, c.TechStack)

	assert.Nil(t, Project{}.Clone().TechStack)
}

func TestProjectCloneIsIndependent(t *testing.T) {
	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	url := "https://github.com/username/projectpilot"
	p := Project{
		TechStack: []string{"Go"},
		GithubURL: &url,
		Tasks:     []Task{{ID: "t1", DueDate: &due}},
	}

	c := p.Clone()
	c.TechStack[0] = "Rust"
	*c.GithubURL = "changed"
	*c.Tasks[0].DueDate = due.AddDate(0, 0, 1)
	c.Tasks[0].Description = "changed"

	assert.Equal(t, "Go", p.TechStack[0])
	assert.Equal(t, "https://github.com/username/projectpilot", *p.GithubURL)
	assert.Equal(t, due, *p.Tasks[0].DueDate)
	assert.Empty(t, p.Tasks[0].Description)
}

func TestProjectPatchApply(t *testing.T) {
	start := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	url := "https://example.dev"
	p := Project{
		Name:          "Old",
		Description:   "keep me",
		Status:        StatusPlanning,
		TechStack:     []string{"Go"},
		DeploymentURL: &url,
		StartDate:     &start,
	}

	name := "New"
	status := StatusOnHold
	stack := []string{"Go", "SQLite"}
	got := ProjectPatch{
		Name:               &name,
		Status:             &status,
		TechStack:          &stack,
		ClearDeploymentURL: true,
	}.Apply(p)

	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, StatusOnHold, got.Status)
	assert.Equal(t, []string{"Go", "SQLite"}, got.TechStack)
	assert.Nil(t, got.DeploymentURL)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, start, *got.StartDate)

	stack[0] = "mutated"
	assert.Equal(t, "Go", got.TechStack[0], "patch slice is copied")
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	task := Task{ID: "t1", Description: "write spec", DueDate: &due}

	done := true
	got := TaskPatch{Completed: &done}.Apply(task)
	assert.True(t, got.Completed)
	assert.Equal(t, "write spec", got.Description)
	assert.Equal(t, "2024-01-12", got.DueKey())

	got = TaskPatch{ClearDueDate: true}.Apply(got)
	assert.Nil(t, got.DueDate)
	assert.Empty(t, got.DueKey())
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Task{DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{DueDate: &past, Completed: true}.IsOverdue(now))
	assert.False(t, Task{DueDate: &future}.IsOverdue(now))
	assert.False(t, Task{}.IsOverdue(now))
}

func TestNormalizeTechStack(t *testing.T) {
	got := NormalizeTechStack([]string{" React ", "", "Go", "React", "  ", "Go"})
	assert.Equal(t, []string{"React", "Go"}, got)
	assert.Empty(t, NormalizeTechStack(nil))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	require.NotNil(t, StringPtr(" x "))
	assert.Equal(t, "x", *StringPtr(" x "))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", d.Format(DateKeyLayout))
	assert.Equal(t, 0, d.Hour())

	d, err = ParseDate("2024-03-09T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("March 9")
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")

	none, err := ParseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, none)
}
