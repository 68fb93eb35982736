package api

import (
	"strings"
	"time"

	"github.com/nhle/projectpilot/internal/model"
)

// projectRequest is the body of POST and PATCH on projects. Dates are
// YYYY-MM-DD or RFC 3339. In a PATCH, an empty string clears an optional
// URL or date.
type projectRequest struct {
	Name                 *string       `json:"name"`
	Description          *string       `json:"description"`
	Status               *string       `json:"status"`
	TechStack            *[]string     `json:"techStack"`
	GithubURL            *string       `json:"githubUrl"`
	DeploymentURL        *string       `json:"deploymentUrl"`
	StartDate            *string       `json:"startDate"`
	TargetCompletionDate *string       `json:"targetCompletionDate"`
	Tasks                []taskRequest `json:"tasks"`
}

// taskRequest is the body of POST and PATCH on tasks. In a PATCH an empty
// dueDate clears the deadline.
type taskRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := model.ParseOptionalDate(*raw)
	if err != nil {
		return nil, badRequest("%s: %v", field, err)
	}
	return t, nil
}

func (r projectRequest) toInput() (model.ProjectInput, error) {
	in := model.ProjectInput{
		Name:          deref(r.Name),
		Description:   deref(r.Description),
		GithubURL:     model.StringPtr(deref(r.GithubURL)),
		DeploymentURL: model.StringPtr(deref(r.DeploymentURL)),
	}
	if r.TechStack != nil {
		in.TechStack = *r.TechStack
	}
	if raw := deref(r.Status); raw != "" {
		st, err := parseStatus(raw)
		if err != nil {
			return in, err
		}
		in.Status = st
	}

	var err error
	if in.StartDate, err = optionalDate("startDate", r.StartDate); err != nil {
		return in, err
	}
	if in.TargetCompletionDate, err = optionalDate("targetCompletionDate", r.TargetCompletionDate); err != nil {
		return in, err
	}

	for i, tr := range r.Tasks {
		if strings.TrimSpace(deref(tr.Description)) == "" {
			return in, badRequest("tasks[%d]: description is required", i)
		}
		due, err := optionalDate("dueDate", tr.DueDate)
		if err != nil {
			return in, err
		}
		in.Tasks = append(in.Tasks, model.Task{
			Description: *tr.Description,
			Completed:   tr.Completed != nil && *tr.Completed,
			DueDate:     due,
		})
	}
	return in, nil
}

func (r projectRequest) toPatch() (model.ProjectPatch, error) {
	var p model.ProjectPatch
	if r.Tasks != nil {
		return p, badRequest("tasks cannot be patched, use the task endpoints")
	}

	p.Name = r.Name
	p.Description = r.Description
	p.TechStack = r.TechStack
	if r.Status != nil {
		st, err := parseStatus(*r.Status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}

	if r.GithubURL != nil {
		p.GithubURL = model.StringPtr(*r.GithubURL)
		p.ClearGithubURL = p.GithubURL == nil
	}
	if r.DeploymentURL != nil {
		p.DeploymentURL = model.StringPtr(*r.DeploymentURL)
		p.ClearDeploymentURL = p.DeploymentURL == nil
	}

	var err error
	if p.StartDate, err = optionalDate("startDate", r.StartDate); err != nil {
		return p, err
	}
	p.ClearStartDate = r.StartDate != nil && p.StartDate == nil
	if p.TargetCompletionDate, err = optionalDate("targetCompletionDate", r.TargetCompletionDate); err != nil {
		return p, err
	}
	p.ClearTargetCompletionDate = r.TargetCompletionDate != nil && p.TargetCompletionDate == nil
	return p, nil
}

func (r taskRequest) toInput() (model.TaskInput, error) {
	due, err := optionalDate("dueDate", r.DueDate)
	if err != nil {
		return model.TaskInput{}, err
	}
	return model.TaskInput{
		Description: deref(r.Description),
		Completed:   r.Completed != nil && *r.Completed,
		DueDate:     due,
	}, nil
}

func (r taskRequest) toPatch() (model.TaskPatch, error) {
	due, err := optionalDate("dueDate", r.DueDate)
	if err != nil {
		return model.TaskPatch{}, err
	}
	return model.TaskPatch{
		Description:  r.Description,
		Completed:    r.Completed,
		DueDate:      due,
		ClearDueDate: r.DueDate != nil && due == nil,
	}, nil
}
