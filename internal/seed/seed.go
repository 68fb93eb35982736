// Package seed produces the project collection the store starts with.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/projectpilot/internal/idgen"
	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
)

// Load returns the seed collection selected by cfg.
func Load(ctx context.Context, cfg model.SeedConfig, gen idgen.Generator, now time.Time) ([]model.Project, error) {
	switch cfg.Source {
	case "", model.SeedBuiltin:
		return Builtin(now, gen), nil
	case model.SeedEmpty:
		return []model.Project{}, nil
	case model.SeedYAML:
		return LoadYAMLFile(cfg.Path, gen, now)
	case model.SeedSQLite:
		return loadSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.Source)
	}
}

func loadSQLite(ctx context.Context, path string) ([]model.Project, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening sqlite seed: %w", err)
	}
	f, err := store.OpenSQLiteFixtures(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	projects, err := f.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sqlite seed %s: %w", path, err)
	}
	return projects, nil
}

// fixtureFile is the YAML seed document.
type fixtureFile struct {
	Projects []fixtureProject `yaml:"projects"`
}

type fixtureProject struct {
	ID                   string        `yaml:"id"`
	Name                 string        `yaml:"name"`
	Description          string        `yaml:"description"`
	Status               string        `yaml:"status"`
	TechStack            []string      `yaml:"tech_stack"`
	GithubURL            string        `yaml:"github_url"`
	DeploymentURL        string        `yaml:"deployment_url"`
	StartDate            string        `yaml:"start_date"`
	TargetCompletionDate string        `yaml:"target_completion_date"`
	Tasks                []fixtureTask `yaml:"tasks"`
	CreatedAt            string        `yaml:"created_at"`
	UpdatedAt            string        `yaml:"updated_at"`
}

type fixtureTask struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Completed   bool   `yaml:"completed"`
	DueDate     string `yaml:"due_date"`
	CreatedAt   string `yaml:"created_at"`
}

// LoadYAMLFile reads a YAML fixture file from path.
func LoadYAMLFile(path string, gen idgen.Generator, now time.Time) ([]model.Project, error) {
	if path == "" {
		return nil, fmt.Errorf("yaml seed requires a path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening yaml seed: %w", err)
	}
	defer f.Close()

	projects, err := DecodeYAML(f, gen, now)
	if err != nil {
		return nil, fmt.Errorf("decoding yaml seed %s: %w", path, err)
	}
	return projects, nil
}

// DecodeYAML parses a fixture document. Missing IDs are drawn from gen,
// missing timestamps default to now and a missing status means planning.
// Dates accept YYYY-MM-DD (local midnight) or RFC 3339.
func DecodeYAML(r io.Reader, gen idgen.Generator, now time.Time) ([]model.Project, error) {
	var doc fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}

	projects := make([]model.Project, 0, len(doc.Projects))
	for i, fp := range doc.Projects {
		p, err := fp.toModel(gen, now)
		if err != nil {
			return nil, fmt.Errorf("project %d (%s): %w", i+1, fp.Name, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (fp fixtureProject) toModel(gen idgen.Generator, now time.Time) (model.Project, error) {
	if strings.TrimSpace(fp.Name) == "" {
		return model.Project{}, fmt.Errorf("name is required")
	}

	status := model.StatusPlanning
	if fp.Status != "" {
		s, err := model.ParseStatus(fp.Status)
		if err != nil {
			return model.Project{}, err
		}
		status = s
	}

	p := model.Project{
		ID:            orDefault(fp.ID, gen.NewID),
		Name:          fp.Name,
		Description:   fp.Description,
		Status:        status,
		TechStack:     append([]string{}, fp.TechStack...),
		GithubURL:     model.StringPtr(fp.GithubURL),
		DeploymentURL: model.StringPtr(fp.DeploymentURL),
		Tasks:         make([]model.Task, 0, len(fp.Tasks)),
	}

	var err error
	if p.StartDate, err = parseOptionalDate("start_date", fp.StartDate); err != nil {
		return model.Project{}, err
	}
	if p.TargetCompletionDate, err = parseOptionalDate("target_completion_date", fp.TargetCompletionDate); err != nil {
		return model.Project{}, err
	}
	if p.CreatedAt, err = parseStamp("created_at", fp.CreatedAt, now); err != nil {
		return model.Project{}, err
	}
	if p.UpdatedAt, err = parseStamp("updated_at", fp.UpdatedAt, p.CreatedAt); err != nil {
		return model.Project{}, err
	}

	for j, ft := range fp.Tasks {
		if strings.TrimSpace(ft.Description) == "" {
			return model.Project{}, fmt.Errorf("task %d: description is required", j+1)
		}
		t := model.Task{
			ID:          orDefault(ft.ID, gen.NewID),
			Description: ft.Description,
			Completed:   ft.Completed,
		}
		if p.TaskIndex(t.ID) >= 0 {
			return model.Project{}, fmt.Errorf("task %d: id %s is duplicated", j+1, t.ID)
		}
		if t.DueDate, err = parseOptionalDate("due_date", ft.DueDate); err != nil {
			return model.Project{}, fmt.Errorf("task %d: %w", j+1, err)
		}
		if t.CreatedAt, err = parseStamp("created_at", ft.CreatedAt, now); err != nil {
			return model.Project{}, fmt.Errorf("task %d: %w", j+1, err)
		}
		p.Tasks = append(p.Tasks, t)
	}

	return p, nil
}

func orDefault(v string, fallback func() string) string {
	if v != "" {
		return v
	}
	return fallback()
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	t, err := model.ParseOptionalDate(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func parseStamp(field, s string, fallback time.Time) (time.Time, error) {
	t, err := parseOptionalDate(field, s)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return fallback, nil
	}
	return *t, nil
}
