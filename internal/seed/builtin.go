package seed

import (
	"time"

	"github.com/nhle/projectpilot/internal/idgen"
	"github.com/nhle/projectpilot/internal/model"
)

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.Local)
	return &t
}

// Builtin returns the demo collection shown on first launch. Every project
// and task gets a fresh ID from gen and is stamped with now.
func Builtin(now time.Time, gen idgen.Generator) []model.Project {
	task := func(desc string, done bool, due *time.Time) model.Task {
		return model.Task{
			ID:          gen.NewID(),
			Description: desc,
			Completed:   done,
			DueDate:     due,
			CreatedAt:   now,
		}
	}
	project := func(p model.Project) model.Project {
		p.ID = gen.NewID()
		p.CreatedAt = now
		p.UpdatedAt = now
		return p
	}

	return []model.Project{
		project(model.Project{
			Name:                 "ProjectPilot",
			Description:          "A minimal personal project tracker for solo developers and indie hackers.",
			Status:               model.StatusInProgress,
			TechStack:            []string{"Go", "Bubble Tea", "SQLite", "Gin"},
			GithubURL:            model.StringPtr("https://github.com/username/projectpilot"),
			DeploymentURL:        model.StringPtr("https://projectpilot.example.dev"),
			StartDate:            day(2023, time.December, 15),
			TargetCompletionDate: day(2024, time.January, 31),
			Tasks: []model.Task{
				task("Design UI wireframes", true, nil),
				task("Set up project structure", true, nil),
				task("Implement authentication", false, day(2024, time.January, 5)),
				task("Create dashboard view", false, day(2024, time.January, 12)),
			},
		}),
		project(model.Project{
			Name:        "AI Writing Assistant",
			Description: "Browser extension that helps with writing and editing content online.",
			Status:      model.StatusPlanning,
			TechStack:   []string{"JavaScript", "Chrome Extension API", "OpenAI"},
			StartDate:   day(2024, time.January, 10),
			Tasks: []model.Task{
				task("Research Chrome extension development", false, nil),
				task("Design extension UI", false, day(2024, time.January, 20)),
			},
		}),
		project(model.Project{
			Name:                 "Personal Portfolio",
			Description:          "My personal portfolio website showcasing projects and skills.",
			Status:               model.StatusCompleted,
			TechStack:            []string{"Next.js", "Tailwind CSS", "Framer Motion"},
			GithubURL:            model.StringPtr("https://github.com/username/portfolio"),
			DeploymentURL:        model.StringPtr("https://myportfolio.dev"),
			StartDate:            day(2023, time.October, 1),
			TargetCompletionDate: day(2023, time.November, 15),
			Tasks: []model.Task{
				task("Design mockups", true, nil),
				task("Implement responsive design", true, nil),
				task("Add projects section", true, nil),
				task("Deploy to Vercel", true, nil),
			},
		}),
		project(model.Project{
			Name:        "Task Management API",
			Description: "RESTful API for task management applications.",
			Status:      model.StatusOnHold,
			TechStack:   []string{"Go", "PostgreSQL", "JWT"},
			GithubURL:   model.StringPtr("https://github.com/username/task-api"),
			StartDate:   day(2023, time.September, 10),
			Tasks: []model.Task{
				task("Define API endpoints", true, nil),
				task("Implement user authentication", true, nil),
				task("Write tests", false, nil),
			},
		}),
	}
}
