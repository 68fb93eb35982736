package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/projectpilot/internal/model"
)

// SQLiteFixtures reads and writes project fixtures in a SQLite file. It is
// an import/export format for seed data, not a live backing store: the
// memory store never touches it after startup.
type SQLiteFixtures struct {
	db *sqlx.DB
}

// OpenSQLiteFixtures opens (or creates) a fixture database at dbPath,
// enables foreign keys, and runs any pending schema migrations.
func OpenSQLiteFixtures(dbPath string) (*SQLiteFixtures, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection keeps ":memory:" databases and per-connection pragmas consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	f := &SQLiteFixtures{db: db}
	if err := f.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return f, nil
}

// Close closes the underlying database connection.
func (f *SQLiteFixtures) Close() error {
	return f.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (f *SQLiteFixtures) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := f.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = f.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := f.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (f *SQLiteFixtures) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := f.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Save replaces the fixture contents with projects in a single transaction.
// Collection order, tech tag order and task order are preserved.
func (f *SQLiteFixtures) Save(ctx context.Context, projects []model.Project) error {
	tx, err := f.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "project_tech", "projects"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	projectStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO projects (
			id, position, name, description, status,
			github_url, deployment_url, start_date, target_completion_date,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing project insert: %w", err)
	}
	defer projectStmt.Close()

	techStmt, err := tx.PreparexContext(ctx,
		"INSERT INTO project_tech (project_id, position, tag) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing tech insert: %w", err)
	}
	defer techStmt.Close()

	taskStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO tasks (project_id, id, position, description, completed, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer taskStmt.Close()

	for pos, p := range projects {
		_, err := projectStmt.ExecContext(ctx,
			p.ID, pos, p.Name, p.Description, string(p.Status),
			nullString(p.GithubURL), nullString(p.DeploymentURL),
			nullTime(p.StartDate), nullTime(p.TargetCompletionDate),
			p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting project %s: %w", p.ID, err)
		}

		for i, tag := range p.TechStack {
			if _, err := techStmt.ExecContext(ctx, p.ID, i, tag); err != nil {
				return fmt.Errorf("inserting tech tag for project %s: %w", p.ID, err)
			}
		}

		for i, t := range p.Tasks {
			_, err := taskStmt.ExecContext(ctx,
				p.ID, t.ID, i, t.Description, boolToInt(t.Completed),
				nullTime(t.DueDate), t.CreatedAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("inserting task %s of project %s: %w", t.ID, p.ID, err)
			}
		}
	}

	return tx.Commit()
}

// projectRow mirrors the projects table.
type projectRow struct {
	ID                   string         `db:"id"`
	Name                 string         `db:"name"`
	Description          string         `db:"description"`
	Status               string         `db:"status"`
	GithubURL            sql.NullString `db:"github_url"`
	DeploymentURL        sql.NullString `db:"deployment_url"`
	StartDate            sql.NullTime   `db:"start_date"`
	TargetCompletionDate sql.NullTime   `db:"target_completion_date"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

// techRow mirrors the project_tech table.
type techRow struct {
	ProjectID string `db:"project_id"`
	Tag       string `db:"tag"`
}

// taskRow mirrors the tasks table.
type taskRow struct {
	ProjectID   string       `db:"project_id"`
	ID          string       `db:"id"`
	Description string       `db:"description"`
	Completed   int          `db:"completed"`
	DueDate     sql.NullTime `db:"due_date"`
	CreatedAt   time.Time    `db:"created_at"`
}

// Load reads every project in saved order, with tech tags and tasks.
func (f *SQLiteFixtures) Load(ctx context.Context) ([]model.Project, error) {
	var rows []projectRow
	err := f.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, status,
			github_url, deployment_url, start_date, target_completion_date,
			created_at, updated_at
		FROM projects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}

	var tech []techRow
	err = f.db.SelectContext(ctx, &tech,
		"SELECT project_id, tag FROM project_tech ORDER BY project_id, position")
	if err != nil {
		return nil, fmt.Errorf("querying tech tags: %w", err)
	}

	var tasks []taskRow
	err = f.db.SelectContext(ctx, &tasks, `
		SELECT project_id, id, description, completed, due_date, created_at
		FROM tasks ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	techByProject := make(map[string][]string)
	for _, r := range tech {
		techByProject[r.ProjectID] = append(techByProject[r.ProjectID], r.Tag)
	}

	tasksByProject := make(map[string][]model.Task)
	for _, r := range tasks {
		tasksByProject[r.ProjectID] = append(tasksByProject[r.ProjectID], model.Task{
			ID:          r.ID,
			Description: r.Description,
			Completed:   r.Completed != 0,
			DueDate:     timePtr(r.DueDate),
			CreatedAt:   r.CreatedAt,
		})
	}

	projects := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		p := model.Project{
			ID:                   r.ID,
			Name:                 r.Name,
			Description:          r.Description,
			Status:               model.Status(r.Status),
			TechStack:            techByProject[r.ID],
			GithubURL:            stringPtr(r.GithubURL),
			DeploymentURL:        stringPtr(r.DeploymentURL),
			StartDate:            timePtr(r.StartDate),
			TargetCompletionDate: timePtr(r.TargetCompletionDate),
			Tasks:                tasksByProject[r.ID],
			CreatedAt:            r.CreatedAt,
			UpdatedAt:            r.UpdatedAt,
		}
		if p.TechStack == nil {
			p.TechStack = []string{}
		}
		if p.Tasks == nil {
			p.Tasks = []model.Task{}
		}
		projects = append(projects, p)
	}

	return projects, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	// Keep the zone so the calendar day of a date survives the round trip.
	return sql.NullTime{Time: *t, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
