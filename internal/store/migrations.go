package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of fixture schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id                     TEXT PRIMARY KEY,
	position               INTEGER NOT NULL,
	name                   TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	status                 TEXT NOT NULL DEFAULT 'planning'
		CHECK(status IN ('planning', 'in-progress', 'on-hold', 'completed', 'archived')),
	github_url             TEXT,
	deployment_url         TEXT,
	start_date             DATETIME,
	target_completion_date DATETIME,
	created_at             DATETIME NOT NULL,
	updated_at             DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS project_tech (
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	tag        TEXT NOT NULL,
	PRIMARY KEY (project_id, position)
);

CREATE TABLE IF NOT EXISTS tasks (
	project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	id          TEXT NOT NULL,
	position    INTEGER NOT NULL,
	description TEXT NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	due_date    DATETIME,
	created_at  DATETIME NOT NULL,
	PRIMARY KEY (project_id, id)
);

CREATE INDEX IF NOT EXISTS idx_projects_position ON projects(position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_tasks_project_position
	ON tasks(project_id, position);

CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
