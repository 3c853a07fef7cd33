package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	sender         TEXT NOT NULL,
	subject        TEXT NOT NULL,
	content        TEXT NOT NULL,
	priority_score REAL NOT NULL DEFAULT 0.0,
	labels         TEXT NOT NULL DEFAULT '',
	is_important   INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meetings (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time   DATETIME NOT NULL,
	timezone   TEXT NOT NULL DEFAULT 'UTC',
	attendees  TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_emails_priority ON emails(priority_score);
CREATE INDEX IF NOT EXISTS idx_emails_important ON emails(is_important);
`,
	},
}
