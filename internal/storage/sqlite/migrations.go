package sqlite

// migrations contains the SQL migrations for the SQLite database.
var migrations = []string{
	// Migration 1: Create initial tables
	`
	-- Stored mock sets; the endpoint definitions live in the JSON column
	CREATE TABLE IF NOT EXISTS sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		version INTEGER DEFAULT 1,
		definition JSON NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sets_name ON sets(name);

	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`,
}
