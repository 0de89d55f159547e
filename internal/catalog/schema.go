// Package catalog records benchmark runs in a SQLite database.
package catalog

// CreateRunsTableSQL creates the runs table. Durations are seconds,
// started_at is Unix nanoseconds.
const CreateRunsTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    output TEXT NOT NULL,
    records INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    bytes_written INTEGER NOT NULL,
    generation_sec REAL NOT NULL,
    write_sec REAL NOT NULL,
    total_sec REAL NOT NULL,
    digest TEXT NOT NULL DEFAULT '',
    started_at INTEGER NOT NULL
)`

// CreateRunsIndexesSQL creates indexes for listing and ranking runs.
var CreateRunsIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_output ON runs(output)`,
}

// AllSchemaSQL returns every statement needed to initialize the catalog.
func AllSchemaSQL() []string {
	return append([]string{CreateRunsTableSQL}, CreateRunsIndexesSQL...)
}
