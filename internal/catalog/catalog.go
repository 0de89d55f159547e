package catalog

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	ferrors "github.com/teaserverse/fwon/internal/errors"
	"github.com/teaserverse/fwon/pkg/types"
)

// Catalog stores the history of benchmark runs.
type Catalog interface {
	// RecordRun inserts a run. Recording the same RunID twice fails.
	RecordRun(ctx context.Context, run *types.RunRecord) error

	// GetRun retrieves a single run by ID.
	GetRun(ctx context.Context, runID string) (*types.RunRecord, error)

	// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all runs.
	ListRuns(ctx context.Context, limit int) ([]*types.RunRecord, error)

	// Best returns the run with the highest overall records/sec, or nil if empty.
	Best(ctx context.Context) (*types.RunRecord, error)

	// DeleteOlderThan removes runs started before now minus age and returns how many were removed.
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)

	// Close closes the catalog database connections.
	Close() error
}

var _ Catalog = (*SQLiteCatalog)(nil)

// runCountWarnThreshold triggers a pruning hint once the catalog grows past it.
const runCountWarnThreshold = 10000

const runColumns = `run_id, output, records, workers, bytes_written,
	generation_sec, write_sec, total_sec, digest, started_at`

// SQLiteCatalog implements Catalog using SQLite in WAL mode.
type SQLiteCatalog struct {
	db     *sql.DB // Write connection (single writer)
	readDB *sql.DB // Read connection pool
	dbPath string
	mu     sync.Mutex

	insertStmt *sql.Stmt
}

// NewCatalog opens or creates the catalog at dbPath.
func NewCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to open database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &SQLiteCatalog{db: db, dbPath: dbPath}

	// Schema first, so the file exists before readers connect.
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		db.Close()
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to open read database", err)
	}
	readDB.SetMaxOpenConns(4)
	readDB.SetMaxIdleConns(4)
	readDB.SetConnMaxLifetime(5 * time.Minute)
	c.readDB = readDB

	c.insertStmt, err = db.Prepare(`INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		readDB.Close()
		db.Close()
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to prepare insert statement", err)
	}

	return c, nil
}

// initSchema creates all required tables and indexes.
func (c *SQLiteCatalog) initSchema() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, stmt := range AllSchemaSQL() {
		if _, err := c.db.Exec(stmt); err != nil {
			return ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to execute schema statement", err)
		}
	}
	return nil
}

// RecordRun inserts a run.
func (c *SQLiteCatalog) RecordRun(ctx context.Context, run *types.RunRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.insertStmt.ExecContext(ctx,
		run.RunID, run.Output, int64(run.Records), run.Workers, run.BytesWritten,
		run.GenerationTimeSec, run.WriteTimeSec, run.TotalTimeSec,
		run.Digest, run.StartedAt.UnixNano(),
	)
	if err != nil {
		return ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to insert run "+run.RunID, err)
	}

	c.logRunCountThreshold(ctx)
	return nil
}

// GetRun retrieves a single run by ID.
func (c *SQLiteCatalog) GetRun(ctx context.Context, runID string) (*types.RunRecord, error) {
	row := c.readDB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ferrors.NewCatalogError(ferrors.CodeRunNotFound, "run "+runID+" not found", nil)
	}
	if err != nil {
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to scan run", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (c *SQLiteCatalog) ListRuns(ctx context.Context, limit int) ([]*types.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.readDB.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to list runs", err)
	}
	defer rows.Close()

	var runs []*types.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to scan run", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "error iterating runs", err)
	}
	return runs, nil
}

// Best returns the run with the highest overall records/sec.
// Runs with a zero total time are ignored.
func (c *SQLiteCatalog) Best(ctx context.Context) (*types.RunRecord, error) {
	row := c.readDB.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE total_sec > 0
		 ORDER BY CAST(records AS REAL) / total_sec DESC LIMIT 1`)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to find best run", err)
	}
	return run, nil
}

// DeleteOlderThan removes runs started before now minus age.
func (c *SQLiteCatalog) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-age).UnixNano()
	res, err := c.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to delete old runs", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, ferrors.NewCatalogError(ferrors.CodeQueryFailed, "failed to count deleted runs", err)
	}
	return n, nil
}

// Close closes the catalog database connections.
func (c *SQLiteCatalog) Close() error {
	if c.insertStmt != nil {
		c.insertStmt.Close()
	}
	if err := c.readDB.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*types.RunRecord, error) {
	var run types.RunRecord
	var records int64
	var startedAt int64

	err := row.Scan(
		&run.RunID, &run.Output, &records, &run.Workers, &run.BytesWritten,
		&run.GenerationTimeSec, &run.WriteTimeSec, &run.TotalTimeSec,
		&run.Digest, &startedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Records = uint64(records)
	run.StartedAt = time.Unix(0, startedAt)
	return &run, nil
}

// logRunCountThreshold warns once the catalog holds many runs (must be called with lock held).
func (c *SQLiteCatalog) logRunCountThreshold(ctx context.Context) {
	var count int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return
	}
	if count == runCountWarnThreshold {
		log.Printf("[WARN] catalog: %s holds %d runs, consider pruning old history", c.dbPath, count)
	}
}
