package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/ftpbrute/internal/model"
)

// FileName is the name of the history database inside its directory.
const FileName = "ftpbrute.db"

// busyTimeout makes concurrent openers wait for the write lock instead of
// failing with SQLITE_BUSY.
const busyTimeout = "_pragma=busy_timeout(5000)"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunDB stores finished runs and their attempt logs in SQLite.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// With CreateIfNotExists false, a missing database is an error and nothing
// is created on disk.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc&" + busyTimeout
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a scan first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw&" + busyTimeout
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := rdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

func (rdb *RunDB) createTables(ctx context.Context) error {
	schema := `
	-- One row per finished run; report_json holds the RunReport without its
	-- attempt log, which lives in the attempts table.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT NOT NULL,
		username TEXT NOT NULL,
		wordlist TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		anonymous TEXT NOT NULL,
		candidates INTEGER NOT NULL DEFAULT 0,
		attempts_made INTEGER NOT NULL DEFAULT 0,
		found INTEGER NOT NULL DEFAULT 0,
		interrupted INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_host ON runs(host);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Per-attempt outcomes. Candidate passwords are never stored here.
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		elapsed_ns INTEGER NOT NULL DEFAULT 0,
		UNIQUE(run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
	`

	_, err := rdb.db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores report and its attempt log in one transaction and returns
// the new run ID. report.ID is set on success.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	stored := *report
	stored.ID = 0
	stored.Attempts = nil
	reportJSON, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after Commit
	}()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (host, username, wordlist, started_at, finished_at, anonymous,
		candidates, attempts_made, found, interrupted, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Host,
		report.Username,
		report.Wordlist,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		string(report.Anonymous),
		report.Candidates,
		report.AttemptsMade,
		report.Found,
		report.Interrupted,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO attempts (run_id, idx, outcome, elapsed_ns) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare attempt insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range report.Attempts {
		if _, err := stmt.ExecContext(ctx, id, a.Index, a.Outcome.String(), int64(a.Elapsed)); err != nil {
			return 0, fmt.Errorf("failed to save attempt %d: %w", a.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	report.ID = id
	return id, nil
}

// ListHosts returns every host with at least one stored run, sorted.
func (rdb *RunDB) ListHosts(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT DISTINCT host FROM runs ORDER BY host`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}
	return hosts, rows.Err()
}

// RunSummary is a stored run without its attempt log.
type RunSummary struct {
	ID           int64                 `json:"id"`
	Host         string                `json:"host"`
	Username     string                `json:"username"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
	Anonymous    model.AnonymousStatus `json:"anonymous"`
	Candidates   int                   `json:"candidates"`
	AttemptsMade int                   `json:"attempts_made"`
	Found        bool                  `json:"found"`
	Interrupted  bool                  `json:"interrupted"`
}

// GetRunHistory returns the runs stored for host, newest first.
func (rdb *RunDB) GetRunHistory(ctx context.Context, host string) ([]RunSummary, error) {
	query := `
	SELECT id, host, username, started_at, finished_at, anonymous,
		candidates, attempts_made, found, interrupted
	FROM runs
	WHERE host = ?
	ORDER BY started_at DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, host)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var (
			s          RunSummary
			startedAt  string
			finishedAt sql.NullString
			anonymous  string
		)
		if err := rows.Scan(&s.ID, &s.Host, &s.Username, &startedAt, &finishedAt, &anonymous,
			&s.Candidates, &s.AttemptsMade, &s.Found, &s.Interrupted); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.StartedAt = parseTimestamp(startedAt)
		s.FinishedAt = parseTimestamp(finishedAt.String)
		s.Anonymous = model.AnonymousStatus(anonymous)
		results = append(results, s)
	}
	return results, rows.Err()
}

// GetRunByID returns the full report of a stored run, with its attempt log
// read back from the attempts table.
// It returns ErrRunNotFound when id does not exist.
func (rdb *RunDB) GetRunByID(ctx context.Context, id int64) (*model.RunReport, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	report.ID = id

	if report.Attempts, err = rdb.GetAttempts(ctx, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetAttempts returns the attempt log of a run ordered by index.
func (rdb *RunDB) GetAttempts(ctx context.Context, runID int64) ([]model.AttemptRecord, error) {
	query := `
	SELECT idx, outcome, elapsed_ns FROM attempts
	WHERE run_id = ?
	ORDER BY idx
	`

	rows, err := rdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	var records []model.AttemptRecord
	for rows.Next() {
		var (
			rec     model.AttemptRecord
			outcome string
			elapsed int64
		)
		if err := rows.Scan(&rec.Index, &outcome, &elapsed); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		if rec.Outcome, err = model.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("attempt %d of run %d: %w", rec.Index, runID, err)
		}
		rec.Elapsed = time.Duration(elapsed)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRun removes a run and its attempts.
func (rdb *RunDB) DeleteRun(ctx context.Context, id int64) error {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after Commit
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attempts WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete attempts: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return tx.Commit()
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp parses s with each of timestampFormats and returns the
// zero time when none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
