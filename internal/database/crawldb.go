package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitecorpus/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "sitecorpus.db"

var (
	// ErrDatabaseNotFound is returned by Open when the file is missing and
	// creation is disabled.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrRunNotFound is returned when no run matches an ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an ID prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run ID prefix matches more than one run")
)

// CrawlDB stores crawl runs and their page outcomes.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
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
// Without CreateIfNotExists a missing database is an error.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
// Timestamps are stored as fixed-width RFC 3339 text in UTC.
func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed_url TEXT NOT NULL,
		output_path TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT,
		visited INTEGER NOT NULL DEFAULT 0,
		sections INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		chars INTEGER NOT NULL DEFAULT 0,
		truncated INTEGER NOT NULL DEFAULT 0,
		links INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one stored crawl.
type Run struct {
	ID         string
	SeedURL    string
	OutputPath string
	StartedAt  time.Time

	// FinishedAt is zero while the run is unfinished or was interrupted.
	FinishedAt time.Time

	Visited  int
	Sections int
}

// Finished reports whether FinishRun was called for the run.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// CreateRun records the start of a crawl and returns its new ID.
func (cdb *CrawlDB) CreateRun(ctx context.Context, seedURL string, startedAt time.Time) (string, error) {
	id := uuid.NewString()

	_, err := cdb.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed_url, started_at) VALUES (?, ?, ?)`,
		id, seedURL, formatTimestamp(startedAt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// InsertPage appends the outcome of one dispatched URL to a run.
func (cdb *CrawlDB) InsertPage(ctx context.Context, runID string, page model.PageRecord) error {
	query := `
	INSERT INTO pages (run_id, url, title, status, chars, truncated, links, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := cdb.db.ExecContext(ctx, query,
		runID,
		page.URL,
		page.Title,
		page.Status.String(),
		page.Chars,
		page.Truncated,
		page.Links,
		page.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and output path of a run.
func (cdb *CrawlDB) FinishRun(ctx context.Context, runID string, result *model.CrawlResult, outputPath string) error {
	query := `
	UPDATE runs
	SET output_path = ?, finished_at = ?, visited = ?, sections = ?
	WHERE id = ?
	`

	finishedAt := result.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	res, err := cdb.db.ExecContext(ctx, query,
		outputPath,
		formatTimestamp(finishedAt),
		result.Visited,
		len(result.Sections),
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, seed_url, output_path, started_at, finished_at, visited, sections
	FROM runs
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns the run whose ID is id or starts with id.
func (cdb *CrawlDB) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
	SELECT id, seed_url, output_path, started_at, finished_at, visited, sections
	FROM runs
	WHERE id = ? OR id LIKE ? || '%'
	LIMIT 2
	`

	rows, err := cdb.db.QueryContext(ctx, query, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return &run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}
}

// ListPages returns the page outcomes of a run in dispatch order.
func (cdb *CrawlDB) ListPages(ctx context.Context, runID string) ([]model.PageRecord, error) {
	query := `
	SELECT url, title, status, chars, truncated, links, error
	FROM pages
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []model.PageRecord
	for rows.Next() {
		var p model.PageRecord
		var status string

		err := rows.Scan(
			&p.URL,
			&p.Title,
			&status,
			&p.Chars,
			&p.Truncated,
			&p.Links,
			&p.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		p.Status = model.PageStatus(status)
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// scanRun reads one runs row.
func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString

	err := rows.Scan(
		&run.ID,
		&run.SeedURL,
		&run.OutputPath,
		&startedAt,
		&finishedAt,
		&run.Visited,
		&run.Sections,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTimestamp(finishedAt.String)
	}
	return run, nil
}

// timestampLayout keeps a fixed width so stored values sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTimestamp formats t for storage.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp. Unknown formats give the zero
// time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
