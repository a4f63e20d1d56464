package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/sitecorpus/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, FileName)
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != dbPath {
			t.Errorf("expected path %q, got %q", dbPath, db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dbDir, Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

// TestRuns tests creating, finishing and listing runs.
func TestRuns(t *testing.T) {
	t.Parallel()

	t.Run("create and finish a run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		id, err := db.CreateRun(ctx, "https://example.com/docs", start)
		if err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		if len(id) != 36 {
			t.Errorf("expected a UUID, got %q", id)
		}

		run, err := db.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if run.Finished() {
			t.Error("expected run to be unfinished")
		}
		if !run.StartedAt.Equal(start) {
			t.Errorf("expected start %v, got %v", start, run.StartedAt)
		}

		result := &model.CrawlResult{
			Sections:   []string{"a", "b"},
			Visited:    5,
			StartedAt:  start,
			FinishedAt: start.Add(time.Minute),
		}
		if err := db.FinishRun(ctx, id, result, "output/docs.json"); err != nil {
			t.Fatalf("failed to finish run: %v", err)
		}

		run, err = db.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if !run.Finished() || !run.FinishedAt.Equal(start.Add(time.Minute)) {
			t.Errorf("unexpected finish time %v", run.FinishedAt)
		}
		if run.Visited != 5 || run.Sections != 2 || run.OutputPath != "output/docs.json" {
			t.Errorf("unexpected run %+v", run)
		}
	})

	t.Run("finish unknown run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		err := db.FinishRun(context.Background(), "nope", &model.CrawlResult{}, "")
		if !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		for i, seed := range []string{"https://a.example/", "https://b.example/", "https://c.example/"} {
			if _, err := db.CreateRun(ctx, seed, base.Add(time.Duration(i)*time.Hour)); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].SeedURL != "https://c.example/" || runs[2].SeedURL != "https://a.example/" {
			t.Errorf("unexpected order: %s, %s, %s", runs[0].SeedURL, runs[1].SeedURL, runs[2].SeedURL)
		}

		runs, err = db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("sub-second ordering", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		if _, err := db.CreateRun(ctx, "https://first.example/", base); err != nil {
			t.Fatal(err)
		}
		if _, err := db.CreateRun(ctx, "https://second.example/", base.Add(500*time.Millisecond)); err != nil {
			t.Fatal(err)
		}

		runs, err := db.ListRuns(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if runs[0].SeedURL != "https://second.example/" {
			t.Errorf("expected latest run first, got %s", runs[0].SeedURL)
		}
	})

	t.Run("get by prefix", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		id, err := db.CreateRun(ctx, "https://example.com/", time.Now())
		if err != nil {
			t.Fatal(err)
		}

		run, err := db.GetRun(ctx, id[:8])
		if err != nil {
			t.Fatalf("failed to get run by prefix: %v", err)
		}
		if run.ID != id {
			t.Errorf("expected %s, got %s", id, run.ID)
		}

		if _, err := db.GetRun(ctx, "zzzzzzzz"); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})
}

// TestPages tests storing page outcomes.
func TestPages(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.CreateRun(ctx, "https://example.com/", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	other, err := db.CreateRun(ctx, "https://other.example/", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	records := []model.PageRecord{
		{URL: "https://example.com/", Title: "Home", Status: model.PageAccepted, Chars: 11, Links: 2},
		{URL: "https://example.com/big", Title: "Big", Status: model.PageAccepted, Chars: 130000, Truncated: true},
		{URL: "https://example.com/gone", Status: model.PageFailed, Error: "404"},
		{URL: "https://example.com/home2", Title: "Home", Status: model.PageDuplicate, Chars: 4},
	}
	for _, r := range records {
		if err := db.InsertPage(ctx, id, r); err != nil {
			t.Fatalf("failed to insert page: %v", err)
		}
	}
	if err := db.InsertPage(ctx, other, model.PageRecord{URL: "https://other.example/", Status: model.PageAccepted}); err != nil {
		t.Fatal(err)
	}

	pages, err := db.ListPages(ctx, id)
	if err != nil {
		t.Fatalf("failed to list pages: %v", err)
	}
	if len(pages) != len(records) {
		t.Fatalf("expected %d pages, got %d", len(records), len(pages))
	}
	for i := range records {
		if pages[i] != records[i] {
			t.Errorf("page %d: expected %+v, got %+v", i, records[i], pages[i])
		}
	}

	none, err := db.ListPages(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no pages, got %d", len(none))
	}
}

// TestParseTimestamp tests parsing stored timestamps.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	for _, s := range []string{
		"2025-03-01T12:30:00.000000000Z",
		"2025-03-01T12:30:00Z",
		"2025-03-01 12:30:00",
	} {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}

	if got := parseTimestamp("garbage"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
