package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/sitecorpus/internal/config"
	"github.com/nao1215/sitecorpus/internal/database"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// historyTimeLayout formats run timestamps in history tables.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// It lists past crawl runs from the history database, or the pages of one run.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past crawl runs",
		Long: `History lists crawl runs recorded by 'sitecorpus crawl', newest first.

Given a run ID (or a unique prefix of one), it shows every page that run
visited, with its status and extracted size.

Examples:
  # List the 20 most recent runs
  sitecorpus history

  # List the 5 most recent runs
  sitecorpus history -n 5

  # Show the pages of one run
  sitecorpus history 3f2a9c`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("data-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must be non-negative", limit)
	}
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dataDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			fmt.Fprintln(out, "No crawl history found.")
			return nil
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 1 {
		return showRun(ctx, out, db, args[0])
	}
	return listRuns(ctx, out, db, limit)
}

// listRuns writes a table of the most recent runs.
func listRuns(ctx context.Context, out io.Writer, db *database.CrawlDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No crawl history found.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			shortID(r.ID),
			r.StartedAt.Local().Format(historyTimeLayout),
			r.SeedURL,
			strconv.Itoa(r.Visited),
			strconv.Itoa(r.Sections),
			runState(r),
		}
	}

	md := markdown.NewMarkdown(out)
	md.H2(fmt.Sprintf("Crawl history (%d runs)", len(runs)))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Seed URL", "Visited", "Sections", "Output"},
		Rows:   rows,
	})
	return md.Build()
}

// showRun writes the details and pages of a single run.
func showRun(ctx context.Context, out io.Writer, db *database.CrawlDB, id string) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	pages, err := db.ListPages(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	finished := "-"
	if run.Finished() {
		finished = run.FinishedAt.Local().Format(historyTimeLayout)
	}

	md := markdown.NewMarkdown(out)
	md.H2("Run " + run.ID)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", run.SeedURL},
			{"Started", run.StartedAt.Local().Format(historyTimeLayout)},
			{"Finished", finished},
			{"Output", runState(*run)},
			{"Visited", strconv.Itoa(run.Visited)},
			{"Sections", strconv.Itoa(run.Sections)},
		},
	})
	md.PlainText("")

	if len(pages) == 0 {
		md.PlainText("No pages recorded.")
		return md.Build()
	}

	rows := make([][]string, len(pages))
	for i, p := range pages {
		title := p.Title
		if p.Error != "" {
			title = p.Error
		}
		if title == "" {
			title = "-"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.Status.String(),
			p.URL,
			title,
			strconv.Itoa(p.Chars),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Status", "URL", "Title / Error", "Chars"},
		Rows:   rows,
	})
	return md.Build()
}

// shortID returns the first 8 characters of a run ID, enough for GetRun's
// prefix match in practice.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runState describes where a run's corpus went.
func runState(r database.Run) string {
	if !r.Finished() {
		return "incomplete"
	}
	if r.OutputPath == "" {
		return "-"
	}
	return r.OutputPath
}
