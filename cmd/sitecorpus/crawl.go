package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sitecorpus/internal/config"
	"github.com/nao1215/sitecorpus/internal/corpus"
	"github.com/nao1215/sitecorpus/internal/crawler"
	"github.com/nao1215/sitecorpus/internal/database"
	"github.com/nao1215/sitecorpus/internal/fetcher"
	"github.com/nao1215/sitecorpus/internal/log"
	"github.com/nao1215/sitecorpus/internal/model"
	"github.com/nao1215/sitecorpus/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]",
		Short: "Crawl a website and write its text corpus",
		Long: `Crawl visits every page reachable from the seed URL on the same hostname,
breadth-first, and writes the collected text to <output-dir>/<name>.json.

<name> is the last path segment of the seed URL, or its hostname when the
path is empty. Each page contributes one section "<title>\n\n<text>"; a
page whose title was already seen is skipped. Pages that fail to load are
logged and skipped.

The seed URL is taken from the argument, or from $SITECORPUS_URL when no
argument is given.

Examples:
  # Crawl a documentation site into output/docs.json
  sitecorpus crawl https://example.com/docs

  # Seed from the environment, write into ./corpora
  SITECORPUS_URL=https://example.com/ sitecorpus crawl -o corpora

  # Render JavaScript pages with headless Chrome and write a Markdown report
  sitecorpus crawl --fetcher browser --report crawl.md https://spa.example.com/

  # Send an auth header and stop after 200 pages
  sitecorpus crawl -H "Authorization: Bearer token" -p 200 https://example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for the corpus JSON file (created if needed)")
	cmd.Flags().StringP("fetcher", "f", config.DefaultFetcher,
		"Page fetcher: http, colly or browser")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request (0 uses the fetcher's default)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of URLs to visit (0 means no limit)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().StringArrayP("header", "H", nil,
		"Extra request header as 'Name: value' (repeatable)")
	cmd.Flags().String("cookie", "",
		"Cookie header sent with every request")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecorpus in current or home directory)")
	cmd.Flags().StringP("report", "r", "",
		"Write a crawl report to this file (.md, .json or plain text)")
	cmd.Flags().Bool("no-history", false,
		"Do not record the crawl in the history database")
	cmd.Flags().String("data-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON lines")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return err
	}
	var logger *slog.Logger
	if logJSON {
		logger = log.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	} else {
		logger = log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig merges defaults, the config file and flags into a Config.
// Flags only override file values when they were set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if len(args) > 0 {
		cfg.SeedURL = args[0]
	} else {
		cfg.SeedURL = os.Getenv(config.SeedURLEnv)
	}
	cfg.SeedURL = strings.TrimSpace(cfg.SeedURL)
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; the default search may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	if u, err := url.Parse(cfg.SeedURL); err == nil {
		cfg.ApplySite(cfg.SiteConfigs.GetSiteConfig(u.Hostname()))
	}

	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("fetcher") {
		if cfg.Fetcher, err = flags.GetString("fetcher"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cookie") {
		if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
			return nil, err
		}
	}

	headers, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		cfg.Headers[name] = strings.TrimSpace(value)
	}

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("data-dir"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	return cfg, nil
}

// runCrawl crawls cfg.SeedURL, writes the corpus and optional report, and
// prints a summary to out. A canceled crawl still writes what it collected.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	f, err := fetcher.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close fetcher", "error", err)
		}
	}()

	history, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer history.close()

	spider := crawler.NewSpider(f,
		crawler.WithLogger(logger),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithPageHook(history.recordPage),
	)

	logger.Info("starting crawl",
		"seed", cfg.SeedURL,
		"fetcher", f.Name(),
		"output_dir", cfg.OutputDir,
	)

	result, crawlErr := spider.Crawl(ctx, cfg.SeedURL)
	if result == nil {
		return fmt.Errorf("crawl failed: %w", crawlErr)
	}
	if crawlErr != nil {
		logger.Warn("crawl interrupted, writing partial corpus", "error", crawlErr)
	}

	outputPath, err := finalize(cfg, result)
	if err != nil {
		return err
	}
	history.finish(result, outputPath)

	logger.Info("corpus written",
		"path", outputPath,
		"sections", len(result.Sections),
		"visited", result.Visited,
	)

	fmt.Fprintf(out, "Corpus written to %s\n", outputPath)
	if _, err := report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose)).Write(result); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	return nil
}

// finalize writes the corpus file and, when requested, the report file.
// Both are independent, so they are written concurrently.
func finalize(cfg *config.Config, result *model.CrawlResult) (string, error) {
	var (
		g          errgroup.Group
		outputPath string
	)

	g.Go(func() error {
		var err error
		outputPath, err = corpus.Write(cfg.OutputDir, result.SeedURL, result.Content())
		return err
	})

	if cfg.ReportFile != "" {
		g.Go(func() error {
			return writeReport(cfg.ReportFile, result)
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return outputPath, nil
}

// writeReport writes the crawl report in the format implied by the file
// extension.
func writeReport(path string, result *model.CrawlResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path comes from the user
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	w, err := report.NewWriter(report.FormatFromPath(path), f, getVersion())
	if err != nil {
		_ = f.Close()
		return err
	}
	if _, err := w.Write(result); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// crawlHistory records a run in the history database. A zero value does
// nothing, so callers need no nil checks when history is disabled.
type crawlHistory struct {
	db     *database.CrawlDB
	runID  string
	ctx    context.Context
	logger *slog.Logger
}

// openHistory opens the database and creates the run row.
// History failures other than opening the database are only logged.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*crawlHistory, error) {
	if !cfg.SaveHistory {
		return &crawlHistory{}, nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Writes must outlive an interrupted crawl.
	dbCtx := context.WithoutCancel(ctx)

	runID, err := db.CreateRun(dbCtx, cfg.SeedURL, time.Now())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("history run created", "run_id", runID, "db", db.Path())

	return &crawlHistory{db: db, runID: runID, ctx: dbCtx, logger: logger}, nil
}

func (h *crawlHistory) recordPage(page model.PageRecord) {
	if h.db == nil {
		return
	}
	if err := h.db.InsertPage(h.ctx, h.runID, page); err != nil {
		h.logger.Warn("failed to record page", "url", page.URL, "error", err)
	}
}

func (h *crawlHistory) finish(result *model.CrawlResult, outputPath string) {
	if h.db == nil {
		return
	}
	if err := h.db.FinishRun(h.ctx, h.runID, result, outputPath); err != nil {
		h.logger.Warn("failed to finish history run", "run_id", h.runID, "error", err)
	}
}

func (h *crawlHistory) close() {
	if h.db == nil {
		return
	}
	if err := h.db.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		h.logger.Warn("failed to close history database", "error", err)
	}
}
