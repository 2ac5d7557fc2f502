package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/semcrawl/internal/config"
	"github.com/nao1215/semcrawl/internal/crawler"
	"github.com/nao1215/semcrawl/internal/fetch"
	semlog "github.com/nao1215/semcrawl/internal/log"
	"github.com/nao1215/semcrawl/internal/model"
	"github.com/nao1215/semcrawl/internal/oracle"
	"github.com/nao1215/semcrawl/internal/report"
	"github.com/nao1215/semcrawl/internal/title"
	"github.com/spf13/cobra"
)

// errTargetNotReached ends the process with a non-zero status when the crawl
// finished without reaching the target. The report already says so.
var errTargetNotReached = errors.New("target page was not reached")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-url] [target-url]",
		Short: "Crawl from a start article towards a target article",
		Long: `Crawl walks Wikipedia from the start article towards the target article.

On every page the in-scope links are ranked by the similarity of their text to
the target title, and the best unvisited link is followed. Dead ends are left
by backtracking to the previous page's next-best link.

The admin password for the similarity service is always asked for
interactively. URLs that are not given as arguments are asked for too.

Examples:
  # Crawl between two articles
  semcrawl crawl https://en.wikipedia.org/wiki/Go_\(programming_language\) \
      https://en.wikipedia.org/wiki/Ken_Thompson

  # Write a JSON report to a file
  semcrawl crawl --json -o report.json <start-url> <target-url>

  # Honour robots.txt and slow down
  semcrawl crawl --respect-robots --crawl-delay 1s <start-url> <target-url>

Configuration file (.semcrawl) example:
  authBaseURL: https://example.adb.oraclecloud.com/
  oracleBaseURL: https://example.adb.oraclecloud.com/omlusers/
  oracle:
    batchSize: 1000
  scope:
    ignorePatterns:
      - "/wiki/Special:*"
      - "/wiki/File:*"
  http:
    crawlDelay: 500ms`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .semcrawl in current or home directory)")

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Minimum time between two page fetches")
	cmd.Flags().IntP("batch-size", "b", config.DefaultOracleBatchSize,
		"Maximum number of link texts per similarity request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for page fetches (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("respect-robots", false,
		"Skip links disallowed by robots.txt")
	cmd.Flags().Bool("log-json", false,
		"Write log lines to stderr as JSON")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

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

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	password, err := p.password("Admin Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := promptURLs(p, cfg); err != nil {
		return err
	}

	crawlReport, err := runCrawl(ctx, cfg, password, progressWriter(cmd, cfg), cmd.ErrOrStderr(), logger)
	if err != nil {
		return err
	}

	if err := outputReport(cfg, crawlReport, cmd.OutOrStdout()); err != nil {
		return err
	}

	switch crawlReport.Outcome {
	case model.OutcomeFound:
		return nil
	case model.OutcomeError:
		return fmt.Errorf("crawl aborted: %s", crawlReport.Error)
	default:
		return errTargetNotReached
	}
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

// buildConfig creates a Config from the configuration file, the environment
// and cobra command flags, in increasing order of precedence.
// Flags only override the file when they were set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("crawl-delay") {
		if cfg.CrawlDelay, err = flags.GetDuration("crawl-delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("batch-size") {
		if cfg.OracleBatchSize, err = flags.GetInt("batch-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("respect-robots") {
		if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.StartURL = args[0]
	}
	if len(args) > 1 {
		cfg.TargetURL = args[1]
	}
	return cfg, nil
}

// promptURLs asks for the start and target URLs that were not given as
// arguments, then validates both.
func promptURLs(p *prompter, cfg *config.Config) error {
	var err error
	if cfg.StartURL == "" {
		if cfg.StartURL, err = p.line("Enter a starting URL from Wikipedia: "); err != nil {
			return fmt.Errorf("failed to read start URL: %w", err)
		}
	}
	if cfg.TargetURL == "" {
		if cfg.TargetURL, err = p.line("Enter the end-goal URL from Wikipedia: "); err != nil {
			return fmt.Errorf("failed to read target URL: %w", err)
		}
	}

	if err := config.ValidatePageURL(cfg.StartURL); err != nil {
		return fmt.Errorf("invalid start URL %q: %w", cfg.StartURL, err)
	}
	if err := config.ValidatePageURL(cfg.TargetURL); err != nil {
		return fmt.Errorf("invalid target URL %q: %w", cfg.TargetURL, err)
	}
	return nil
}

// newLogger returns the credential-masking logger selected by cfg.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return semlog.NewJSONLogger(w, cfg.Verbose)
	}
	return semlog.NewLogger(w, cfg.Verbose)
}

// progressWriter returns where per-page progress blocks go.
// They move to stderr when a machine-readable report is written to stdout.
func progressWriter(cmd *cobra.Command, cfg *config.Config) io.Writer {
	if cfg.ReportFile == "" && (cfg.JSONReport || cfg.MarkdownReport) {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

// runCrawl authenticates, resolves the target title, and crawls.
// Authentication and target lookup failures are returned as errors; every
// crawl outcome, including cancellation, is returned as a report.
func runCrawl(ctx context.Context, cfg *config.Config, password string, progress, status io.Writer, logger *slog.Logger) (*model.CrawlReport, error) {
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	httpClient, err := fetch.NewHTTPClient(fetch.HTTPOptions{
		Timeout:      cfg.Timeout,
		ProxyAddress: cfg.ProxyAddress,
		Cookie:       cfg.Cookie,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	normalizer := title.NewNormalizer(cfg.TitleSuffix)
	fetcher := fetch.NewFetcher(httpClient,
		fetch.WithDelay(cfg.CrawlDelay),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithTitleNormalizer(normalizer),
		fetch.WithLogger(logger),
	)
	oracleClient := oracle.NewClient(cfg.AuthBaseURL, cfg.OracleBaseURL,
		oracle.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		oracle.WithBatchSize(cfg.OracleBatchSize),
		oracle.WithConcurrency(cfg.OracleConcurrency),
		oracle.WithLanguage(cfg.Language),
		oracle.WithUsername(cfg.Username),
		oracle.WithMaxResponseSize(cfg.MaxBodySize),
		oracle.WithLogger(logger),
	)

	var token string
	err = withSpinner(status, "Authenticating...", func() error {
		var err error
		token, err = oracleClient.Token(ctx, password)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	var target crawler.Target
	err = withSpinner(status, "Looking up target page...", func() error {
		page, err := fetcher.Fetch(ctx, cfg.TargetURL)
		if err != nil {
			return err
		}
		target = crawler.Target{URL: cfg.TargetURL, Title: page.Title}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target page: %w", err)
	}

	scopeOpts := []crawler.ScopeOption{
		crawler.WithIgnorePatterns(cfg.IgnorePatterns),
		crawler.WithFollowPatterns(cfg.FollowPatterns),
	}
	if cfg.RespectRobots {
		scopeOpts = append(scopeOpts, crawler.WithRobots(fetch.NewRobots(httpClient, cfg.UserAgent, logger)))
	}

	scope := crawler.NewScope(cfg.ScopePrefix, scopeOpts...)
	logger.Debug("crawl settings",
		"scope", scope.Prefix(),
		"titleSuffix", normalizer.Suffix(),
		"robots", cfg.RespectRobots,
	)

	printer := report.NewSimpleWriter(progress)
	ctrl := crawler.NewController(fetcher, oracleClient, target, token,
		crawler.WithScope(scope),
		crawler.WithNormalizer(normalizer),
		crawler.WithLogger(logger),
		crawler.WithStepHook(func(s model.Step) {
			if _, err := printer.WriteStep(s); err != nil {
				logger.Warn("failed to write progress", "error", err)
			}
		}),
	)

	logger.Info("starting crawl", "start", cfg.StartURL, "target", target.URL, "targetTitle", target.Title)

	crawlReport := &model.CrawlReport{
		RunID:       runID,
		StartURL:    cfg.StartURL,
		TargetURL:   target.URL,
		TargetTitle: target.Title,
		StartedAt:   time.Now(),
	}
	result := ctrl.Crawl(ctx, cfg.StartURL)
	crawlReport.FinishedAt = time.Now()
	crawlReport.Outcome = result.Outcome
	crawlReport.Steps = result.Steps
	crawlReport.Path = result.Path
	if result.Err != nil {
		crawlReport.Error = result.Err.Error()
	}

	logger.Info("crawl finished",
		"outcome", result.Outcome.String(),
		"visited", len(result.Steps),
		"duration", crawlReport.Duration(),
	)
	return crawlReport, nil
}

// outputReport writes the crawl report in the requested format, to the report
// file when one is configured and to stdout otherwise. When a JSON or Markdown
// report goes to a file, the text summary is still printed to stdout.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport, stdout io.Writer) error {
	format := report.FormatText
	switch {
	case cfg.JSONReport:
		format = report.FormatJSON
	case cfg.MarkdownReport:
		format = report.FormatMarkdown
	}

	if cfg.ReportFile == "" {
		if _, err := report.NewWriter(format, stdout, getVersion(), cfg.Verbose).Write(crawlReport); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writers := []report.Writer{report.NewWriter(format, f, getVersion(), cfg.Verbose)}
	if format != report.FormatText {
		writers = append([]report.Writer{report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose))}, writers...)
	}
	if _, err := report.NewMultiWriter(writers...).Write(crawlReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
