package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/semcrawl/internal/config"
	"github.com/nao1215/semcrawl/internal/model"
	"github.com/nao1215/semcrawl/internal/report"
)

// TestNewCrawlCmd tests the crawl command definition.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl [start-url] [target-url]" {
			t.Errorf("unexpected use %q", cmd.Use)
		}
	})

	t.Run("accepts at most two arguments", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{"a", "b", "c"}); err == nil {
			t.Error("expected error for three arguments")
		}
		if err := cmd.Args(cmd, nil); err != nil {
			t.Errorf("expected no arguments to be accepted: %v", err)
		}
	})

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"config", "c", ""},
		{"timeout", "t", config.DefaultTimeout.String()},
		{"crawl-delay", "", config.DefaultCrawlDelay.String()},
		{"batch-size", "b", "1000"},
		{"proxy", "", ""},
		{"respect-robots", "", "false"},
		{"log-json", "", "false"},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"output", "o", ""},
	}
	for _, tt := range flags {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		if getVerboseFlag(NewCrawlCmd()) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		crawlCmd, _, err := root.Find([]string{"crawl"})
		if err != nil {
			t.Fatalf("failed to find crawl command: %v", err)
		}
		if !getVerboseFlag(crawlCmd) {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// writeConfig writes a configuration file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "semcrawl.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		path := writeConfig(t, "authBaseURL: https://auth.example.com/\n")
		cmd := NewCrawlCmd()
		_ = cmd.Flags().Set("config", path)

		cfg, err := buildConfig(cmd, []string{"https://en.wikipedia.org/wiki/Go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StartURL != "https://en.wikipedia.org/wiki/Go" {
			t.Errorf("unexpected start URL %q", cfg.StartURL)
		}
		if cfg.TargetURL != "" {
			t.Errorf("expected empty target URL, got %q", cfg.TargetURL)
		}
		if cfg.OracleBatchSize != config.DefaultOracleBatchSize {
			t.Errorf("expected default batch size, got %d", cfg.OracleBatchSize)
		}
		if cfg.AuthBaseURL != "https://auth.example.com/" {
			t.Errorf("expected auth URL from file, got %q", cfg.AuthBaseURL)
		}
	})

	t.Run("flags override config file", func(t *testing.T) {
		path := writeConfig(t, `
oracle:
  batchSize: 200
http:
  timeout: 10s
  crawlDelay: 2s
`)
		cmd := NewCrawlCmd()
		_ = cmd.Flags().Set("config", path)
		_ = cmd.Flags().Set("batch-size", "50")
		_ = cmd.Flags().Set("crawl-delay", "0s")
		_ = cmd.Flags().Set("proxy", "127.0.0.1:9050")
		_ = cmd.Flags().Set("respect-robots", "true")
		_ = cmd.Flags().Set("log-json", "true")

		cfg, err := buildConfig(cmd, []string{"https://a/", "https://b/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.OracleBatchSize != 50 {
			t.Errorf("expected batch size 50, got %d", cfg.OracleBatchSize)
		}
		if cfg.CrawlDelay != 0 {
			t.Errorf("expected crawl delay 0, got %v", cfg.CrawlDelay)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected timeout from file, got %v", cfg.Timeout)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" || !cfg.RespectRobots {
			t.Errorf("unexpected proxy/robots settings %q %v", cfg.ProxyAddress, cfg.RespectRobots)
		}
		if cfg.TargetURL != "https://b/" {
			t.Errorf("unexpected target URL %q", cfg.TargetURL)
		}
		if !cfg.LogJSON {
			t.Error("expected JSON logging")
		}
	})

	t.Run("report flags", func(t *testing.T) {
		path := writeConfig(t, "")
		cmd := NewCrawlCmd()
		_ = cmd.Flags().Set("config", path)
		_ = cmd.Flags().Set("json", "true")
		_ = cmd.Flags().Set("output", "out/r.json")

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.JSONReport || cfg.ReportFile != "out/r.json" {
			t.Errorf("unexpected report settings %v %q", cfg.JSONReport, cfg.ReportFile)
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewCrawlCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml"))

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		path := writeConfig(t, "{invalid yaml")
		cmd := NewCrawlCmd()
		_ = cmd.Flags().Set("config", path)

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})
}

// TestPromptURLs tests interactive URL input.
func TestPromptURLs(t *testing.T) {
	t.Parallel()

	t.Run("asks for missing URLs", func(t *testing.T) {
		t.Parallel()

		var prompts bytes.Buffer
		p := newPrompter(strings.NewReader("https://en.wikipedia.org/wiki/A\nhttps://en.wikipedia.org/wiki/B\n"), &prompts)
		cfg := config.NewConfig()

		if err := promptURLs(p, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StartURL != "https://en.wikipedia.org/wiki/A" || cfg.TargetURL != "https://en.wikipedia.org/wiki/B" {
			t.Errorf("unexpected URLs %q %q", cfg.StartURL, cfg.TargetURL)
		}
		if !strings.Contains(prompts.String(), "starting URL") || !strings.Contains(prompts.String(), "end-goal URL") {
			t.Errorf("unexpected prompts %q", prompts.String())
		}
	})

	t.Run("does not ask for given URLs", func(t *testing.T) {
		t.Parallel()

		var prompts bytes.Buffer
		p := newPrompter(strings.NewReader(""), &prompts)
		cfg := config.NewConfig()
		cfg.StartURL = "https://en.wikipedia.org/wiki/A"
		cfg.TargetURL = "https://en.wikipedia.org/wiki/B"

		if err := promptURLs(p, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prompts.Len() != 0 {
			t.Errorf("expected no prompts, got %q", prompts.String())
		}
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		t.Parallel()

		p := newPrompter(strings.NewReader("not a url\nhttps://en.wikipedia.org/wiki/B\n"), &bytes.Buffer{})
		if err := promptURLs(p, config.NewConfig()); !errors.Is(err, config.ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		p := newPrompter(strings.NewReader("\n"), &bytes.Buffer{})
		if err := promptURLs(p, config.NewConfig()); !errors.Is(err, errEmptyInput) {
			t.Errorf("expected errEmptyInput, got %v", err)
		}
	})
}

// TestPrompterPassword tests password input from a non-terminal reader.
func TestPrompterPassword(t *testing.T) {
	t.Parallel()

	var prompts bytes.Buffer
	p := newPrompter(strings.NewReader("s3cret"), &prompts)
	got, err := p.password("Admin Password: ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("expected s3cret, got %q", got)
	}
	if prompts.String() != "Admin Password: " {
		t.Errorf("unexpected prompt %q", prompts.String())
	}
}

// TestNewLogger tests log format selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("text by default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		newLogger(&buf, config.NewConfig()).Warn("slow", "token", "secret-token")
		out := buf.String()
		if !strings.Contains(out, "msg=slow") {
			t.Errorf("expected text log line, got %q", out)
		}
		if strings.Contains(out, "secret-token") {
			t.Errorf("expected token to be masked, got %q", out)
		}
	})

	t.Run("json when requested", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.LogJSON = true

		var buf bytes.Buffer
		newLogger(&buf, cfg).Warn("slow", "token", "secret-token")

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
		}
		if line["msg"] != "slow" {
			t.Errorf("unexpected msg %v", line["msg"])
		}
		if line["token"] == "secret-token" {
			t.Error("expected token to be masked")
		}
	})
}

// TestOutputReport tests report output selection.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	newReport := func() *model.CrawlReport {
		now := time.Now()
		return &model.CrawlReport{
			RunID:      "run",
			StartURL:   "https://en.wikipedia.org/wiki/A",
			TargetURL:  "https://en.wikipedia.org/wiki/B",
			Outcome:    model.OutcomeFound,
			Steps:      []model.Step{{Index: 1, URL: "https://en.wikipedia.org/wiki/A", Title: "A"}},
			Path:       []string{"https://en.wikipedia.org/wiki/A"},
			StartedAt:  now,
			FinishedAt: now,
		}
	}

	t.Run("text to stdout by default", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := outputReport(config.NewConfig(), newReport(), &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "SEMCRAWL REPORT") {
			t.Error("expected text report")
		}
	})

	t.Run("json to file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.JSONReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "nested", "report.json")

		var out bytes.Buffer
		if err := outputReport(cfg, newReport(), &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "SEMCRAWL REPORT") {
			t.Error("expected text summary on stdout")
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var decoded report.JSONReport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Report == nil || decoded.Report.RunID != "run" {
			t.Errorf("unexpected report %+v", decoded.Report)
		}
	})

	t.Run("text to file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.txt")

		var out bytes.Buffer
		if err := outputReport(cfg, newReport(), &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Error("expected nothing on stdout")
		}
		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(data), "SEMCRAWL REPORT") {
			t.Error("expected text report in file")
		}
	})

	t.Run("verbose text lists visited pages", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Verbose = true

		var out bytes.Buffer
		if err := outputReport(cfg, newReport(), &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "VISITED PAGES") {
			t.Error("expected visited pages in verbose report")
		}
	})

	t.Run("markdown to stdout", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.MarkdownReport = true

		var out bytes.Buffer
		if err := outputReport(cfg, newReport(), &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "# Semcrawl Report") {
			t.Error("expected markdown report")
		}
	})
}

// newServices starts a wiki and a similarity service for end-to-end runs.
// Start links to Middle and Elsewhere; Middle links to Target.
func newServices(t *testing.T, password string) (*httptest.Server, *httptest.Server) {
	t.Helper()

	pages := map[string][]string{
		"Start":     {"Elsewhere", "Middle"},
		"Elsewhere": {},
		"Middle":    {"Target"},
		"Target":    {},
	}
	wikiMux := http.NewServeMux()
	wikiMux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/wiki/")
		links, ok := pages[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><head><title>%s - Wikipedia</title></head><body>", name)
		for _, l := range links {
			fmt.Fprintf(w, `<a href="/wiki/%s">%s</a>`, l, l)
		}
		fmt.Fprint(w, "</body></html>")
	})
	wiki := httptest.NewServer(wikiMux)

	oml := http.NewServeMux()
	oml.HandleFunc("/api/oauth2/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		if req.Password != password {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"accessToken":"tok"}`)
	})
	oml.HandleFunc("/v1/cognitive-text/similarity", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TextList []string `json:"textList"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		// Keep input order: "Elsewhere" before "Middle" forces a backtrack.
		out := make([]map[string]any, 0, len(req.TextList))
		for _, s := range req.TextList {
			out = append(out, map[string]any{"text": s, "similarityScore": 0.5})
		}
		_ = json.NewEncoder(w).Encode(out) //nolint:errcheck
	})
	service := httptest.NewServer(oml)

	t.Cleanup(func() {
		wiki.Close()
		service.Close()
	})
	return wiki, service
}

// runRoot executes the root command with args and stdin.
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// TestCrawlCommand runs the crawl command against local services.
func TestCrawlCommand(t *testing.T) {
	t.Run("reaches target", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		stdout, stderr, err := runRoot(t, "pw\n", "crawl", "-c", cfgPath, "--crawl-delay", "0s",
			wiki.URL+"/wiki/Start", wiki.URL+"/wiki/Target")
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
		}

		for i, name := range []string{"Start", "Elsewhere", "Middle", "Target"} {
			block := fmt.Sprintf("Step %d:\nLink: %s/wiki/%s\nTitle: %s\n", i+1, wiki.URL, name, name)
			if !strings.Contains(stdout, block) {
				t.Errorf("expected progress block %q in output", block)
			}
		}
		if !strings.Contains(stdout, "Target reached") {
			t.Error("expected text report on stdout")
		}
		if strings.Contains(stderr, "pw\n") {
			t.Error("password must not be echoed")
		}
	})

	t.Run("asks for URLs", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		stdin := "pw\n" + wiki.URL + "/wiki/Middle\n" + wiki.URL + "/wiki/Target\n"
		stdout, stderr, err := runRoot(t, stdin, "crawl", "-c", cfgPath, "--crawl-delay", "0s")
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
		}
		if !strings.Contains(stdout, "Step 2:") {
			t.Errorf("expected two steps, got %q", stdout)
		}
	})

	t.Run("target not reached", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		stdout, _, err := runRoot(t, "pw\n", "crawl", "-c", cfgPath, "--crawl-delay", "0s",
			wiki.URL+"/wiki/Elsewhere", wiki.URL+"/wiki/Target")
		if !errors.Is(err, errTargetNotReached) {
			t.Fatalf("expected errTargetNotReached, got %v", err)
		}
		if !strings.Contains(stdout, "not reachable") {
			t.Error("expected not reachable status in report")
		}
	})

	t.Run("authentication failure is fatal", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		stdout, _, err := runRoot(t, "wrong\n", "crawl", "-c", cfgPath,
			wiki.URL+"/wiki/Start", wiki.URL+"/wiki/Target")
		if err == nil || !strings.Contains(err.Error(), "authentication failed") {
			t.Fatalf("expected authentication error, got %v", err)
		}
		if strings.Contains(stdout, "Step 1:") {
			t.Error("expected no crawl after failed authentication")
		}
	})

	t.Run("missing target page is fatal", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		_, _, err := runRoot(t, "pw\n", "crawl", "-c", cfgPath,
			wiki.URL+"/wiki/Start", wiki.URL+"/wiki/Nowhere")
		if err == nil || !strings.Contains(err.Error(), "failed to resolve target page") {
			t.Fatalf("expected target lookup error, got %v", err)
		}
	})

	t.Run("json report moves progress to stderr", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		stdout, stderr, err := runRoot(t, "pw\n", "crawl", "-c", cfgPath, "--crawl-delay", "0s", "--json",
			wiki.URL+"/wiki/Middle", wiki.URL+"/wiki/Target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("expected stdout to be JSON: %v", err)
		}
		if decoded.Report == nil || !decoded.Report.Reached() {
			t.Errorf("unexpected report %+v", decoded.Report)
		}
		if !strings.Contains(stderr, "Step 1:") {
			t.Error("expected progress on stderr")
		}
	})

	t.Run("unreachable start page reports empty steps", func(t *testing.T) {
		wiki, service := newServices(t, "pw")
		cfgPath := writeConfig(t, fmt.Sprintf("authBaseURL: %s\noracleBaseURL: %s\nscope:\n  prefix: %s/wiki/\n",
			service.URL, service.URL, wiki.URL))

		stdout, _, err := runRoot(t, "pw\n", "crawl", "-c", cfgPath, "--crawl-delay", "0s", "--json",
			wiki.URL+"/wiki/Gone", wiki.URL+"/wiki/Target")
		if !errors.Is(err, errTargetNotReached) {
			t.Fatalf("expected errTargetNotReached, got %v", err)
		}
		if !strings.Contains(stdout, `"steps": []`) {
			t.Errorf("expected an empty steps array, got %s", stdout)
		}

		var decoded report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("expected stdout to be JSON: %v", err)
		}
		if decoded.Report == nil || decoded.Report.Outcome != model.OutcomeNotFound {
			t.Errorf("unexpected report %+v", decoded.Report)
		}
	})

	t.Run("configuration error", func(t *testing.T) {
		cfgPath := writeConfig(t, "")
		_, _, err := runRoot(t, "", "crawl", "-c", cfgPath, "--json", "--markdown")
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})
}
