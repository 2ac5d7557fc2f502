package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "semcrawl"

	// DefaultScopePrefix restricts the crawl to English Wikipedia articles.
	DefaultScopePrefix = "https://en.wikipedia.org/wiki/"

	// DefaultTitleSuffix is stripped from titles before similarity scoring.
	DefaultTitleSuffix = " - Wikipedia"

	// DefaultLanguage is the language hint sent to the similarity service.
	DefaultLanguage = "AMERICAN"

	// DefaultUsername is the account used for the token exchange.
	DefaultUsername = "admin"

	// DefaultOracleBatchSize is the largest number of texts the similarity
	// service accepts in one request.
	DefaultOracleBatchSize = 1000

	// DefaultOracleConcurrency sends ranking batches one at a time.
	DefaultOracleConcurrency = 1

	// DefaultTimeout applies to each HTTP request, not to the whole crawl.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the minimum spacing between page fetches.
	// Wikipedia asks crawlers to keep their request rate modest.
	DefaultCrawlDelay = 250 * time.Millisecond

	// DefaultUserAgent identifies semcrawl in HTTP requests.
	DefaultUserAgent = "semcrawl/1.0 (+https://github.com/nao1215/semcrawl)"

	// DefaultMaxBodySize limits how much of a page body is read.
	// Large Wikipedia articles are around 2MB of HTML.
	DefaultMaxBodySize = 8 * 1024 * 1024 // 8MB
)

// Environment variables holding the service base URLs.
const (
	EnvAuthBaseURL   = "OML_AUTH_BASE_URL"
	EnvOracleBaseURL = "OML_SERVICE_BASE_URL"
)

// Config holds all configuration options for semcrawl.
//
// Design decision: We use a single flat struct, like the rest of the
// application's option structs, because the number of options is small and
// every component only reads the fields it needs.
type Config struct {
	// AuthBaseURL is the base URL of the token endpoint service.
	AuthBaseURL string

	// OracleBaseURL is the base URL of the similarity scoring service.
	OracleBaseURL string

	// Username is the account exchanged for a bearer token.
	Username string

	// Language is the language hint sent with every similarity request.
	Language string

	// OracleBatchSize is the maximum number of candidates per similarity request.
	OracleBatchSize int

	// OracleConcurrency is how many batches of one ranking call may be in
	// flight at once. Results are always concatenated in batch order.
	OracleConcurrency int

	// ScopePrefix is the URL prefix a link must have to be followed.
	ScopePrefix string

	// TitleSuffix is removed from page and anchor titles.
	TitleSuffix string

	// IgnorePatterns are URL path globs that are never followed.
	IgnorePatterns []string

	// FollowPatterns, when set, restrict the crawl to matching URL paths.
	FollowPatterns []string

	// RespectRobots makes the crawl skip links disallowed by robots.txt.
	RespectRobots bool

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CrawlDelay is the minimum time between two page fetches.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with page fetches.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form for page fetches.
	ProxyAddress string

	// Cookie and Headers are added to every page fetch.
	Cookie  string
	Headers map[string]string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON writes log lines as JSON instead of key=value text.
	LogJSON bool

	// ConfigFilePath is an explicit configuration file path.
	// If empty, the default search locations are used.
	ConfigFilePath string

	// JSONReport and MarkdownReport select the report format written to
	// ReportFile (or stdout). They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is where the crawl report is written. Empty means no report
	// file unless a report format was requested, in which case stdout is used.
	ReportFile string

	// StartURL and TargetURL may be given on the command line; missing ones
	// are prompted for.
	StartURL  string
	TargetURL string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Username:          DefaultUsername,
		Language:          DefaultLanguage,
		OracleBatchSize:   DefaultOracleBatchSize,
		OracleConcurrency: DefaultOracleConcurrency,
		ScopePrefix:       DefaultScopePrefix,
		TitleSuffix:       DefaultTitleSuffix,
		Timeout:           DefaultTimeout,
		CrawlDelay:        DefaultCrawlDelay,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for semcrawl.
// On Linux: ~/.config/semcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.AuthBaseURL == "" {
		return ErrNoAuthBaseURL
	}
	if c.OracleBaseURL == "" {
		return ErrNoOracleBaseURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.OracleBatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.OracleConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if err := ValidatePageURL(c.ScopePrefix); err != nil {
		return ErrInvalidScopePrefix
	}
	return nil
}

// ValidatePageURL checks that raw is an absolute http or https URL.
func ValidatePageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidURL
	}
	return nil
}
