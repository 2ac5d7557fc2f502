package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrNoAuthBaseURL is returned when the token service URL is not configured.
	ErrNoAuthBaseURL = errors.New("no auth base URL: set " + EnvAuthBaseURL + " or authBaseURL in the config file")

	// ErrNoOracleBaseURL is returned when the similarity service URL is not configured.
	ErrNoOracleBaseURL = errors.New("no similarity service base URL: set " + EnvOracleBaseURL + " or oracleBaseURL in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the oracle batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidConcurrency is returned when the oracle concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid oracle concurrency: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidScopePrefix is returned when the scope prefix is not an absolute http(s) URL.
	ErrInvalidScopePrefix = errors.New("invalid scope prefix: must be an absolute http or https URL")

	// ErrInvalidURL is returned for start or target URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")
)
