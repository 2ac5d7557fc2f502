package config

import "time"

// File represents the structure of the .semcrawl configuration file.
//
// Example:
//
//	authBaseURL: https://auth.example.com/
//	oracleBaseURL: https://oml.example.com/
//	oracle:
//	  batchSize: 1000
//	  language: AMERICAN
//	scope:
//	  prefix: https://en.wikipedia.org/wiki/
//	  ignorePatterns:
//	    - "/wiki/Special:*"
//	    - "/wiki/File:*"
//	http:
//	  crawlDelay: 500ms
type File struct {
	AuthBaseURL   string     `yaml:"authBaseURL,omitempty"`
	OracleBaseURL string     `yaml:"oracleBaseURL,omitempty"`
	Username      string     `yaml:"username,omitempty"`
	Oracle        OracleFile `yaml:"oracle,omitempty"`
	Scope         ScopeFile  `yaml:"scope,omitempty"`
	HTTP          HTTPFile   `yaml:"http,omitempty"`
}

// OracleFile holds similarity service settings.
type OracleFile struct {
	Language    string `yaml:"language,omitempty"`
	BatchSize   int    `yaml:"batchSize,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// ScopeFile holds the rules deciding which links are followed.
type ScopeFile struct {
	Prefix         string   `yaml:"prefix,omitempty"`
	TitleSuffix    string   `yaml:"titleSuffix,omitempty"`
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
	FollowPatterns []string `yaml:"followPatterns,omitempty"`

	// RespectRobots is a pointer so that an explicit false can be told
	// apart from an unset value.
	RespectRobots *bool `yaml:"respectRobots,omitempty"`
}

// HTTPFile holds page fetch settings.
type HTTPFile struct {
	UserAgent   string            `yaml:"userAgent,omitempty"`
	Timeout     time.Duration     `yaml:"timeout,omitempty"`
	CrawlDelay  *time.Duration    `yaml:"crawlDelay,omitempty"`
	MaxBodySize int64             `yaml:"maxBodySize,omitempty"`
	Proxy       string            `yaml:"proxy,omitempty"`
	Cookie      string            `yaml:"cookie,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
}

// Apply copies every value set in the file onto cfg.
// Zero values in the file leave cfg unchanged.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	setString(&cfg.AuthBaseURL, f.AuthBaseURL)
	setString(&cfg.OracleBaseURL, f.OracleBaseURL)
	setString(&cfg.Username, f.Username)

	setString(&cfg.Language, f.Oracle.Language)
	setInt(&cfg.OracleBatchSize, f.Oracle.BatchSize)
	setInt(&cfg.OracleConcurrency, f.Oracle.Concurrency)

	setString(&cfg.ScopePrefix, f.Scope.Prefix)
	setString(&cfg.TitleSuffix, f.Scope.TitleSuffix)
	if len(f.Scope.IgnorePatterns) > 0 {
		cfg.IgnorePatterns = f.Scope.IgnorePatterns
	}
	if len(f.Scope.FollowPatterns) > 0 {
		cfg.FollowPatterns = f.Scope.FollowPatterns
	}
	if f.Scope.RespectRobots != nil {
		cfg.RespectRobots = *f.Scope.RespectRobots
	}

	setString(&cfg.UserAgent, f.HTTP.UserAgent)
	if f.HTTP.Timeout > 0 {
		cfg.Timeout = f.HTTP.Timeout
	}
	if f.HTTP.CrawlDelay != nil {
		cfg.CrawlDelay = *f.HTTP.CrawlDelay
	}
	if f.HTTP.MaxBodySize > 0 {
		cfg.MaxBodySize = f.HTTP.MaxBodySize
	}
	setString(&cfg.ProxyAddress, f.HTTP.Proxy)
	setString(&cfg.Cookie, f.HTTP.Cookie)
	if len(f.HTTP.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range f.HTTP.Headers {
			cfg.Headers[k] = v
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
