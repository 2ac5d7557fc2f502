package crawler

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultPrefix restricts a crawl to English Wikipedia articles.
const DefaultPrefix = "https://en.wikipedia.org/wiki/"

// RobotsPolicy reports whether a URL may be crawled according to robots.txt.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Scope decides which URLs the crawl may follow.
//
// A URL is in scope when it starts with the prefix, its path matches no
// ignore pattern, it matches a follow pattern (if any are set), and the
// robots policy (if set) allows it.
type Scope struct {
	prefix         string
	ignorePatterns []string
	followPatterns []string
	robots         RobotsPolicy
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithIgnorePatterns excludes URLs whose path matches any of the glob patterns.
// Patterns use the same syntax as filepath.Match, plus "/dir/*" and "*.ext"
// shortcuts.
func WithIgnorePatterns(patterns []string) ScopeOption {
	return func(s *Scope) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts the crawl to URLs whose path matches at least
// one of the glob patterns.
func WithFollowPatterns(patterns []string) ScopeOption {
	return func(s *Scope) {
		s.followPatterns = patterns
	}
}

// WithRobots consults policy for every candidate URL.
func WithRobots(policy RobotsPolicy) ScopeOption {
	return func(s *Scope) {
		s.robots = policy
	}
}

// NewScope creates a Scope for URLs starting with prefix.
// An empty prefix accepts every absolute URL.
func NewScope(prefix string, opts ...ScopeOption) *Scope {
	s := &Scope{prefix: prefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the in-scope URL prefix.
func (s *Scope) Prefix() string {
	if s == nil {
		return ""
	}
	return s.prefix
}

// Allows reports whether rawURL may be followed.
// A nil Scope allows every non-blank URL.
func (s *Scope) Allows(ctx context.Context, rawURL string) bool {
	if strings.TrimSpace(rawURL) == "" {
		return false
	}
	if s == nil {
		return true
	}
	if !strings.HasPrefix(rawURL, s.prefix) {
		return false
	}
	if !s.matchesPatterns(rawURL) {
		return false
	}
	if s.robots != nil && !s.robots.Allowed(ctx, rawURL) {
		return false
	}
	return true
}

// matchesPatterns checks rawURL against the ignore and follow patterns.
//
// Logic:
//  1. If the path matches any ignore pattern, reject it
//  2. If follow patterns are set and the path matches none, reject it
//  3. Otherwise, accept it
func (s *Scope) matchesPatterns(rawURL string) bool {
	if len(s.ignorePatterns) == 0 && len(s.followPatterns) == 0 {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(s.followPatterns) > 0 {
		for _, pattern := range s.followPatterns {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}
	return true
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "/wiki/Special:*" matches "/wiki/Special:Random"
//   - "/w/*" matches "/w/index.php"
//   - "*.svg" matches "/wiki/File:Logo.svg"
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without a slash also match the last path segment.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

// canonicalURL normalizes a URL for the visited set.
//
// Design decision: We normalize URLs because:
//  1. The same page can be linked with different URL spellings
//  2. A fragment (#section) doesn't change the page
//  3. Scheme and host are case-insensitive
func canonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
