package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// Robots answers whether a URL may be crawled according to its host's
// robots.txt. Each host's rules are fetched once and cached.
type Robots struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

// NewRobots creates a Robots that fetches robots.txt with client and matches
// rules for userAgent.
func NewRobots(client *http.Client, userAgent string, logger *slog.Logger) *Robots {
	if logger == nil {
		logger = slog.Default()
	}
	return &Robots{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be crawled.
// If robots.txt cannot be retrieved, the URL is allowed.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	group := r.group(ctx, u)
	if group == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path)
}

// group returns the cached rules for u's host, fetching them on first use.
func (r *Robots) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.groups[key]; ok {
		return g
	}

	g := r.load(ctx, key)
	if ctx.Err() != nil {
		// A cancelled lookup says nothing about the host's rules.
		return g
	}
	r.groups[key] = g
	return g
}

// load fetches and parses robots.txt for origin. It returns nil when the
// file cannot be retrieved.
func (r *Robots) load(ctx context.Context, origin string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("robots.txt unavailable, allowing all", "origin", origin, "error", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		r.logger.Warn("robots.txt unparsable, allowing all", "origin", origin, "error", err)
		return nil
	}
	return data.FindGroup(r.userAgent)
}
