// Package crawler implements a goal-directed, depth-first crawl.
//
// # Architecture
//
// The Controller visits one page at a time. For every page it builds a
// LinkIndex (anchor title to URL) restricted to the crawl Scope, asks a
// Ranker to order the candidate titles by similarity to the target title,
// and descends into the best unvisited candidate. When a subtree is
// exhausted without reaching the target, the controller backtracks and
// tries the next candidate of the parent page.
//
// Design decision: The traversal keeps its own stack of frames instead of
// recursing, so crawl depth is bounded by memory rather than by the
// goroutine stack.
//
// # Components
//
//   - Controller: owns the visited set and drives the traversal
//   - Scope: decides which URLs may be followed (prefix, patterns, robots.txt)
//   - LinkIndex: per-page map from normalised anchor text to URL
//
// # Usage
//
//	ctrl := crawler.NewController(fetcher, oracleClient, target, token,
//		crawler.WithScope(crawler.NewScope(crawler.DefaultPrefix)))
//	result := ctrl.Crawl(ctx, "https://en.wikipedia.org/wiki/Go_(programming_language)")
//
// # Visited set
//
// A URL is recorded in canonical form (no fragment, lower-case scheme and
// host, "/" for an empty path) exactly once, before its links are explored.
// Pages whose fetch fails are not recorded, so another path may reach them.
package crawler
