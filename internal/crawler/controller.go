package crawler

import (
	"context"
	"log/slog"
	"maps"

	"github.com/nao1215/semcrawl/internal/model"
	"github.com/nao1215/semcrawl/internal/title"
)

// PageFetcher retrieves and parses one page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// Ranker orders candidate titles by similarity to a target title, most
// similar first.
type Ranker interface {
	Rank(ctx context.Context, target string, candidates []string, token string) ([]string, error)
}

// Target is the page the crawl tries to reach.
type Target struct {
	// URL is the target page URL.
	URL string

	// Title is the target page title, already normalised.
	Title string
}

// Result is the outcome of a crawl.
type Result struct {
	// Outcome tells whether the target was reached.
	Outcome model.Outcome

	// Steps lists every visited page in visit order.
	Steps []model.Step

	// Path is the chain of URLs from the start page to the target.
	// It is empty unless Outcome is model.OutcomeFound.
	Path []string

	// Err is set when Outcome is model.OutcomeError.
	Err error
}

// StepHook is called once for every visited page, in visit order.
type StepHook func(model.Step)

// Option configures a Controller.
type Option func(*Controller)

// WithScope sets the crawl scope. Without it every absolute URL is followed.
func WithScope(scope *Scope) Option {
	return func(c *Controller) {
		c.scope = scope
	}
}

// WithNormalizer sets the normalizer applied to anchor texts.
func WithNormalizer(n title.Normalizer) Option {
	return func(c *Controller) {
		c.normalizer = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStepHook registers fn to observe visited pages as they happen.
func WithStepHook(fn StepHook) Option {
	return func(c *Controller) {
		c.onStep = fn
	}
}

// Controller runs a goal-directed crawl.
// A Controller is not safe for concurrent use.
type Controller struct {
	fetcher    PageFetcher
	ranker     Ranker
	target     Target
	token      string
	scope      *Scope
	normalizer title.Normalizer
	logger     *slog.Logger
	onStep     StepHook

	visited map[string]bool
	steps   []model.Step
}

// NewController creates a Controller that crawls towards target, using token
// for every ranking request.
func NewController(fetcher PageFetcher, ranker Ranker, target Target, token string, opts ...Option) *Controller {
	c := &Controller{
		fetcher:    fetcher,
		ranker:     ranker,
		target:     target,
		token:      token,
		normalizer: title.Default(),
		logger:     slog.Default(),
		visited:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// frame is one page on the traversal stack.
type frame struct {
	url    string
	index  LinkIndex
	ranked []string
	next   int
}

// Crawl walks from startURL towards the target.
//
// Each page is fetched, recorded as visited, and checked against the target.
// Otherwise its in-scope links are ranked and the best unvisited one is
// explored next. When a page has no viable candidate left, the crawl
// returns to the previous page and tries that page's next candidate.
//
// Crawl returns model.OutcomeFound when the target is reached,
// model.OutcomeNotFound when every reachable page was explored, and
// model.OutcomeError when ctx is cancelled.
func (c *Controller) Crawl(ctx context.Context, startURL string) Result {
	c.visited = make(map[string]bool)
	c.steps = nil

	if err := ctx.Err(); err != nil {
		return c.result(model.OutcomeError, nil, err)
	}

	root, found := c.explore(ctx, startURL)
	if found {
		return c.result(model.OutcomeFound, []string{startURL}, nil)
	}
	if root == nil {
		if err := ctx.Err(); err != nil {
			return c.result(model.OutcomeError, nil, err)
		}
		return c.result(model.OutcomeNotFound, nil, nil)
	}

	stack := []*frame{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return c.result(model.OutcomeError, nil, err)
		}

		top := stack[len(stack)-1]
		next, ok := c.nextCandidate(ctx, top)
		if !ok {
			c.logger.Debug("backtracking", "url", top.url)
			stack = stack[:len(stack)-1]
			continue
		}

		child, found := c.explore(ctx, next)
		if found {
			path := make([]string, 0, len(stack)+1)
			for _, f := range stack {
				path = append(path, f.url)
			}
			return c.result(model.OutcomeFound, append(path, next), nil)
		}
		if child != nil {
			stack = append(stack, child)
		}
	}

	if err := ctx.Err(); err != nil {
		return c.result(model.OutcomeError, nil, err)
	}
	return c.result(model.OutcomeNotFound, nil, nil)
}

// Visited returns a copy of the visited set, keyed by canonical URL.
func (c *Controller) Visited() map[string]bool {
	return maps.Clone(c.visited)
}

// explore fetches pageURL, records it, and prepares its ranked candidates.
// It returns a nil frame when the fetch fails, and found=true when the page
// is the target.
func (c *Controller) explore(ctx context.Context, pageURL string) (*frame, bool) {
	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("failed to fetch page", "url", pageURL, "error", err)
		return nil, false
	}

	c.visited[canonicalURL(pageURL)] = true
	step := model.Step{Index: len(c.steps) + 1, URL: pageURL, Title: page.Title}
	c.steps = append(c.steps, step)
	if c.onStep != nil {
		c.onStep(step)
	}

	if c.isTarget(pageURL, page.Title) {
		return nil, true
	}

	f := &frame{url: pageURL, index: BuildIndex(ctx, page, c.normalizer, c.scope)}
	if f.index.Len() == 0 {
		c.logger.Debug("no in-scope links", "url", pageURL, "anchors", page.AnchorCount())
		return f, false
	}

	ranked, err := c.ranker.Rank(ctx, c.target.Title, f.index.Titles(), c.token)
	if err != nil {
		c.logger.Warn("failed to rank links", "url", pageURL, "error", err)
		return f, false
	}
	if len(ranked) == 0 {
		c.logger.Debug("empty ranking", "url", pageURL)
	}
	f.ranked = ranked
	return f, false
}

// nextCandidate advances f to its next viable candidate URL.
// Titles the index does not know, and URLs that are blank, visited, or out
// of scope are skipped.
func (c *Controller) nextCandidate(ctx context.Context, f *frame) (string, bool) {
	for f.next < len(f.ranked) {
		t := f.ranked[f.next]
		f.next++

		u, ok := f.index.Lookup(t)
		if !ok || u == "" {
			continue
		}
		if c.visited[canonicalURL(u)] {
			continue
		}
		if !c.scope.Allows(ctx, u) {
			continue
		}
		return u, true
	}
	return "", false
}

// isTarget reports whether a page with the given URL and title is the target.
func (c *Controller) isTarget(pageURL, pageTitle string) bool {
	if c.target.Title != "" && pageTitle == c.target.Title {
		return true
	}
	return c.target.URL != "" && canonicalURL(pageURL) == canonicalURL(c.target.URL)
}

func (c *Controller) result(outcome model.Outcome, path []string, err error) Result {
	steps := make([]model.Step, len(c.steps))
	copy(steps, c.steps)
	return Result{Outcome: outcome, Steps: steps, Path: path, Err: err}
}
