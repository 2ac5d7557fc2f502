package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/semcrawl/internal/model"
	"github.com/nao1215/semcrawl/internal/title"
	"golang.org/x/time/rate"
)

// Default fetcher settings, used when no option overrides them.
const (
	defaultUserAgent   = "semcrawl/1.0"
	defaultMaxBodySize = 8 * 1024 * 1024
)

// Fetcher retrieves pages one at a time.
//
// Design decision: Politeness spacing is a token-bucket limiter with a burst
// of one rather than a sleep after each request, so time spent ranking
// candidates between two fetches counts toward the delay.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxBodySize int64
	normalizer  title.Normalizer
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithDelay sets the minimum time between two requests.
// Zero disables spacing.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithTitleNormalizer sets the normalizer used to fill Page.Title.
func WithTitleNormalizer(n title.Normalizer) Option {
	return func(f *Fetcher) {
		f.normalizer = n
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher using client.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		normalizer:  title.Default(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs pageURL and parses it.
// Every failure is returned as *Error: network errors, non-200 responses,
// non-HTML content, and unparsable bodies.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &Error{URL: pageURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	f.logger.Debug("fetching page", "url", pageURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: pageURL, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, &Error{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %q", ErrNotHTML, contentType),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &Error{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	parser, err := NewParser(finalURL)
	if err != nil {
		return nil, &Error{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}
	result, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &Error{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}

	return &model.Page{
		URL:         pageURL,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		RawTitle:    result.Title,
		Title:       f.normalizer.Normalize(result.Title),
		Anchors:     result.Anchors,
	}, nil
}

// isHTML reports whether a Content-Type denotes HTML.
// A missing Content-Type is accepted; servers omit it for static files.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
