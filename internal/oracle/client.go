package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default client settings.
const (
	// DefaultBatchSize is the largest number of texts the service accepts
	// in one request.
	DefaultBatchSize = 1000

	// DefaultConcurrency sends batches one at a time.
	DefaultConcurrency = 1

	// DefaultLanguage is the language hint sent with every request.
	DefaultLanguage = "AMERICAN"

	// DefaultUsername is the account used for the token exchange.
	DefaultUsername = "admin"

	// DefaultMaxResponseSize bounds how many bytes of a response are read.
	DefaultMaxResponseSize = 8 * 1024 * 1024 // 8MB

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4096
)

const (
	similarityPath = "v1/cognitive-text/similarity"
	tokenPath      = "api/oauth2/v1/token"
	sortDescending = "DESC"
)

// Client talks to the authentication and similarity endpoints.
type Client struct {
	httpClient  *http.Client
	authBaseURL string
	baseURL     string
	username    string
	language    string
	batchSize   int
	concurrency int
	maxResponse int64
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithBatchSize sets the maximum number of candidates per request.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithConcurrency sets how many batches may be in flight at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLanguage sets the language hint.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithUsername sets the account used by Token.
func WithUsername(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.username = name
		}
	}
}

// WithMaxResponseSize sets the maximum number of response bytes read.
func WithMaxResponseSize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxResponse = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client. Both base URLs may omit the trailing slash.
func NewClient(authBaseURL, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		authBaseURL: withTrailingSlash(authBaseURL),
		baseURL:     withTrailingSlash(baseURL),
		username:    DefaultUsername,
		language:    DefaultLanguage,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
		maxResponse: DefaultMaxResponseSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// similarityRequest is the body of a similarity call.
type similarityRequest struct {
	Language      string   `json:"language"`
	Probe         string   `json:"probe"`
	SortDirection string   `json:"sortDirection"`
	TextList      []string `json:"textList"`
}

// similarityResult is one ranked entry of a similarity response.
type similarityResult struct {
	Text            string  `json:"text"`
	SimilarityScore float64 `json:"similarityScore"`
}

// Rank orders candidates by similarity to target, most similar first.
//
// Candidates are sent in batches of at most the configured batch size and
// the batch rankings are concatenated in batch order. There is no global
// re-sort, so a strong candidate in a later batch ranks after every
// candidate of an earlier batch. Zero candidates make no request.
//
// Design decision: Batches may run concurrently, but each goroutine writes
// only its own slot so the result order never depends on completion order.
func (c *Client) Rank(ctx context.Context, target string, candidates []string, token string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}

	batches := partition(candidates, c.batchSize)
	results := make([][]string, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			ranked, err := c.rankBatch(gctx, target, batch, token)
			if err != nil {
				return err
			}
			results[i] = ranked
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]string, 0, len(candidates))
	for _, r := range results {
		ranked = append(ranked, r...)
	}
	return ranked, nil
}

// rankBatch sends one similarity request.
func (c *Client) rankBatch(ctx context.Context, target string, batch []string, token string) ([]string, error) {
	body, err := json.Marshal(similarityRequest{
		Language:      c.language,
		Probe:         target,
		SortDirection: sortDescending,
		TextList:      batch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode similarity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+similarityPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("ranking batch", "probe", target, "size", len(batch))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("similarity request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := c.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read similarity response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: truncate(data)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyResponse
	}

	var entries []similarityResult
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode similarity response: %w", err)
	}

	ranked := make([]string, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, e.Text)
	}
	return ranked, nil
}

// partition splits items into consecutive chunks of at most size elements.
func partition(items []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	chunks := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

func withTrailingSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return strings.TrimSpace(string(b))
}

// readBody reads r up to the configured response size.
func (c *Client) readBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.maxResponse+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxResponse {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}
