package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
	"github.com/custodia-labs/specmap/internal/extractors"
	"github.com/custodia-labs/specmap/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Fetcher = (*Client)(nil)

// maxRefreshes bounds a meta-refresh chain.
const maxRefreshes = 5

// SleepFunc waits for d, returning early with ctx's error if ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits on a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryPolicy controls retries of transient failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// Delay is the first backoff; each retry doubles it up to MaxDelay.
	Delay    time.Duration
	MaxDelay time.Duration
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.Delay << (attempt - 1)
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		d = p.MaxDelay
	}
	return d
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSleep replaces the backoff delay function.
func WithSleep(sleep SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

// WithCache enables conditional requests and the fetch log.
func WithCache(cache driven.FetchCache) Option {
	return func(c *Client) { c.cache = cache }
}

// Client is a retrying HTTP client for spec documents.
type Client struct {
	http      *http.Client
	userAgent string
	policy    RetryPolicy
	limiter   *rate.Limiter
	sleep     SleepFunc
	cache     driven.FetchCache
	runID     string
	now       func() time.Time
}

// New creates a client from fetch settings.
func New(settings domain.FetchSettings, opts ...Option) *Client {
	limit := rate.Inf
	if settings.RequestsPerSecond > 0 {
		limit = rate.Limit(settings.RequestsPerSecond)
	}
	attempts := settings.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	c := &Client{
		http:      &http.Client{Timeout: settings.Timeout},
		userAgent: settings.UserAgent,
		policy: RetryPolicy{
			MaxAttempts: attempts,
			Delay:       settings.RetryDelay,
			MaxDelay:    settings.MaxRetryDelay,
		},
		limiter: rate.NewLimiter(limit, 1),
		sleep:   Sleep,
		runID:   uuid.NewString(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunID identifies this client's entries in the fetch log.
func (c *Client) RunID() string {
	return c.runID
}

// Fetch retrieves the document at rawURL, following meta-refresh
// redirects. The result's RequestURL is always rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*domain.FetchResult, error) {
	current := rawURL
	seen := map[string]bool{}
	for range maxRefreshes + 1 {
		res, err := c.get(ctx, current)
		if err != nil {
			return nil, err
		}
		res.RequestURL = rawURL
		if res.ContentType != "" && !isHTML(res.ContentType) {
			return res, nil
		}
		seen[current] = true
		target, ok := extractors.MetaRefresh(res.Body, res.URL)
		if !ok || seen[target] {
			return res, nil
		}
		logger.Debug("%s: meta refresh to %s", current, target)
		current = target
	}
	return nil, fmt.Errorf("%s: %w", rawURL, ErrTooManyRefreshes)
}

// get performs one logical request with retries.
func (c *Client) get(ctx context.Context, u string) (*domain.FetchResult, error) {
	start := c.now()
	cached := c.lookup(ctx, u)

	var lastErr error
	attempt := 1
	for ; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, fromCache, err := c.do(ctx, u, cached)
		if err == nil {
			c.record(ctx, u, res.StatusCode, attempt, fromCache, start, nil)
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !retryable(err) || attempt >= c.policy.MaxAttempts {
			break
		}

		delay := c.policy.backoff(attempt)
		var serr *StatusError
		if errors.As(err, &serr) && serr.RetryAfter > 0 {
			delay = serr.RetryAfter
		}
		logger.Warn("%v; retrying in %s", err, delay)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	status := 0
	var serr *StatusError
	if errors.As(lastErr, &serr) {
		status = serr.StatusCode
	}
	c.record(ctx, u, status, attempt, false, start, lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, u string, cached *domain.CachedResponse) (*domain.FetchResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", u, domain.ErrInvalidInput)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cached.Validators() {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	final := u
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		return &domain.FetchResult{
			URL:         final,
			Body:        cached.Body,
			ContentType: cached.ContentType,
			StatusCode:  http.StatusOK,
		}, true, nil
	}
	if resp.StatusCode >= 300 {
		return nil, false, &StatusError{
			URL:        u,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := readBody(resp.Body, contentType)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", u, err)
	}
	res := &domain.FetchResult{
		URL:         final,
		Body:        body,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}
	c.store(ctx, u, resp.Header, res)
	return res, false, nil
}

func (c *Client) lookup(ctx context.Context, u string) *domain.CachedResponse {
	if c.cache == nil {
		return nil
	}
	cached, err := c.cache.Lookup(ctx, u)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Debug("fetch cache lookup %s: %v", u, err)
		}
		return nil
	}
	return cached
}

func (c *Client) store(ctx context.Context, u string, h http.Header, res *domain.FetchResult) {
	if c.cache == nil {
		return
	}
	entry := domain.CachedResponse{
		URL:          u,
		ETag:         h.Get("ETag"),
		LastModified: h.Get("Last-Modified"),
		ContentType:  res.ContentType,
		Body:         res.Body,
		FetchedAt:    c.now(),
	}
	if !entry.Validators() {
		return
	}
	if err := c.cache.Store(ctx, entry); err != nil {
		logger.Debug("fetch cache store %s: %v", u, err)
	}
}

func (c *Client) record(ctx context.Context, u string, status, attempts int, fromCache bool, start time.Time, err error) {
	if c.cache == nil {
		return
	}
	entry := domain.FetchLogEntry{
		RunID:      c.runID,
		URL:        u,
		StatusCode: status,
		Attempts:   attempts,
		FromCache:  fromCache,
		Duration:   c.now().Sub(start),
		At:         c.now(),
	}
	if err != nil {
		entry.Err = err.Error()
	}
	if rerr := c.cache.Record(ctx, entry); rerr != nil {
		logger.Debug("fetch log %s: %v", u, rerr)
	}
}

// retryable reports whether err is transient. Transport failures are;
// malformed requests and final client errors are not.
func retryable(err error) bool {
	if errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return IsRetryable(err)
	}
	return true
}

// readBody reads an HTML body as UTF-8; other bodies are read verbatim.
func readBody(r io.Reader, contentType string) ([]byte, error) {
	if isHTML(contentType) {
		decoded, err := charset.NewReader(r, contentType)
		if err != nil {
			return nil, err
		}
		r = decoded
	}
	return io.ReadAll(r)
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "html")
}

// parseRetryAfter reads a Retry-After value in seconds or as an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
