package driven

import (
	"context"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

// Fetcher retrieves remote documents.
// Implementations retry transient failures and follow meta-refresh
// redirects; the returned RequestURL is always the URL asked for.
type Fetcher interface {
	// Fetch retrieves the document at url.
	// A non-success final status is returned as an error.
	Fetch(ctx context.Context, url string) (*domain.FetchResult, error)
}

// FetchCache stores responses for conditional requests and records
// a per-run log of completed fetches.
type FetchCache interface {
	// Lookup returns the cached response for url.
	// Returns domain.ErrNotFound when nothing is cached.
	Lookup(ctx context.Context, url string) (*domain.CachedResponse, error)

	// Store saves or replaces the cached response for its URL.
	Store(ctx context.Context, resp domain.CachedResponse) error

	// Record appends an entry to the fetch log.
	Record(ctx context.Context, entry domain.FetchLogEntry) error

	// Close releases resources.
	Close() error
}
