package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Ensure FetchCache implements the interface.
var _ driven.FetchCache = (*FetchCache)(nil)

// FetchCache is an in-memory implementation of driven.FetchCache.
type FetchCache struct {
	mu        sync.RWMutex
	responses map[string]domain.CachedResponse
	log       []domain.FetchLogEntry
}

// NewFetchCache creates an empty fetch cache.
func NewFetchCache() *FetchCache {
	return &FetchCache{responses: make(map[string]domain.CachedResponse)}
}

// Lookup returns the cached response for url.
func (c *FetchCache) Lookup(_ context.Context, url string) (*domain.CachedResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.responses[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	resp.Body = append([]byte(nil), resp.Body...)
	return &resp, nil
}

// Store saves or replaces the cached response for its URL.
func (c *FetchCache) Store(_ context.Context, resp domain.CachedResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp.Body = append([]byte(nil), resp.Body...)
	c.responses[resp.URL] = resp
	return nil
}

// Record appends an entry to the fetch log.
func (c *FetchCache) Record(_ context.Context, entry domain.FetchLogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, entry)
	return nil
}

// Log returns the recorded entries in order.
func (c *FetchCache) Log() []domain.FetchLogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.FetchLogEntry(nil), c.log...)
}

// Close is a no-op.
func (c *FetchCache) Close() error {
	return nil
}
