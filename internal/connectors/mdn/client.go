// Package mdn retrieves article metadata from MDN's index.json endpoints.
package mdn

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.MDNClient = (*Client)(nil)

// Client reads article metadata through a fetcher.
type Client struct {
	fetcher driven.Fetcher
	origin  string
}

// NewClient creates a client fetching from origin,
// e.g. https://developer.mozilla.org or a local mirror.
func NewClient(fetcher driven.Fetcher, origin string) *Client {
	return &Client{fetcher: fetcher, origin: strings.TrimSuffix(origin, "/")}
}

// IndexURL returns the metadata URL of an article: origin, article path, "/index.json".
// The fragment and query of mdnURL are dropped.
func (c *Client) IndexURL(mdnURL string) (string, error) {
	u, err := url.Parse(mdnURL)
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("odd MDN URL %s: %w", mdnURL, domain.ErrInvalidInput)
	}
	return c.origin + u.EscapedPath() + "/index.json", nil
}

// Article returns the title and raw summary of the article at mdnURL.
func (c *Client) Article(ctx context.Context, mdnURL string) (*domain.Article, error) {
	indexURL, err := c.IndexURL(mdnURL)
	if err != nil {
		return nil, err
	}
	res, err := c.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(res.Body) {
		return nil, fmt.Errorf("error for %s: invalid JSON: %w", indexURL, domain.ErrInvalidInput)
	}
	doc := gjson.GetBytes(res.Body, "doc")
	return &domain.Article{
		Title:   doc.Get("title").String(),
		Summary: doc.Get("summary").String(),
	}, nil
}
