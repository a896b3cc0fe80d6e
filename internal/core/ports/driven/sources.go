package driven

import (
	"context"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

// WalkFunc is called for every feature node in traversal order.
// Returning an error stops the walk.
type WalkFunc func(node domain.FeatureNode) error

// BCDSource traverses browser-compat-data trees.
type BCDSource interface {
	// Walk visits every feature node under path. Files are visited in
	// lexical order; within a file, subfeatures precede their parent and
	// siblings keep document order.
	// path is a directory or a single .json file.
	Walk(ctx context.Context, path string, fn WalkFunc) error

	// SupportFrom resolves support data inherited from another file.
	// filename is relative to the BCD root; featurePath is dotted.
	SupportFrom(ctx context.Context, filename, featurePath string) (domain.Support, error)
}

// CaniuseSource provides the caniuse dataset.
type CaniuseSource interface {
	// Features returns every caniuse feature, sorted by ID.
	Features(ctx context.Context) ([]domain.CaniuseFeature, error)
}

// MDNClient retrieves MDN article metadata.
type MDNClient interface {
	// Article returns the title and raw summary of the page at mdnURL.
	Article(ctx context.Context, mdnURL string) (*domain.Article, error)
}
