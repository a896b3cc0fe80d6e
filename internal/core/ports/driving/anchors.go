package driving

import (
	"context"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

// AnchorBuilder harvests valid anchor fragments from spec documents.
type AnchorBuilder interface {
	// Build fetches every spec in specs and returns the anchor registry
	// (harvested anchors plus supplementary) and the generator classification.
	// Per-document failures are logged and skipped.
	Build(ctx context.Context, specs *domain.SpecMap, supplementary []string) (*domain.AnchorRegistry, *domain.Classification, error)

	// Run loads SPECMAP.json and the supplementary list, builds the
	// registry, and writes SPECURLS.json and the classification lists.
	Run(ctx context.Context) (*AnchorReport, error)
}

// AnchorReport summarises an anchor build.
type AnchorReport struct {
	// Specs is the number of spec map entries considered.
	Specs int

	// Fetched and Failed count document requests.
	Fetched int
	Failed  int

	// Stable counts specs trusted without fetching.
	Stable int

	// Anchors is the size of the written registry.
	Anchors int
}
