package driven

import (
	"context"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

// SpecMapStore persists the base URL to output file mapping.
type SpecMapStore interface {
	// Load reads the mapping. A missing or corrupt file is
	// reported with domain.ErrControlFile.
	Load(ctx context.Context) (*domain.SpecMap, error)

	// Save writes the full mapping.
	Save(ctx context.Context, m *domain.SpecMap) error
}

// RegistryStore persists the anchor registry.
type RegistryStore interface {
	// Load reads the registry. A missing or corrupt file is
	// reported with domain.ErrControlFile.
	Load(ctx context.Context) (*domain.AnchorRegistry, error)

	// Save writes the registry sorted and deduplicated.
	Save(ctx context.Context, r *domain.AnchorRegistry) error
}

// SupplementaryStore reads the static anchor list merged into every registry.
type SupplementaryStore interface {
	// Load returns the supplementary anchor URLs.
	// A missing file yields an empty list.
	Load(ctx context.Context) ([]string, error)
}

// ClassificationStore writes the generator classification lists.
type ClassificationStore interface {
	Save(ctx context.Context, c *domain.Classification) error
}

// SpecWriter writes one per-shortname output file.
type SpecWriter interface {
	// Write stores the features of shortname keyed by location key.
	Write(ctx context.Context, shortname string, features map[string][]domain.Feature) error
}
