package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Ensure the stores implement their interfaces.
var (
	_ driven.SpecMapStore        = (*SpecMapStore)(nil)
	_ driven.RegistryStore       = (*RegistryStore)(nil)
	_ driven.SupplementaryStore  = (*SupplementaryStore)(nil)
	_ driven.ClassificationStore = (*ClassificationStore)(nil)
	_ driven.SpecWriter          = (*SpecWriter)(nil)
)

// SpecMapStore is an in-memory implementation of driven.SpecMapStore.
// A store created from a nil map behaves like a missing control file.
type SpecMapStore struct {
	mu      sync.RWMutex
	entries map[string]string
	saves   int
}

// NewSpecMapStore creates a spec map store holding entries.
func NewSpecMapStore(entries map[string]string) *SpecMapStore {
	return &SpecMapStore{entries: entries}
}

// Load returns a copy of the stored mapping.
func (s *SpecMapStore) Load(_ context.Context) (*domain.SpecMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entries == nil {
		return nil, fmt.Errorf("%s: %w", domain.SpecMapFile, domain.ErrControlFile)
	}
	return domain.NewSpecMap(s.entries), nil
}

// Save replaces the stored mapping.
func (s *SpecMapStore) Save(_ context.Context, m *domain.SpecMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = m.Entries()
	s.saves++
	return nil
}

// Entries returns the stored mapping.
func (s *SpecMapStore) Entries() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewSpecMap(s.entries).Entries()
}

// Saves returns how many times Save was called.
func (s *SpecMapStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// RegistryStore is an in-memory implementation of driven.RegistryStore.
// A store created from a nil slice behaves like a missing control file.
type RegistryStore struct {
	mu   sync.RWMutex
	urls []string
}

// NewRegistryStore creates a registry store holding urls.
func NewRegistryStore(urls []string) *RegistryStore {
	return &RegistryStore{urls: urls}
}

// Load returns a registry built from the stored URLs.
func (s *RegistryStore) Load(_ context.Context) (*domain.AnchorRegistry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.urls == nil {
		return nil, fmt.Errorf("%s: %w", domain.SpecURLsFile, domain.ErrControlFile)
	}
	return domain.NewAnchorRegistry(s.urls...), nil
}

// Save stores the registry in sorted order.
func (s *RegistryStore) Save(_ context.Context, r *domain.AnchorRegistry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = r.Sorted()
	return nil
}

// URLs returns the stored anchor URLs.
func (s *RegistryStore) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.urls...)
}

// SupplementaryStore is an in-memory implementation of driven.SupplementaryStore.
type SupplementaryStore struct {
	urls []string
}

// NewSupplementaryStore creates a supplementary store holding urls.
func NewSupplementaryStore(urls ...string) *SupplementaryStore {
	return &SupplementaryStore{urls: urls}
}

// Load returns the stored URLs.
func (s *SupplementaryStore) Load(_ context.Context) ([]string, error) {
	return append([]string{}, s.urls...), nil
}

// ClassificationStore keeps the last saved classification.
type ClassificationStore struct {
	mu    sync.RWMutex
	lists map[domain.Generator][]string
}

// NewClassificationStore creates an empty classification store.
func NewClassificationStore() *ClassificationStore {
	return &ClassificationStore{lists: make(map[domain.Generator][]string)}
}

// Save stores every generator list of c.
func (s *ClassificationStore) Save(_ context.Context, c *domain.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range []domain.Generator{domain.GeneratorReSpec, domain.GeneratorBikeshed, domain.GeneratorOther} {
		s.lists[g] = c.List(g)
	}
	return nil
}

// List returns the saved list for g.
func (s *ClassificationStore) List(g domain.Generator) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists[g]
}

// SpecWriter collects written output files by shortname.
type SpecWriter struct {
	mu    sync.RWMutex
	files map[string]map[string][]domain.Feature
}

// NewSpecWriter creates an empty spec writer.
func NewSpecWriter() *SpecWriter {
	return &SpecWriter{files: make(map[string]map[string][]domain.Feature)}
}

// Write stores the features of shortname.
func (w *SpecWriter) Write(_ context.Context, shortname string, features map[string][]domain.Feature) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[shortname] = features
	return nil
}

// File returns the features written for shortname.
func (w *SpecWriter) File(shortname string) (map[string][]domain.Feature, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.files[shortname]
	return f, ok
}

// Len returns the number of files written.
func (w *SpecWriter) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}
