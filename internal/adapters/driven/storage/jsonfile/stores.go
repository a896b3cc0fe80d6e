package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

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

// SpecMapStore reads and writes SPECMAP.json.
type SpecMapStore struct {
	path string
}

// NewSpecMapStore creates a store for the mapping file at path.
func NewSpecMapStore(path string) *SpecMapStore {
	return &SpecMapStore{path: path}
}

// Load reads the mapping.
func (s *SpecMapStore) Load(_ context.Context) (*domain.SpecMap, error) {
	var entries map[string]string
	if err := readControl(s.path, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, fmt.Errorf("%s: not an object: %w", s.path, domain.ErrControlFile)
	}
	return domain.NewSpecMap(entries), nil
}

// Save writes the mapping with keys in sorted order.
func (s *SpecMapStore) Save(_ context.Context, m *domain.SpecMap) error {
	return writeJSON(s.path, m.Entries())
}

// RegistryStore reads and writes SPECURLS.json.
type RegistryStore struct {
	path string
}

// NewRegistryStore creates a store for the registry file at path.
func NewRegistryStore(path string) *RegistryStore {
	return &RegistryStore{path: path}
}

// Load reads the registry.
func (s *RegistryStore) Load(_ context.Context) (*domain.AnchorRegistry, error) {
	var urls []string
	if err := readControl(s.path, &urls); err != nil {
		return nil, err
	}
	return domain.NewAnchorRegistry(urls...), nil
}

// Save writes the registry sorted and deduplicated.
func (s *RegistryStore) Save(_ context.Context, r *domain.AnchorRegistry) error {
	return writeJSON(s.path, r.Sorted())
}

// SupplementaryStore reads the static anchor list, a JSON array of URLs.
type SupplementaryStore struct {
	path string
}

// NewSupplementaryStore creates a store for the list at path.
func NewSupplementaryStore(path string) *SupplementaryStore {
	return &SupplementaryStore{path: path}
}

// Load returns the listed URLs; a missing file yields an empty list.
func (s *SupplementaryStore) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// ClassificationStore writes one list per generator into a directory.
type ClassificationStore struct {
	dir string
}

// NewClassificationStore creates a store writing into dir.
func NewClassificationStore(dir string) *ClassificationStore {
	return &ClassificationStore{dir: dir}
}

// classificationFiles maps each generator onto its list file.
var classificationFiles = []struct {
	generator domain.Generator
	file      string
}{
	{domain.GeneratorReSpec, domain.RespecSpecsFile},
	{domain.GeneratorBikeshed, domain.BikeshedSpecsFile},
	{domain.GeneratorOther, domain.OtherSpecsFile},
}

// Save writes the three lists, one filename per line with no trailing newline.
func (s *ClassificationStore) Save(_ context.Context, c *domain.Classification) error {
	for _, f := range classificationFiles {
		data := strings.Join(c.List(f.generator), "\n")
		if err := writeFile(filepath.Join(s.dir, f.file), []byte(data)); err != nil {
			return err
		}
	}
	return nil
}

// SpecWriter writes per-shortname output files into a directory.
type SpecWriter struct {
	dir string
}

// NewSpecWriter creates a writer for dir.
func NewSpecWriter(dir string) *SpecWriter {
	return &SpecWriter{dir: dir}
}

// Write replaces <dir>/<shortname>.json.
func (w *SpecWriter) Write(_ context.Context, shortname string, features map[string][]domain.Feature) error {
	if shortname == "" || strings.ContainsAny(shortname, `/\`) {
		return fmt.Errorf("output shortname %q: %w", shortname, domain.ErrInvalidInput)
	}
	return writeJSON(filepath.Join(w.dir, shortname+".json"), features)
}
