package domain

import (
	"sort"
	"strings"
)

// SpecIdentity is the join key between specs, BCD entries and the anchor registry.
type SpecIdentity struct {
	// Shortname is the lowercase output filename stem (without .json).
	Shortname string

	// BaseURL is the directory-level URL grouping a family of fragments.
	// Directory bases end with exactly one slash; page-addressed bases
	// (a single document holding the whole spec) are the document URL.
	BaseURL string

	// LocationKey is "filename#fragment" for a page of a multi-page spec,
	// otherwise "#fragment".
	LocationKey string
}

// Filename returns the output filename for the identity's shortname.
func (id SpecIdentity) Filename() string {
	return id.Shortname + ".json"
}

// SpecMap maps spec base URLs to output filenames ("<shortname>.json").
// Entries are append-only during a run: once a base URL has a filename,
// Register never changes it. Override is the only way to replace one.
type SpecMap struct {
	entries map[string]string
}

// NewSpecMap creates a SpecMap seeded with the given entries.
func NewSpecMap(entries map[string]string) *SpecMap {
	m := &SpecMap{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// Lookup returns the filename recorded for baseURL.
func (m *SpecMap) Lookup(baseURL string) (string, bool) {
	f, ok := m.entries[baseURL]
	return f, ok
}

// Shortname returns the shortname recorded for baseURL.
func (m *SpecMap) Shortname(baseURL string) (string, bool) {
	f, ok := m.entries[baseURL]
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(f, ".json"), true
}

// Register records baseURL → filename unless baseURL is already mapped.
// It returns the filename in effect after the call.
func (m *SpecMap) Register(baseURL, filename string) string {
	if existing, ok := m.entries[baseURL]; ok {
		return existing
	}
	m.entries[baseURL] = filename
	return filename
}

// Override replaces the filename recorded for baseURL.
func (m *SpecMap) Override(baseURL, filename string) {
	m.entries[baseURL] = filename
}

// Len returns the number of entries.
func (m *SpecMap) Len() int {
	return len(m.entries)
}

// BaseURLs returns all base URLs in lexicographic order.
func (m *SpecMap) BaseURLs() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the mapping.
func (m *SpecMap) Entries() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
