package services

import (
	"strings"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/logger"
	"github.com/custodia-labs/specmap/internal/rewrite"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// CaniuseIndex maps canonical spec URLs to caniuse feature pages.
type CaniuseIndex struct {
	aliases []ruleset.Alias
	entries map[string]domain.CaniuseEntry
}

// BuildCaniuseIndex indexes every caniuse feature by its rewritten spec URL.
//
// Features without a spec fragment, on skipped hosts, or on obsolete and
// ignored specs are left out. Outside the lenient families the URL must be
// a known anchor; unknown ones are warned about and left out. When two
// features share a URL the later one in features wins.
func BuildCaniuseIndex(
	features []domain.CaniuseFeature,
	engine *rewrite.Engine,
	rules *ruleset.RuleSet,
	registry *domain.AnchorRegistry,
) *CaniuseIndex {
	idx := &CaniuseIndex{
		aliases: rules.Validation.Aliases,
		entries: make(map[string]domain.CaniuseEntry),
	}
	for _, f := range features {
		if f.Spec == "" {
			continue
		}
		res := engine.Rewrite(f.Spec)
		if res.Dropped() || ruleset.HasPrefix(res.URL, rules.Caniuse.Skip) {
			continue
		}
		if !hasFragment(res.URL) {
			continue
		}
		specURL := canonicalURL(idx.aliases, res.URL)
		if registry != nil && !ruleset.HasPrefix(specURL, rules.Validation.Lenient) && !registry.Has(specURL) {
			logger.Warn("bad caniuse spec URL %s", specURL)
			continue
		}
		logger.Debug("caniuse spec URL: %s", specURL)
		idx.entries[specURL] = domain.CaniuseEntry{Feature: f.ID, Title: f.Title}
	}
	return idx
}

// Lookup returns the caniuse entry for a rewritten spec URL.
func (idx *CaniuseIndex) Lookup(specURL string) (*domain.CaniuseEntry, bool) {
	if idx == nil {
		return nil, false
	}
	e, ok := idx.entries[canonicalURL(idx.aliases, specURL)]
	if !ok {
		return nil, false
	}
	return &e, true
}

// Len returns the number of indexed URLs.
func (idx *CaniuseIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// canonicalURL replaces the document part of u with the canonical document
// of the first matching alias.
func canonicalURL(aliases []ruleset.Alias, u string) string {
	for _, a := range aliases {
		if strings.HasPrefix(u, a.Prefix) {
			fragment := ""
			if i := strings.IndexByte(u, '#'); i >= 0 {
				fragment = u[i:]
			}
			return a.Canonical + fragment
		}
	}
	return u
}

func hasFragment(u string) bool {
	i := strings.IndexByte(u, '#')
	return i >= 0 && i < len(u)-1
}
