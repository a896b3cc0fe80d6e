package services

import (
	"github.com/custodia-labs/specmap/internal/core/domain"
)

// Chromium Edge shipped at this version; earlier Chrome versions collapse to it.
const edgeBlinkVersion = 79

// SummarizeSupport reduces a support map to per-engine statuses.
// An engine's status is the best status among its tracked browsers.
func SummarizeSupport(support domain.Support) domain.EngineSummary {
	summary := make(domain.EngineSummary, len(domain.Engines))
	for _, engine := range domain.Engines {
		best := domain.StatusNone
		for _, browser := range domain.EngineBrowsers[engine] {
			block, ok := support[browser]
			if !ok {
				continue
			}
			if s := BrowserStatus(block); s > best {
				best = s
			}
		}
		summary[engine] = best
	}
	return summary
}

// BrowserStatus summarizes one browser's support block.
//
// Removed revisions and revisions without a truthy version_added are
// skipped. The first unconditional revision short-circuits to full
// support. Otherwise the strongest conditional revision wins, with
// partial > prefixed > altname > flagged.
func BrowserStatus(block domain.SupportBlock) domain.SupportStatus {
	if block.Mirror {
		return domain.StatusNone
	}
	best := domain.StatusNone
	for _, st := range block.Statements {
		if st.Removed() || !st.VersionAdded.Trimmed().Truthy() {
			continue
		}
		if st.Unconditional() {
			return domain.StatusFull
		}
		if s := conditionalStatus(st); s > best {
			best = s
		}
	}
	return best
}

func conditionalStatus(st domain.SupportStatement) domain.SupportStatus {
	switch {
	case st.PartialImplementation:
		return domain.StatusPartial
	case st.Prefix != "":
		return domain.StatusPrefixed
	case st.AlternativeName != "":
		return domain.StatusAltName
	case len(st.Flags) > 0:
		return domain.StatusFlagged
	}
	return domain.StatusNone
}

// ApplySummary fills the engine lists of f from summary.
func ApplySummary(f *domain.Feature, summary domain.EngineSummary) {
	f.Engines = summary.Supporting()
	if f.Engines == nil {
		f.Engines = []string{}
	}
	f.Partial = summary.With(domain.StatusPartial)
	f.Prefixed = summary.With(domain.StatusPrefixed)
	f.AltName = summary.With(domain.StatusAltName)
	f.NeedsFlag = summary.With(domain.StatusFlagged)
}

// DeriveEdge returns a copy of support with Edge data derived.
//
// edge_blink mirrors chrome, with versions up to 79 collapsed to "79" and
// removed revisions forced to version_added false. Legacy edge keeps only
// its first revision; versions from 79 on are nulled, since they describe
// Chromium Edge.
func DeriveEdge(support domain.Support) domain.Support {
	out := make(domain.Support, len(support)+1)
	for browser, block := range support {
		out[browser] = block.Clone()
	}

	if chrome, ok := support["chrome"]; ok && !chrome.Mirror {
		edge := chrome.Clone()
		for i, st := range edge.Statements {
			if st.Removed() {
				edge.Statements[i].VersionAdded = domain.VersionFalse
				continue
			}
			edge.Statements[i].VersionAdded = edgeBlinkAdded(st.VersionAdded)
		}
		out["edge_blink"] = edge
	}

	if legacy, ok := support["edge"]; ok && !legacy.Mirror && len(legacy.Statements) > 0 {
		first := legacy.Statements[0]
		added := domain.VersionFalse
		if !first.Removed() {
			added = edgeLegacyAdded(first.VersionAdded)
		}
		out["edge"] = domain.NewSupportBlock(domain.SupportStatement{VersionAdded: added})
	}
	return out
}

func edgeBlinkAdded(v domain.Version) domain.Version {
	if n, ok := v.Number(); ok && n <= edgeBlinkVersion {
		return "79"
	}
	return v
}

func edgeLegacyAdded(v domain.Version) domain.Version {
	if n, ok := v.Number(); ok && n >= edgeBlinkVersion {
		return domain.VersionNull
	}
	return v
}

// NormalizeVersions strips the "≤" ranged-version marker from every
// version_added in support, in place.
func NormalizeVersions(support domain.Support) {
	for browser, block := range support {
		for i := range block.Statements {
			block.Statements[i].VersionAdded = block.Statements[i].VersionAdded.Trimmed()
		}
		support[browser] = block
	}
}
