// Package ruleset holds the versioned, data-driven tables that steer URL
// rewriting, spec identity resolution, anchor harvesting and fragment
// validation. A default rule set is embedded in the binary; an override
// file with the same TOML layout may replace it.
package ruleset

import (
	"regexp"
	"strings"
)

// Stages of the direct rewrite group.
const (
	StageFragment = "fragment"
	StageCollapse = "collapse"
)

// Derivation modes for identity rules.
const (
	FromSubdomain = "subdomain"
	FromPage      = "page"
	FromHost      = "host"
)

// RuleSet is the complete rule table.
type RuleSet struct {
	Version int `toml:"version"`

	Rewrite       RewriteRules    `toml:"rewrite"`
	Substitutions []Substitution  `toml:"substitutions"`
	Rewrites      []DirectRewrite `toml:"rewrites"`
	Identity      []IdentityRule  `toml:"identity"`
	Anchors       AnchorRules     `toml:"anchors"`
	Validation    ValidationRules `toml:"validation"`
	Caniuse       CaniuseRules    `toml:"caniuse"`
}

// RewriteRules lists URLs dropped before rewriting.
type RewriteRules struct {
	// Obsolete holds host+path prefixes of superseded spec locations.
	Obsolete []string `toml:"obsolete"`

	// ObsoleteSubstrings marks a host+path obsolete when it contains any entry.
	ObsoleteSubstrings []string `toml:"obsolete_substrings"`

	// Ignored holds full URL prefixes of descoped spec families.
	Ignored []string `toml:"ignored"`
}

// Substitution replaces the first occurrence of Target with Replacement
// in any URL starting with Prefix.
type Substitution struct {
	Prefix      string `toml:"prefix"`
	Target      string `toml:"target"`
	Replacement string `toml:"replacement"`
	Example     string `toml:"example,omitempty"`
}

// Matches reports whether the substitution applies to u.
func (s Substitution) Matches(u string) bool {
	return strings.HasPrefix(u, s.Prefix)
}

// Apply performs the substitution on u.
func (s Substitution) Apply(u string) string {
	return strings.Replace(u, s.Target, s.Replacement, 1)
}

// DirectRewrite is a conditional literal or regex rewrite.
// Exactly one of Match and Pattern is set.
type DirectRewrite struct {
	Stage string `toml:"stage"`

	// Prefix optionally restricts the rule to URLs starting with it.
	Prefix string `toml:"prefix,omitempty"`

	// Match is a literal substring; its first occurrence is replaced.
	Match string `toml:"match,omitempty"`

	// Pattern is a regular expression; every match is expanded with Replacement.
	Pattern string `toml:"pattern,omitempty"`

	Replacement string `toml:"replacement"`

	// Lower lowercases the expanded replacement text for pattern rules.
	Lower bool `toml:"lower,omitempty"`

	Example string `toml:"example,omitempty"`

	re *regexp.Regexp
}

// Apply rewrites u if the rule matches it, reporting whether it fired.
func (d *DirectRewrite) Apply(u string) (string, bool) {
	if d.Prefix != "" && !strings.HasPrefix(u, d.Prefix) {
		return u, false
	}
	if d.re == nil {
		if d.Match == "" || !strings.Contains(u, d.Match) {
			return u, false
		}
		return strings.Replace(u, d.Match, d.Replacement, 1), true
	}
	if !d.re.MatchString(u) {
		return u, false
	}
	out := d.re.ReplaceAllStringFunc(u, func(m string) string {
		r := d.re.ReplaceAllString(m, d.Replacement)
		if d.Lower {
			r = strings.ToLower(r)
		}
		return r
	})
	return out, out != u
}

// IdentityRule overrides the derived identity of matching spec URLs.
// The location key of a matching URL is always the bare fragment.
type IdentityRule struct {
	// Matchers; the first non-empty one is used.
	Prefix     string `toml:"prefix,omitempty"`
	HostSuffix string `toml:"host_suffix,omitempty"`
	Contains   string `toml:"contains,omitempty"`

	// Shortname is literal; ShortnameFrom derives it ("subdomain" or "page").
	Shortname     string `toml:"shortname,omitempty"`
	ShortnameFrom string `toml:"shortname_from,omitempty"`

	// BaseURL is literal; BaseFrom derives it ("host" or "page").
	// BasePrefix joins a fixed prefix with the page name, so mirrors of
	// one document share a base.
	BaseURL    string `toml:"base_url,omitempty"`
	BaseFrom   string `toml:"base_from,omitempty"`
	BasePrefix string `toml:"base_prefix,omitempty"`

	// NoRegister keeps the base URL out of the persistent spec map.
	NoRegister bool `toml:"no_register,omitempty"`

	Example string `toml:"example,omitempty"`
}

// Matches reports whether the rule applies to u with the given host.
func (r IdentityRule) Matches(u, host string) bool {
	switch {
	case r.Prefix != "":
		return strings.HasPrefix(u, r.Prefix)
	case r.HostSuffix != "":
		return strings.HasSuffix(host, r.HostSuffix)
	case r.Contains != "":
		return strings.Contains(u, r.Contains)
	}
	return false
}

// AnchorRules steer the anchor registry builder.
type AnchorRules struct {
	// Proxy is prepended to the request URL of ReSpec raw sources.
	Proxy     string   `toml:"proxy"`
	RespecRaw []string `toml:"respec_raw"`

	// Stable specs are trusted from the supplementary list and never fetched.
	Stable []string `toml:"stable"`

	// Redirects map a spec URL onto the URL it is actually served from.
	Redirects []Substitution `toml:"redirects"`

	Families []Family `toml:"families"`

	// ExcludeIDs are regular expressions for non-semantic ids.
	ExcludeIDs []string `toml:"exclude_ids"`

	// Strip removes a generator-injected id prefix on matching hosts.
	Strip []StripRule `toml:"strip"`

	// NoNameHosts are URL prefixes where legacy name anchors are not harvested.
	NoNameHosts []string `toml:"no_name_hosts"`

	// Skip holds URL prefixes never fetched.
	Skip []string `toml:"skip"`

	excludeIDs []*regexp.Regexp
}

// Family is a spec published across several physical pages.
type Family struct {
	Name string `toml:"name"`

	// Bases are the spec-map keys belonging to the family.
	Bases []string `toml:"bases"`

	// Root is joined with each page to form the request URLs.
	Root  string   `toml:"root"`
	Pages []string `toml:"pages"`

	// Output overrides the classification filename.
	Output string `toml:"output,omitempty"`
}

// StripRule strips Prefix from ids found on documents under Host.
type StripRule struct {
	Host   string `toml:"host"`
	Prefix string `toml:"prefix"`
}

// IsExcludedID reports whether an id matches an excluded pattern.
func (a *AnchorRules) IsExcludedID(id string) bool {
	for _, re := range a.excludeIDs {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}

// FamilyFor returns the family owning baseURL, if any.
func (a *AnchorRules) FamilyFor(baseURL string) (Family, bool) {
	for _, f := range a.Families {
		for _, b := range f.Bases {
			if b == baseURL {
				return f, true
			}
		}
	}
	return Family{}, false
}

// ValidationRules steer fragment validation.
type ValidationRules struct {
	// Aliases map alternate renderings onto their canonical document.
	Aliases []Alias `toml:"aliases"`

	// Lenient URL prefixes validate the fragment against any document on the host.
	Lenient []string `toml:"lenient"`
}

// Alias rewrites the document part of URLs starting with Prefix to Canonical.
type Alias struct {
	Prefix    string `toml:"prefix"`
	Canonical string `toml:"canonical"`
}

// CaniuseRules steer the caniuse index.
type CaniuseRules struct {
	// Skip holds spec URL prefixes never indexed.
	Skip []string `toml:"skip"`
}

// HasPrefix reports whether s starts with any of prefixes.
func HasPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Contains reports whether s contains any of subs.
func Contains(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
