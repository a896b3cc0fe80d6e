// Package rewrite maps historical, legacy and redirected spec URLs onto
// their canonical current form.
//
// Rule groups run in sequence, each feeding the next:
//
//  1. obsolete and ignored prefixes flag the URL and stop the pipeline
//  2. the substitution table (first matching prefix wins)
//  3. direct rewrites, "fragment" stage then "collapse" stage
//  4. percent-decoding of the fragment
//
// Normalize is total: the worst case is the input unchanged.
package rewrite

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// Result is the outcome of rewriting one URL.
type Result = domain.RewriteResult

// Engine applies a rule set to spec URLs.
type Engine struct {
	rules    *ruleset.RuleSet
	fragment []*ruleset.DirectRewrite
	collapse []*ruleset.DirectRewrite
}

// New creates an engine over a compiled rule set.
func New(rules *ruleset.RuleSet) *Engine {
	return &Engine{
		rules:    rules,
		fragment: rules.Stage(ruleset.StageFragment),
		collapse: rules.Stage(ruleset.StageCollapse),
	}
}

// Normalize returns the canonical form of u.
func (e *Engine) Normalize(u string) string {
	return e.Rewrite(u).URL
}

// Rewrite runs the full pipeline over u.
func (e *Engine) Rewrite(u string) Result {
	u = strings.TrimSpace(u)
	for strings.Contains(u, "##") {
		u = strings.ReplaceAll(u, "##", "#")
	}

	if res, stop := e.flag(u); stop {
		return res
	}

	out := e.substitute(u)
	for _, d := range e.fragment {
		out, _ = d.Apply(out)
	}
	for _, d := range e.collapse {
		out, _ = d.Apply(out)
	}

	res := Result{URL: out}
	decoded, err := DecodeFragment(out)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	} else {
		res.URL = decoded
	}

	// A rewrite may land on a dropped family.
	if flagged, stop := e.flag(res.URL); stop {
		flagged.Warnings = res.Warnings
		return flagged
	}
	return res
}

// IsObsolete reports whether u points at a superseded spec location.
func (e *Engine) IsObsolete(u string) bool {
	hp := hostPath(u)
	if hp == "" {
		return false
	}
	return ruleset.HasPrefix(hp, e.rules.Rewrite.Obsolete) ||
		ruleset.Contains(hp, e.rules.Rewrite.ObsoleteSubstrings)
}

// IsIgnored reports whether u belongs to a descoped spec family.
func (e *Engine) IsIgnored(u string) bool {
	return ruleset.HasPrefix(u, e.rules.Rewrite.Ignored)
}

func (e *Engine) flag(u string) (Result, bool) {
	switch {
	case e.IsObsolete(u):
		return Result{URL: u, Obsolete: true}, true
	case e.IsIgnored(u):
		return Result{URL: u, Ignored: true}, true
	}
	return Result{}, false
}

func (e *Engine) substitute(u string) string {
	for _, s := range e.rules.Substitutions {
		if s.Matches(u) {
			return s.Apply(u)
		}
	}
	return u
}

// DecodeFragment percent-decodes the fragment of u. On failure u is
// returned unchanged together with an error describing the fragment.
// A fragment that would still carry escapes after decoding is left
// alone, so decoding an already decoded URL is a no-op.
func DecodeFragment(u string) (string, error) {
	i := strings.IndexByte(u, '#')
	if i < 0 || i == len(u)-1 {
		return u, nil
	}
	raw := u[i+1:]
	if !strings.Contains(raw, "%") {
		return u, nil
	}
	frag, err := url.PathUnescape(raw)
	if err != nil {
		return u, fmt.Errorf("odd fragment: %s", raw)
	}
	if hasEscape(frag) {
		return u, nil
	}
	return u[:i+1] + frag, nil
}

// hasEscape reports whether s contains a %XX escape.
func hasEscape(s string) bool {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == '%' && isHex(s[i+1]) && isHex(s[i+2]) {
			return true
		}
	}
	return false
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// IsBroken reports whether u cannot be catalogued: it has no host, no
// fragment, or carries a literal "http://" inside its path or fragment.
func IsBroken(u string) bool {
	if !strings.Contains(u, "#") {
		return true
	}
	parsed, err := url.Parse(u)
	if err != nil {
		// Fragments that fail to parse still carry a usable host.
		hash := strings.IndexByte(u, '#')
		parsed, err = url.Parse(u[:hash])
		if err != nil {
			return true
		}
		parsed.Fragment = u[hash+1:]
	}
	if parsed.Host == "" {
		return true
	}
	return strings.Contains(parsed.Path, "http://") || strings.Contains(parsed.Fragment, "http://")
}

// hostPath returns host+path of u, or "" if u has no host.
func hostPath(u string) string {
	rest := u
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else {
		return ""
	}
	if i := strings.IndexAny(rest, "#?"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
