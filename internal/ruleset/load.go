package ruleset

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

//go:embed default.toml
var defaultRules []byte

// Default returns the embedded rule set.
func Default() (*RuleSet, error) {
	return Parse(defaultRules)
}

// Load reads a rule set from path. An empty path yields the embedded default.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule set %s: %w", path, err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes and compiles a TOML rule set.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := toml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleSet, err)
	}
	if err := rs.compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func (rs *RuleSet) compile() error {
	if rs.Version < 1 {
		return fmt.Errorf("%w: missing or invalid version", domain.ErrRuleSet)
	}
	for i, s := range rs.Substitutions {
		if s.Prefix == "" || s.Target == "" {
			return fmt.Errorf("%w: substitution %d needs prefix and target", domain.ErrRuleSet, i)
		}
	}
	for i := range rs.Rewrites {
		d := &rs.Rewrites[i]
		if d.Stage != StageFragment && d.Stage != StageCollapse {
			return fmt.Errorf("%w: rewrite %d has unknown stage %q", domain.ErrRuleSet, i, d.Stage)
		}
		if (d.Match == "") == (d.Pattern == "") {
			return fmt.Errorf("%w: rewrite %d needs exactly one of match and pattern", domain.ErrRuleSet, i)
		}
		if d.Pattern != "" {
			re, err := regexp.Compile(d.Pattern)
			if err != nil {
				return fmt.Errorf("%w: rewrite %d: %v", domain.ErrRuleSet, i, err)
			}
			d.re = re
		}
	}
	for i, r := range rs.Identity {
		if r.Prefix == "" && r.HostSuffix == "" && r.Contains == "" {
			return fmt.Errorf("%w: identity rule %d has no matcher", domain.ErrRuleSet, i)
		}
		if r.ShortnameFrom != "" && r.ShortnameFrom != FromSubdomain && r.ShortnameFrom != FromPage {
			return fmt.Errorf("%w: identity rule %d has unknown shortname_from %q", domain.ErrRuleSet, i, r.ShortnameFrom)
		}
		if r.BaseFrom != "" && r.BaseFrom != FromHost && r.BaseFrom != FromPage {
			return fmt.Errorf("%w: identity rule %d has unknown base_from %q", domain.ErrRuleSet, i, r.BaseFrom)
		}
		if r.BasePrefix != "" && (r.BaseFrom != "" || r.BaseURL != "") {
			return fmt.Errorf("%w: identity rule %d sets base_prefix with another base", domain.ErrRuleSet, i)
		}
	}
	rs.Anchors.excludeIDs = rs.Anchors.excludeIDs[:0]
	for _, p := range rs.Anchors.ExcludeIDs {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("%w: exclude_ids %q: %v", domain.ErrRuleSet, p, err)
		}
		rs.Anchors.excludeIDs = append(rs.Anchors.excludeIDs, re)
	}
	return nil
}

// Stage returns the direct rewrites of one stage, in table order.
func (rs *RuleSet) Stage(stage string) []*DirectRewrite {
	var out []*DirectRewrite
	for i := range rs.Rewrites {
		if rs.Rewrites[i].Stage == stage {
			out = append(out, &rs.Rewrites[i])
		}
	}
	return out
}
