package services

import (
	"net/url"
	"path"
	"strings"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
	"github.com/custodia-labs/specmap/internal/logger"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// Ensure Resolver implements the interface.
var _ driving.IdentityResolver = (*Resolver)(nil)

// Resolver derives (shortname, base URL, location key) triples.
// It owns the run's spec map and output buckets; nothing is global.
type Resolver struct {
	rules []ruleset.IdentityRule
	specs *domain.SpecMap
	book  domain.SpecBook
}

// NewResolver creates a resolver over specs. book may be nil when no
// output buckets are being accumulated.
func NewResolver(rules *ruleset.RuleSet, specs *domain.SpecMap, book domain.SpecBook) *Resolver {
	return &Resolver{
		rules: rules.Identity,
		specs: specs,
		book:  book,
	}
}

// SpecMap returns the spec map the resolver registers into.
func (r *Resolver) SpecMap() *domain.SpecMap {
	return r.specs
}

// Resolve returns the identity of specURL. A base URL already present in
// the spec map keeps its recorded shortname; new base URLs are registered.
func (r *Resolver) Resolve(specURL, feature string) domain.SpecIdentity {
	id, register := r.Derive(specURL, feature)

	if name, ok := r.specs.Shortname(id.BaseURL); ok {
		id.Shortname = name
	} else if register {
		r.specs.Register(id.BaseURL, id.Filename())
	}

	if r.book != nil {
		r.book.Ensure(id.Shortname)
	}
	return id
}

// Derive computes the identity of specURL from its shape and the identity
// rules alone, without consulting the spec map. register is false for
// rules that keep their base URL out of the map.
func (r *Resolver) Derive(specURL, feature string) (id domain.SpecIdentity, register bool) {
	for strings.Contains(specURL, "##") {
		specURL = strings.ReplaceAll(specURL, "##", "#")
	}

	doc, fragment, _ := strings.Cut(specURL, "#")
	if decoded, err := url.PathUnescape(fragment); err == nil {
		fragment = decoded
	} else {
		logger.Warn("%s: odd fragment: %s", feature, fragment)
	}

	var host, urlPath string
	if u, err := url.Parse(doc); err == nil {
		host, urlPath = u.Host, u.Path
	}

	filename := urlPath[strings.LastIndex(urlPath, "/")+1:]
	if filename != "" {
		id.LocationKey = filename + "#" + fragment
		id.BaseURL = doc[:strings.LastIndex(doc, "/")+1]
	} else {
		id.LocationKey = "#" + fragment
		id.BaseURL = doc
	}
	if strings.HasSuffix(id.BaseURL, "//") && !strings.HasSuffix(id.BaseURL, "://") {
		logger.Error("%s: bad spec URL %s", feature, specURL)
		id.BaseURL = strings.TrimRight(id.BaseURL, "/") + "/"
	}
	if !strings.HasSuffix(id.BaseURL, "/") {
		id.BaseURL += "/"
	}
	id.Shortname = deriveShortname(host, urlPath, filename)
	register = true

	for _, rule := range r.rules {
		if !rule.Matches(specURL, host) {
			continue
		}
		id.LocationKey = "#" + fragment
		switch {
		case rule.Shortname != "":
			id.Shortname = rule.Shortname
		case rule.ShortnameFrom == ruleset.FromSubdomain:
			id.Shortname = strings.ToLower(strings.SplitN(host, ".", 2)[0])
		case rule.ShortnameFrom == ruleset.FromPage:
			id.Shortname = strings.ToLower(pageName(filename))
		}
		switch {
		case rule.BaseURL != "":
			id.BaseURL = rule.BaseURL
		case rule.BasePrefix != "":
			id.BaseURL = rule.BasePrefix + pageName(filename)
		case rule.BaseFrom == ruleset.FromHost:
			id.BaseURL = schemeOf(doc) + "://" + host + "/"
		case rule.BaseFrom == ruleset.FromPage:
			id.BaseURL = doc
		}
		register = !rule.NoRegister
		break
	}
	return id, register
}

// deriveShortname picks the last directory of a bare-fragment URL, or the
// parent directory of a named file.
func deriveShortname(host, urlPath, filename string) string {
	var name string
	if filename == "" {
		name = path.Base(urlPath)
	} else if segments := strings.Split(urlPath, "/"); len(segments) >= 2 {
		name = segments[len(segments)-2]
	}
	if name == "" || name == "/" || name == "." {
		name = strings.SplitN(host, ".", 2)[0]
	}
	return strings.ToLower(name)
}

// pageName is filename without its extension.
func pageName(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

func schemeOf(u string) string {
	if scheme, _, ok := strings.Cut(u, "://"); ok {
		return scheme
	}
	return "https"
}
