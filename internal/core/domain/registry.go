package domain

import (
	"net/url"
	"sort"
	"strings"
)

// AnchorRegistry is the set of fully-qualified "document-URL#fragment"
// strings known to be valid. The zero value is not usable; use NewAnchorRegistry.
type AnchorRegistry struct {
	urls map[string]struct{}

	// byHost indexes "scheme://host#fragment" for lenient lookups.
	// Built lazily and invalidated by Add.
	byHost map[string]struct{}
}

// NewAnchorRegistry creates a registry holding the given URLs.
func NewAnchorRegistry(urls ...string) *AnchorRegistry {
	r := &AnchorRegistry{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		r.Add(u)
	}
	return r
}

// Add inserts an anchor URL. Empty strings are ignored.
func (r *AnchorRegistry) Add(anchorURL string) {
	if anchorURL == "" {
		return
	}
	r.urls[anchorURL] = struct{}{}
	r.byHost = nil
}

// AddAll inserts every URL in the slice.
func (r *AnchorRegistry) AddAll(urls []string) {
	for _, u := range urls {
		r.Add(u)
	}
}

// Has reports whether the exact anchor URL is present.
func (r *AnchorRegistry) Has(anchorURL string) bool {
	_, ok := r.urls[anchorURL]
	return ok
}

// HasFragmentOnHost reports whether any document on the same scheme and host
// as specURL carries the fragment. Multi-page specs whose pages move anchors
// between files are validated this way.
func (r *AnchorRegistry) HasFragmentOnHost(specURL string) bool {
	key, ok := hostFragmentKey(specURL)
	if !ok {
		return false
	}
	if r.byHost == nil {
		r.byHost = make(map[string]struct{}, len(r.urls))
		for u := range r.urls {
			if k, ok := hostFragmentKey(u); ok {
				r.byHost[k] = struct{}{}
			}
		}
	}
	_, found := r.byHost[key]
	return found
}

// Len returns the number of anchors.
func (r *AnchorRegistry) Len() int {
	return len(r.urls)
}

// Sorted returns the anchors deduplicated and in strict lexicographic order.
func (r *AnchorRegistry) Sorted() []string {
	out := make([]string, 0, len(r.urls))
	for u := range r.urls {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func hostFragmentKey(raw string) (string, bool) {
	hash := strings.IndexByte(raw, '#')
	if hash < 0 || hash == len(raw)-1 {
		return "", false
	}
	u, err := url.Parse(raw[:hash])
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host + raw[hash:], true
}
