package domain

// CaniuseEntry links a feature to a caniuse.com feature page.
type CaniuseEntry struct {
	Feature string `json:"feature"`
	Title   string `json:"title"`
}

// Feature is one BCD compatibility entry catalogued under a spec fragment.
type Feature struct {
	// Name is the feature's own key in its BCD file (e.g. "body").
	Name string `json:"name"`

	// Filename is the BCD file the feature was read from, relative to the
	// BCD root. It is nil for local feature files.
	Filename *string `json:"filename"`

	// Title and Summary come from the MDN article for the feature.
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Summary string `json:"summary"`

	// Engines lists engines with full support.
	Engines []string `json:"engines"`

	// Engines whose best support is of the given weaker kind.
	AltName   []string `json:"altname,omitempty"`
	NeedsFlag []string `json:"needsflag,omitempty"`
	Partial   []string `json:"partial,omitempty"`
	Prefixed  []string `json:"prefixed,omitempty"`

	Support Support       `json:"support"`
	Caniuse *CaniuseEntry `json:"caniuse,omitempty"`
}

// SpecBook accumulates features per output shortname and location key.
type SpecBook map[string]map[string][]Feature

// Ensure creates the bucket for shortname if it does not exist.
func (b SpecBook) Ensure(shortname string) map[string][]Feature {
	bucket, ok := b[shortname]
	if !ok {
		bucket = make(map[string][]Feature)
		b[shortname] = bucket
	}
	return bucket
}

// Append adds a feature under shortname and locationKey.
func (b SpecBook) Append(shortname, locationKey string, f Feature) {
	bucket := b.Ensure(shortname)
	bucket[locationKey] = append(bucket[locationKey], f)
}
