package html

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextNormaliser = (*Normaliser)(nil)

// Normaliser turns MDN summary markup into plain text.
type Normaliser struct {
	policy *bluemonday.Policy
}

// New creates a new summary normaliser.
func New() *Normaliser {
	return &Normaliser{policy: bluemonday.StrictPolicy()}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "html-summary"
}

// Normalise strips tags, decodes entities and collapses all whitespace,
// non-breaking spaces included, to single spaces.
func (n *Normaliser) Normalise(text string) string {
	if text == "" {
		return ""
	}
	// StrictPolicy leaves text entity-encoded
	stripped := html.UnescapeString(n.policy.Sanitize(text))
	// unicode.IsSpace covers U+00A0
	return strings.Join(strings.Fields(stripped), " ")
}
