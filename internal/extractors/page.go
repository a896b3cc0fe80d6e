package extractors

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

// Markup signatures of the spec generators.
const (
	respecSelector   = `script[src*="respec"], meta[content*="ReSpec"]`
	bikeshedSelector = `body.h-entry, meta[content*="Bikeshed"]`
	refreshSelector  = `meta[http-equiv][content]`
	idSelector       = `[id]`
	nameSelector     = `*:not(meta)[name]`
)

// respecMarker appears in documents that render themselves client-side.
var respecMarker = []byte("respec-w3c-")

// Page is a parsed spec document.
type Page struct {
	doc *goquery.Document
	raw []byte
}

// Parse parses an HTML document. body must be UTF-8.
func Parse(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{doc: doc, raw: body}, nil
}

// Generator classifies the toolchain that produced the page.
func (p *Page) Generator() domain.Generator {
	switch {
	case p.doc.Find(respecSelector).Length() > 0:
		return domain.GeneratorReSpec
	case p.doc.Find(bikeshedSelector).Length() > 0:
		return domain.GeneratorBikeshed
	}
	return domain.GeneratorOther
}

// LoadsRespec reports whether the page still carries ReSpec's client-side
// rendering hooks, meaning its anchors may be incomplete.
func (p *Page) LoadsRespec() bool {
	return bytes.Contains(p.raw, respecMarker)
}

// IDs returns the id attribute values in document order.
func (p *Page) IDs() []string {
	return p.attrs(idSelector, "id")
}

// Names returns the name attribute values of non-meta elements in document order.
func (p *Page) Names() []string {
	return p.attrs(nameSelector, "name")
}

func (p *Page) attrs(selector, attr string) []string {
	var out []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok && v != "" {
			out = append(out, v)
		}
	})
	return out
}

// MetaRefresh returns the absolute target of a meta-refresh redirect,
// resolved against base.
func (p *Page) MetaRefresh(base string) (string, bool) {
	var content string
	p.doc.Find(refreshSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("http-equiv", "")), "refresh") {
			content = s.AttrOr("content", "")
			return false
		}
		return true
	})
	if content == "" {
		return "", false
	}
	return refreshTarget(content, base)
}

// MetaRefresh parses body and returns its meta-refresh target, if any.
func MetaRefresh(body []byte, base string) (string, bool) {
	p, err := Parse(body)
	if err != nil {
		return "", false
	}
	return p.MetaRefresh(base)
}

// refreshTarget extracts the URL of a "<delay>; url=<target>" value.
func refreshTarget(content, base string) (string, bool) {
	_, target, ok := strings.Cut(content, "=")
	if !ok {
		return "", false
	}
	target = strings.Trim(strings.TrimSpace(target), `'"`)
	if target == "" {
		return "", false
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", false
	}
	return baseURL.ResolveReference(ref).String(), true
}
