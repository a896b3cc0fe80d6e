// Package extractors reads spec documents: it detects the generator
// that produced a page, finds meta-refresh redirects and collects the
// id and name anchors a page defines.
//
// Extraction is purely structural. Which anchors are kept, and how they
// are qualified into registry URLs, is decided by the anchor builder.
package extractors
