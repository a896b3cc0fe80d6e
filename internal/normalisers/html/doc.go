// Package html provides the TextNormaliser for MDN article summaries.
// Summaries arrive as HTML fragments; the normaliser strips tags with a
// bluemonday strict policy, decodes entities and collapses whitespace.
package html
