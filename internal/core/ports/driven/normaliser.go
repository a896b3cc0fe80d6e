package driven

// TextNormaliser cleans markup-bearing text for output.
// The MDN summary normaliser strips tags, decodes entities and
// collapses whitespace.
type TextNormaliser interface {
	// Name returns the normaliser name for logging.
	Name() string

	// Normalise returns the cleaned text.
	Normalise(text string) string
}
