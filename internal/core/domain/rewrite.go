package domain

// RewriteResult is the outcome of rewriting one spec URL.
type RewriteResult struct {
	URL string

	// Obsolete is set when the URL points at a superseded spec location.
	Obsolete bool

	// Ignored is set when the URL belongs to a descoped spec family.
	Ignored bool

	// Warnings holds non-fatal problems such as an undecodable fragment.
	Warnings []string
}

// Dropped reports whether the caller should skip the URL.
func (r RewriteResult) Dropped() bool {
	return r.Obsolete || r.Ignored
}
