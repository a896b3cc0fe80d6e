package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Spec URL Errors.

	// ErrBrokenURL indicates a spec URL has no host, no fragment,
	// or an embedded http:// reference.
	ErrBrokenURL = errors.New("bad spec URL")

	// ErrBadFragment indicates a spec URL's fragment is absent from the anchor registry.
	ErrBadFragment = errors.New("bad fragment")

	// ErrObsolete indicates a spec URL points at a superseded specification.
	ErrObsolete = errors.New("obsolete spec URL")

	// Control File Errors.

	// ErrControlFile indicates a required control file (SPECMAP.json, SPECURLS.json)
	// is missing or corrupt. This is the only fatal error class in a run.
	ErrControlFile = errors.New("control file unreadable")

	// ErrRuleSet indicates the rewrite rule set could not be loaded.
	ErrRuleSet = errors.New("invalid rule set")
)
