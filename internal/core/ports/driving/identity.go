package driving

import "github.com/custodia-labs/specmap/internal/core/domain"

// URLNormalizer rewrites spec URLs to their canonical form.
type URLNormalizer interface {
	// Normalize returns the canonical URL; it never fails.
	Normalize(url string) string

	// Rewrite returns the canonical URL with its drop flags and warnings.
	Rewrite(url string) domain.RewriteResult
}

// IdentityResolver derives spec identities from spec URLs.
type IdentityResolver interface {
	// Resolve returns the identity of url, registering new base URLs
	// in the spec map. feature labels diagnostics.
	Resolve(url, feature string) domain.SpecIdentity
}
