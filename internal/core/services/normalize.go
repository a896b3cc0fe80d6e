package services

import (
	"fmt"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
	"github.com/custodia-labs/specmap/internal/rewrite"
)

// Ensure NormalizeService implements the interface.
var _ driving.URLNormalizer = (*NormalizeService)(nil)

// NormalizeService exposes the rewrite engine to the CLI.
type NormalizeService struct {
	engine *rewrite.Engine
}

// NewNormalizeService creates a new normalize service.
func NewNormalizeService(engine *rewrite.Engine) *NormalizeService {
	return &NormalizeService{engine: engine}
}

// Normalize returns the canonical form of u.
func (s *NormalizeService) Normalize(u string) string {
	return s.engine.Normalize(u)
}

// Rewrite returns the canonical form of u with its drop flags.
func (s *NormalizeService) Rewrite(u string) domain.RewriteResult {
	return s.engine.Rewrite(u)
}

// Validate rewrites u and reports why it cannot be catalogued, if at all.
// Ignored URLs are not an error.
func (s *NormalizeService) Validate(u string) (domain.RewriteResult, error) {
	res := s.engine.Rewrite(u)
	switch {
	case res.Obsolete:
		return res, fmt.Errorf("%s: %w", u, domain.ErrObsolete)
	case res.Ignored:
		return res, nil
	case rewrite.IsBroken(res.URL):
		return res, fmt.Errorf("%s: %w", res.URL, domain.ErrBrokenURL)
	}
	return res, nil
}
