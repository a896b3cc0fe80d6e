// Package caniuse loads the caniuse.com feature dataset.
package caniuse

import (
	"context"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.CaniuseSource = (*Source)(nil)

// Source reads the dataset from a URL through a fetcher.
type Source struct {
	fetcher driven.Fetcher
	url     string
}

// NewSource creates a caniuse source for the dataset at url.
func NewSource(fetcher driven.Fetcher, url string) *Source {
	return &Source{fetcher: fetcher, url: url}
}

// Features returns every entry of the dataset's data object, sorted by ID.
func (s *Source) Features(ctx context.Context) ([]domain.CaniuseFeature, error) {
	res, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return Parse(res.Body)
}

// Parse decodes a caniuse dataset.
func Parse(body []byte) ([]domain.CaniuseFeature, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("caniuse data: invalid JSON: %w", domain.ErrInvalidInput)
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, fmt.Errorf("caniuse data: no data object: %w", domain.ErrInvalidInput)
	}

	var features []domain.CaniuseFeature
	data.ForEach(func(id, entry gjson.Result) bool {
		features = append(features, domain.CaniuseFeature{
			ID:    id.String(),
			Title: entry.Get("title").String(),
			Spec:  entry.Get("spec").String(),
		})
		return true
	})
	sort.Slice(features, func(i, j int) bool { return features[i].ID < features[j].ID })
	return features, nil
}
