package domain

import (
	"encoding/json"
	"fmt"
)

// SpecURLs is a BCD spec_url value: a single string or an array of strings.
type SpecURLs []string

// UnmarshalJSON accepts both the string and the array form.
func (s *SpecURLs) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = SpecURLs{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("spec_url: %w", ErrInvalidInput)
	}
	*s = many
	return nil
}

// Status is the BCD status block.
type Status struct {
	Experimental  bool `json:"experimental"`
	StandardTrack bool `json:"standard_track"`
	Deprecated    bool `json:"deprecated"`
}

// Compat is the __compat block of a BCD feature node.
type Compat struct {
	SpecURL SpecURLs      `json:"spec_url"`
	MDNURL  string        `json:"mdn_url"`
	Status  *Status       `json:"status"`
	Support Support       `json:"support"`
	Caniuse *CaniuseEntry `json:"-"`

	// SupportFrom is [otherFilename, dottedPath]: support is read from there.
	SupportFrom []string `json:"support_from"`
}

// Standard reports whether the feature is on the standards track.
func (c *Compat) Standard() bool {
	return c.Status != nil && c.Status.StandardTrack
}

// Deprecated reports whether the feature is deprecated.
func (c *Compat) Deprecated() bool {
	return c.Status != nil && c.Status.Deprecated
}

// Experimental reports whether the feature is experimental.
func (c *Compat) Experimental() bool {
	return c.Status != nil && c.Status.Experimental
}

// FeatureNode is a BCD tree node carrying a __compat block.
type FeatureNode struct {
	// Name is the dotted feature path, e.g. "api.Document.body".
	Name string

	// Filename is the BCD file, relative to the BCD root.
	Filename string

	Compat Compat
}

// CaniuseFeature is one entry of the caniuse dataset.
type CaniuseFeature struct {
	ID    string
	Title string
	Spec  string
}

// Article is the MDN metadata of a feature's documentation page.
type Article struct {
	Title   string
	Summary string
}

// FetchResult is a retrieved remote document.
type FetchResult struct {
	// RequestURL is the URL originally asked for, kept across meta-refresh.
	RequestURL string

	// URL is the URL the body was finally read from.
	URL string

	Body        []byte
	ContentType string
	StatusCode  int
}
