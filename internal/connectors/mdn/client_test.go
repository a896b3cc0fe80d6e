package mdn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

type stubFetcher struct {
	bodies map[string]string
	err    error
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*domain.FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("got 404 error response for " + url)
	}
	return &domain.FetchResult{RequestURL: url, URL: url, Body: []byte(body), StatusCode: 200}, nil
}

func TestIndexURL(t *testing.T) {
	c := NewClient(nil, "http://localhost:5042/")

	tests := []struct {
		in   string
		want string
	}{
		{"https://developer.mozilla.org/en-US/docs/Web/API/Foo", "http://localhost:5042/en-US/docs/Web/API/Foo/index.json"},
		{"https://developer.mozilla.org/en-US/docs/Web/API/Foo#bar", "http://localhost:5042/en-US/docs/Web/API/Foo/index.json"},
		{"https://developer.mozilla.org/en-US/docs/Web/CSS/:is", "http://localhost:5042/en-US/docs/Web/CSS/:is/index.json"},
	}
	for _, tt := range tests {
		got, err := c.IndexURL(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := c.IndexURL("::")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestArticle(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		"https://mdn.example/en-US/docs/Web/API/Foo/index.json": `{"doc": {"title": "Foo", "summary": "<p>The <code>Foo</code> interface</p>"}}`,
		"https://mdn.example/en-US/docs/Web/API/Bad/index.json": `<html>`,
	}}
	c := NewClient(f, "https://mdn.example")
	ctx := context.Background()

	a, err := c.Article(ctx, "https://developer.mozilla.org/en-US/docs/Web/API/Foo")
	require.NoError(t, err)
	assert.Equal(t, "Foo", a.Title)
	assert.Equal(t, "<p>The <code>Foo</code> interface</p>", a.Summary)

	_, err = c.Article(ctx, "https://developer.mozilla.org/en-US/docs/Web/API/Missing")
	assert.EqualError(t, err, "got 404 error response for https://mdn.example/en-US/docs/Web/API/Missing/index.json")

	_, err = c.Article(ctx, "https://developer.mozilla.org/en-US/docs/Web/API/Bad")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
