package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
)

type mockAnchors struct {
	report *driving.AnchorReport
	err    error
	runs   int
}

func (m *mockAnchors) Build(context.Context, *domain.SpecMap, []string) (*domain.AnchorRegistry, *domain.Classification, error) {
	return domain.NewAnchorRegistry(), domain.NewClassification(), m.err
}

func (m *mockAnchors) Run(context.Context) (*driving.AnchorReport, error) {
	m.runs++
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockXref struct {
	report *driving.XrefReport
	err    error
	runs   []driving.XrefOptions
	checks []driving.XrefOptions
}

func (m *mockXref) Run(_ context.Context, opts driving.XrefOptions) (*driving.XrefReport, error) {
	m.runs = append(m.runs, opts)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockXref) Check(_ context.Context, opts driving.XrefOptions) (*driving.XrefReport, error) {
	m.checks = append(m.checks, opts)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockNormalizer struct{}

func (mockNormalizer) Normalize(u string) string {
	return mockNormalizer{}.Rewrite(u).URL
}

func (mockNormalizer) Rewrite(u string) domain.RewriteResult {
	switch u {
	case "http://www.w3.org/TR/html5/":
		return domain.RewriteResult{URL: u, Obsolete: true}
	case "https://w3c.github.io/foo/#%":
		return domain.RewriteResult{URL: u, Warnings: []string{"malformed fragment"}}
	}
	return domain.RewriteResult{URL: "https://canonical.example/" + u}
}

type mockResolver struct{}

func (mockResolver) Resolve(u, _ string) domain.SpecIdentity {
	return domain.SpecIdentity{Shortname: "example", BaseURL: "https://canonical.example/", LocationKey: "#frag"}
}

type testServices struct {
	anchors *mockAnchors
	xref    *mockXref
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		anchors: &mockAnchors{report: &driving.AnchorReport{Specs: 10, Fetched: 8, Failed: 1, Stable: 1, Anchors: 1234}},
		xref: &mockXref{report: &driving.XrefReport{
			Features: 5, Linked: 4, Dropped: 1, Files: []string{"a.json", "b.json"},
		}},
	}
	old := services
	services = &Services{
		Settings:   domain.DefaultSettings(),
		Anchors:    ts.anchors,
		Xref:       ts.xref,
		Normalizer: mockNormalizer{},
		Resolver: func(context.Context) (driving.IdentityResolver, error) {
			return mockResolver{}, nil
		},
	}
	return ts, func() { services = old }
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

var errBoom = errors.New("boom")
