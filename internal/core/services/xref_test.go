package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
)

// fakeBCD serves feature nodes per walk root.
type fakeBCD struct {
	roots       map[string][]domain.FeatureNode
	supportFrom map[string]domain.Support
	walked      []string
}

func (f *fakeBCD) Walk(_ context.Context, root string, fn driven.WalkFunc) error {
	f.walked = append(f.walked, root)
	for _, node := range f.roots[root] {
		if err := fn(node); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBCD) SupportFrom(_ context.Context, filename, featurePath string) (domain.Support, error) {
	s, ok := f.supportFrom[filename+" "+featurePath]
	if !ok {
		return nil, fmt.Errorf("%s: %w", featurePath, domain.ErrNotFound)
	}
	return s, nil
}

// fakeMDN returns an article for every URL except those listed as missing.
type fakeMDN struct {
	missing map[string]bool
	asked   []string
}

func (m *fakeMDN) Article(_ context.Context, mdnURL string) (*domain.Article, error) {
	m.asked = append(m.asked, mdnURL)
	if m.missing[mdnURL] {
		return nil, fmt.Errorf("got 404 error response for %s/index.json", mdnURL)
	}
	return &domain.Article{Title: "Foo", Summary: "The <code>Foo</code> interface\n  does  things."}, nil
}

type fakeCaniuse struct {
	features []domain.CaniuseFeature
	err      error
}

func (c *fakeCaniuse) Features(context.Context) ([]domain.CaniuseFeature, error) {
	return c.features, c.err
}

func bcdNode(t *testing.T, name, filename, compat string) domain.FeatureNode {
	t.Helper()
	var c domain.Compat
	require.NoError(t, json.Unmarshal([]byte(compat), &c))
	return domain.FeatureNode{Name: name, Filename: filename, Compat: c}
}

const fooCompat = `{
	"spec_url": "https://w3c.github.io/example/#foo-bar",
	"mdn_url": "https://developer.mozilla.org/en-US/docs/Web/API/Foo",
	"status": {"experimental": false, "standard_track": true, "deprecated": false},
	"support": {"chrome": {"version_added": "80"}, "firefox": {"version_added": "75"}}
}`

type xrefFixture struct {
	bcd      *fakeBCD
	mdn      *fakeMDN
	caniuse  *fakeCaniuse
	specs    *memory.SpecMapStore
	registry *memory.RegistryStore
	writer   *memory.SpecWriter
}

func newXrefFixture(anchors ...string) *xrefFixture {
	return &xrefFixture{
		bcd:      &fakeBCD{roots: map[string][]domain.FeatureNode{}, supportFrom: map[string]domain.Support{}},
		mdn:      &fakeMDN{missing: map[string]bool{}},
		caniuse:  &fakeCaniuse{},
		specs:    memory.NewSpecMapStore(map[string]string{}),
		registry: memory.NewRegistryStore(append([]string{}, anchors...)),
		writer:   memory.NewSpecWriter(),
	}
}

func (f *xrefFixture) service(t *testing.T) *XrefService {
	t.Helper()
	return NewXrefService(defaultRules(t), []string{"api"}, XrefDeps{
		BCD:      f.bcd,
		Caniuse:  f.caniuse,
		MDN:      f.mdn,
		SpecMap:  f.specs,
		Registry: f.registry,
		Writer:   f.writer,
	})
}

func TestXrefRun_LinksKnownFragment(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	out, ok := f.writer.File("example")
	require.True(t, ok)
	require.Len(t, out["#foo-bar"], 1)
	feature := out["#foo-bar"][0]
	assert.Equal(t, "Foo", feature.Name)
	require.NotNil(t, feature.Filename)
	assert.Equal(t, "api/Foo.json", *feature.Filename)
	assert.Equal(t, []string{"blink", "gecko"}, feature.Engines)
	assert.Equal(t, "API/Foo", feature.Slug)
	assert.Equal(t, "Foo", feature.Title)
	assert.Equal(t, "The <code>Foo</code> interface does things.", feature.Summary)
	assert.Contains(t, feature.Support, "edge_blink")

	assert.Equal(t, map[string]string{"https://w3c.github.io/example/": "example.json"}, f.specs.Entries())
	assert.Equal(t, []string{"example.json"}, report.Files)
	assert.Equal(t, 1, report.Linked)
	assert.Zero(t, report.Errors)
	assert.NotContains(t, buf.String(), "bad spec URL")
	assert.Equal(t, []string{"https://developer.mozilla.org/en-US/docs/Web/API/Foo"}, f.mdn.asked)
}

func TestXrefRun_UnknownFragmentIsReported(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#other")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Foo: bad spec URL https://w3c.github.io/example/#foo-bar")
	assert.Equal(t, 1, report.Errors)
	assert.Zero(t, report.Linked)
	assert.Empty(t, report.Files)
	assert.Empty(t, f.specs.Entries())

	// The registry itself is never extended by a run.
	assert.Equal(t, []string{"https://w3c.github.io/example/#other"}, f.registry.URLs())
}

func TestXrefRun_SkipsIncompleteFeatures(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.bcd.roots["api"] = []domain.FeatureNode{
		bcdNode(t, "api.NoSpec", "api/NoSpec.json", `{"mdn_url": "https://developer.mozilla.org/docs/Web/API/NoSpec"}`),
		bcdNode(t, "api.Old", "api/Old.json", `{
			"spec_url": "https://w3c.github.io/example/#foo-bar",
			"mdn_url": "https://developer.mozilla.org/docs/Web/API/Old",
			"status": {"deprecated": true}
		}`),
		bcdNode(t, "api.NoMDN", "api/NoMDN.json", `{"spec_url": "https://w3c.github.io/example/#foo-bar"}`),
	}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Old: deprecated but has spec_url")
	assert.Contains(t, buf.String(), "NoMDN: no mdn_url")
	assert.Equal(t, 3, report.Features)
	assert.Equal(t, 2, report.Warnings)
	assert.Zero(t, report.Linked)
	assert.Empty(t, f.mdn.asked)
}

func TestXrefRun_DropsAndRejects(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", `{
		"spec_url": [
			"https://www.w3.org/TR/html5/dom.html#foo",
			"https://www.w3.org/TR/SVG11/struct.html#foo",
			"https://w3c.github.io/example/",
			"https://w3c.github.io/example/#foo-bar"
		],
		"mdn_url": "https://developer.mozilla.org/docs/Web/API/Foo",
		"support": {}
	}`)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Dropped)
	assert.Contains(t, buf.String(), "Foo: broken spec URL https://w3c.github.io/example/")
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 1, report.Linked)
}

func TestXrefRun_CaniuseLink(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.caniuse.features = []domain.CaniuseFeature{
		{ID: "foo", Title: "Foo API", Spec: "https://w3c.github.io/example/#foo-bar"},
		{ID: "nohash", Title: "No hash", Spec: "https://w3c.github.io/example/"},
	}
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}

	_, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	out, _ := f.writer.File("example")
	require.Len(t, out["#foo-bar"], 1)
	assert.Equal(t, &domain.CaniuseEntry{Feature: "foo", Title: "Foo API"}, out["#foo-bar"][0].Caniuse)
}

func TestXrefRun_CaniuseFailureIsNotFatal(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.caniuse.err = errors.New("unreachable")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Linked)
	assert.Equal(t, 1, report.Errors)
}

func TestXrefRun_MDNFailureLeavesMetadataEmpty(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.mdn.missing["https://developer.mozilla.org/en-US/docs/Web/API/Foo"] = true
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "got 404 error response for")
	assert.Equal(t, 1, report.Linked)
	assert.Equal(t, 1, report.Errors)

	out, ok := f.writer.File("example")
	require.True(t, ok)
	require.Len(t, out["#foo-bar"], 1)
	feature := out["#foo-bar"][0]
	assert.Equal(t, "Foo", feature.Name)
	assert.Equal(t, "API/Foo", feature.Slug)
	assert.Empty(t, feature.Title)
	assert.Empty(t, feature.Summary)
	assert.Equal(t, []string{"blink", "gecko"}, feature.Engines)
}

func TestXrefRun_NoteNamesFragmentOnce(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}

	_, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "https://w3c.github.io/example/#foo-bar in two or more engines.")
	assert.NotContains(t, buf.String(), "##")
}

func TestXrefRun_LenientFamilyValidatesOnHost(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://html.spec.whatwg.org/#dom-document-title")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Document.title", "api/Document.json", `{
		"spec_url": "https://html.spec.whatwg.org/multipage/dom.html#dom-document-title",
		"mdn_url": "https://developer.mozilla.org/docs/Web/API/Document/title",
		"support": {"chrome": {"version_added": "1"}}
	}`)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	out, ok := f.writer.File("html")
	require.True(t, ok)
	assert.Len(t, out["#dom-document-title"], 1)
	assert.Equal(t, "title", out["#dom-document-title"][0].Name)
	assert.Zero(t, report.Errors)
}

func TestXrefRun_EngineWarnings(t *testing.T) {
	tests := []struct {
		name    string
		support string
		status  string
		want    string
	}{
		{"one engine", `{"chrome": {"version_added": "1"}}`, `{"experimental": false}`, "is implemented in one engine or less."},
		{"zero engines", `{"chrome": {"version_added": false}}`, `{"experimental": false}`, "is implemented in zero engines."},
		{"experimental is quiet", `{"chrome": {"version_added": "1"}}`, `{"experimental": true}`, ""},
		{"missing status is not experimental", `{"chrome": {"version_added": "1"}}`, "", "is implemented in one engine or less."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
			status := ""
			if tt.status != "" {
				status = `"status": ` + tt.status + `,`
			}
			f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", `{
				"spec_url": "https://w3c.github.io/example/#foo-bar",
				"mdn_url": "https://developer.mozilla.org/docs/Web/API/Foo",
				`+status+`
				"support": `+tt.support+`
			}`)}

			report, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
			require.NoError(t, err)
			if tt.want == "" {
				assert.Zero(t, report.Warnings)
				return
			}
			assert.Contains(t, buf.String(), "Foo: https://developer.mozilla.org/en-US/docs/Web/API/Foo "+tt.want)
			assert.Equal(t, 1, report.Warnings)
		})
	}
}

func TestXrefRun_SupportFromAndMissingSupport(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar", "https://w3c.github.io/example/#baz")
	f.bcd.supportFrom["html/elements/img.json html.elements.img.crossorigin"] = domain.Support{
		"firefox": domain.NewSupportBlock(domain.SupportStatement{VersionAdded: "8"}),
	}
	f.bcd.roots["api"] = []domain.FeatureNode{
		bcdNode(t, "api.Foo", "api/Foo.json", `{
			"spec_url": "https://w3c.github.io/example/#foo-bar",
			"mdn_url": "https://developer.mozilla.org/docs/Web/API/Foo",
			"support": {"chrome": {"version_added": "1"}},
			"support_from": ["html/elements/img.json", "html.elements.img.crossorigin"]
		}`),
		bcdNode(t, "api.Baz", "api/Baz.json", `{
			"spec_url": "https://w3c.github.io/example/#baz",
			"mdn_url": "https://developer.mozilla.org/docs/Web/API/Baz_thing"
		}`),
	}

	_, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	out, _ := f.writer.File("example")
	require.Len(t, out["#foo-bar"], 1)
	assert.Equal(t, []string{"gecko"}, out["#foo-bar"][0].Engines)

	require.Len(t, out["#baz"], 1)
	assert.Equal(t, "Baz_thing", out["#baz"][0].Name)
	assert.Nil(t, out["#baz"][0].Filename)
	assert.Equal(t, []string{}, out["#baz"][0].Engines)
}

func TestXrefRun_TargetAndSubdirectory(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar", "https://w3c.github.io/other/#x")
	f.specs = memory.NewSpecMapStore(map[string]string{"https://w3c.github.io/other/": "other.json"})
	f.bcd.roots["api/Foo.json"] = []domain.FeatureNode{
		bcdNode(t, "api.Foo", "api/Foo.json", fooCompat),
		bcdNode(t, "api.Other", "api/Foo.json", `{
			"spec_url": "https://w3c.github.io/other/#x",
			"mdn_url": "https://developer.mozilla.org/docs/Web/API/Other",
			"support": {}
		}`),
	}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{
		Subdirectory: "api/Foo.json",
		Target:       "other.json",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"api/Foo.json"}, f.bcd.walked)
	assert.Equal(t, []string{"other.json"}, report.Files)
	assert.Equal(t, []string{"https://developer.mozilla.org/en-US/docs/Web/API/Other"}, f.mdn.asked)
	_, wrote := f.writer.File("example")
	assert.False(t, wrote)
}

func TestXrefRun_TargetCoversFamily(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://html.spec.whatwg.org/#dom-document-title")
	f.specs = memory.NewSpecMapStore(map[string]string{"https://html.spec.whatwg.org/multipage/": "html.json"})
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Document.title", "api/Document.json", `{
		"spec_url": "https://html.spec.whatwg.org/multipage/dom.html#dom-document-title",
		"mdn_url": "https://developer.mozilla.org/docs/Web/API/Document/title",
		"support": {}
	}`)}

	report, err := f.service(t).Run(context.Background(), driving.XrefOptions{Target: "html.json"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Linked)
}

func TestXrefRun_LocalFeaturesHaveNoFilename(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	local := &fakeBCD{roots: map[string][]domain.FeatureNode{
		".": {bcdNode(t, "api.Foo", "", fooCompat)},
	}}
	svc := NewXrefService(defaultRules(t), nil, XrefDeps{
		BCD: f.bcd, Local: local, MDN: f.mdn,
		SpecMap: f.specs, Registry: f.registry, Writer: f.writer,
	})

	_, err := svc.Run(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	out, _ := f.writer.File("example")
	require.Len(t, out["#foo-bar"], 1)
	assert.Nil(t, out["#foo-bar"][0].Filename)
}

func TestXrefRun_MissingControlFiles(t *testing.T) {
	captureLog(t)
	f := newXrefFixture()
	f.registry = memory.NewRegistryStore(nil)
	_, err := f.service(t).Run(context.Background(), driving.XrefOptions{})
	assert.ErrorIs(t, err, domain.ErrControlFile)

	f = newXrefFixture()
	f.specs = memory.NewSpecMapStore(nil)
	_, err = f.service(t).Check(context.Background(), driving.XrefOptions{})
	assert.ErrorIs(t, err, domain.ErrControlFile)
}

func TestXrefRun_Cancelled(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.bcd.roots["api"] = []domain.FeatureNode{bcdNode(t, "api.Foo", "api/Foo.json", fooCompat)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service(t).Run(ctx, driving.XrefOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.specs.Saves())
}

func TestXrefCheck_ReportsWithoutWriting(t *testing.T) {
	buf := captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	f.bcd.roots["api"] = []domain.FeatureNode{
		bcdNode(t, "api.Foo", "api/Foo.json", fooCompat),
		bcdNode(t, "api.Bar", "api/Bar.json", `{
			"spec_url": "https://w3c.github.io/example/#bar",
			"mdn_url": "https://developer.mozilla.org/docs/Web/API/Bar",
			"status": {"standard_track": false}
		}`),
	}

	report, err := f.service(t).Check(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "api/Bar.json:Bar: nonstandard but has spec_url")
	assert.Contains(t, buf.String(), "api/Bar.json:Bar: bad spec URL https://w3c.github.io/example/#bar")
	assert.Equal(t, 1, report.Linked)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 1, report.Warnings)
	assert.Empty(t, f.mdn.asked)
	assert.Zero(t, f.writer.Len())
	assert.Zero(t, f.specs.Saves())
}

func TestXrefCheck_SkipsLocalTree(t *testing.T) {
	captureLog(t)
	f := newXrefFixture("https://w3c.github.io/example/#foo-bar")
	local := &fakeBCD{roots: map[string][]domain.FeatureNode{
		".": {bcdNode(t, "api.Foo", "", fooCompat)},
	}}
	svc := NewXrefService(defaultRules(t), nil, XrefDeps{
		BCD: f.bcd, Local: local, MDN: f.mdn,
		SpecMap: f.specs, Registry: f.registry, Writer: f.writer,
	})

	report, err := svc.Check(context.Background(), driving.XrefOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.Features)
	assert.Empty(t, local.walked)
}
