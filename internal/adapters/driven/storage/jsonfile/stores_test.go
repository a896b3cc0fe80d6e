package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSpecMapStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), domain.SpecMapFile)
	store := NewSpecMapStore(path)

	m := domain.NewSpecMap(map[string]string{
		"https://w3c.github.io/foo/":     "foo.json",
		"https://drafts.csswg.org/bar/": "css-bar.json",
	})
	require.NoError(t, store.Save(ctx, m))

	want := "{\n" +
		"    \"https://drafts.csswg.org/bar/\": \"css-bar.json\",\n" +
		"    \"https://w3c.github.io/foo/\": \"foo.json\"\n" +
		"}\n"
	assert.Equal(t, want, readString(t, path))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), loaded.Entries())
}

func TestSpecMapStore_ControlFileErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte("null"), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.json"), corrupt, null} {
		_, err := NewSpecMapStore(path).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrControlFile, path)
	}
}

func TestRegistryStore_SortedAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), domain.SpecURLsFile)
	store := NewRegistryStore(path)

	r := domain.NewAnchorRegistry(
		"https://w3c.github.io/foo/#b",
		"https://w3c.github.io/foo/#a",
		"https://w3c.github.io/foo/#b",
	)
	require.NoError(t, store.Save(ctx, r))

	want := "[\n" +
		"    \"https://w3c.github.io/foo/#a\",\n" +
		"    \"https://w3c.github.io/foo/#b\"\n" +
		"]\n"
	assert.Equal(t, want, readString(t, path))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Has("https://w3c.github.io/foo/#a"))
	assert.Equal(t, 2, loaded.Len())
}

func TestRegistryStore_Missing(t *testing.T) {
	_, err := NewRegistryStore(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrControlFile)
}

func TestSupplementaryStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	urls, err := NewSupplementaryStore(filepath.Join(dir, "missing.json")).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)

	path := filepath.Join(dir, domain.SupplementaryFile)
	require.NoError(t, os.WriteFile(path, []byte(`["https://tc39.es/proposal-x/#sec-x"]`), 0o644))
	urls, err = NewSupplementaryStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://tc39.es/proposal-x/#sec-x"}, urls)

	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o644))
	_, err = NewSupplementaryStore(path).Load(ctx)
	assert.Error(t, err)
}

func TestClassificationStore_Save(t *testing.T) {
	dir := t.TempDir()
	c := domain.NewClassification()
	c.Record(domain.GeneratorBikeshed, "css-grid.json")
	c.Record(domain.GeneratorBikeshed, "css-align.json")
	c.Record(domain.GeneratorBikeshed, "css-grid.json")
	c.Record(domain.GeneratorReSpec, "webrtc.json")

	require.NoError(t, NewClassificationStore(dir).Save(context.Background(), c))

	assert.Equal(t, "css-align.json\ncss-grid.json", readString(t, filepath.Join(dir, domain.BikeshedSpecsFile)))
	assert.Equal(t, "webrtc.json", readString(t, filepath.Join(dir, domain.RespecSpecsFile)))
	assert.Equal(t, "", readString(t, filepath.Join(dir, domain.OtherSpecsFile)))
}

func TestSpecWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewSpecWriter(dir)
	filename := "api/Foo.json"

	features := map[string][]domain.Feature{
		"foo#bar": {{
			Name:     "bar",
			Filename: &filename,
			Title:    "Foo: bar() method",
			Slug:     "API/Foo/bar",
			Summary:  "The <bar> & baz",
			Engines:  []string{},
		}},
	}
	require.NoError(t, w.Write(context.Background(), "foo", features))

	got := readString(t, filepath.Join(dir, "foo.json"))
	assert.Contains(t, got, "\n    \"foo#bar\": [\n        {\n")
	assert.Contains(t, got, `"summary": "The <bar> & baz"`)
	assert.Contains(t, got, `"engines": []`)
	assert.Contains(t, got, `"filename": "api/Foo.json"`)
	assert.Equal(t, byte('\n'), got[len(got)-1])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSpecWriter_RejectsBadShortname(t *testing.T) {
	w := NewSpecWriter(t.TempDir())
	for _, name := range []string{"", "../escape", `a\b`} {
		err := w.Write(context.Background(), name, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}
