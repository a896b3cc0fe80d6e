package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "specmap.toml"))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specmap.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, path, store.Path())
	assert.NoFileExists(t, path)
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFile, store.Path())
}

func TestNewConfigStore_NestedTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specmap.toml")
	content := `
[paths]
bcd = "../browser-compat-data"
bcd_directories = ["api", "css"]

[fetch]
max_attempts = 5
requests_per_second = 1.5
timeout = "45s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "../browser-compat-data", store.GetString("paths.bcd"))
	assert.Equal(t, []string{"api", "css"}, store.GetStringSlice("paths.bcd_directories"))
	assert.Equal(t, 5, store.GetInt("fetch.max_attempts"))
	assert.InDelta(t, 1.5, store.GetFloat("fetch.requests_per_second"), 1e-9)
	assert.Equal(t, "45s", store.GetString("fetch.timeout"))
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specmap.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not valid TOML {{{[["), 0o644))

	store, err := NewConfigStore(path)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("string_key", "hello world"))
	require.NoError(t, store.Set("int_key", 42))
	require.NoError(t, store.Set("float_key", 2.5))
	require.NoError(t, store.Set("bool_key", true))
	require.NoError(t, store.Set("slice_key", []string{"a", "b"}))

	assert.Equal(t, "hello world", store.GetString("string_key"))
	assert.Equal(t, 42, store.GetInt("int_key"))
	assert.InDelta(t, 2.5, store.GetFloat("float_key"), 1e-9)
	assert.InDelta(t, 42.0, store.GetFloat("int_key"), 1e-9)
	assert.True(t, store.GetBool("bool_key"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice_key"))

	// Wrong types fall back to zero values
	assert.Equal(t, "", store.GetString("int_key"))
	assert.Equal(t, 0, store.GetInt("string_key"))
	assert.Zero(t, store.GetFloat("bool_key"))
	assert.False(t, store.GetBool("string_key"))
	assert.Nil(t, store.GetStringSlice("int_key"))

	// Missing keys
	_, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("nonexistent"))
}

func TestConfigStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "specmap.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("fetch.user_agent", "specmap-test"))
	require.NoError(t, store.Set("fetch.max_attempts", 3))
	require.NoError(t, store.Set("paths.bcd_directories", []string{"api"}))

	// dot keys are saved as tables
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[fetch]")

	reloaded, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "specmap-test", reloaded.GetString("fetch.user_agent"))
	assert.Equal(t, 3, reloaded.GetInt("fetch.max_attempts"))
	assert.Equal(t, []string{"api"}, reloaded.GetStringSlice("paths.bcd_directories"))
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0o700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store := newTestStore(t)

	// Channels cannot be marshaled to TOML
	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("key", "value"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.GetString("key")
				_, _ = store.Get("key")
			}
		}()
	}
	wg.Wait()
}

func TestNestMap_InverseOfFlatten(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c.d": "x", "e": true}

	assert.Equal(t, flat, flattenMap(nestMap(flat), ""))
}
