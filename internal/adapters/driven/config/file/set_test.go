package file

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmap/internal/core/domain"
)

func TestSetSetting_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specmap.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, SetSetting(store, KeyMaxAttempts, "5"))
	require.NoError(t, SetSetting(store, KeyRequestsPerSecond, "0.5"))
	require.NoError(t, SetSetting(store, KeyTimeout, "45"))
	require.NoError(t, SetSetting(store, KeyRetryDelay, "2s"))
	require.NoError(t, SetSetting(store, KeyBCDDirectories, "api, css,,html"))
	require.NoError(t, SetSetting(store, KeyUserAgent, " specmap-test "))

	reopened, err := NewConfigStore(path)
	require.NoError(t, err)
	settings, err := LoadSettings(reopened, noEnv)
	require.NoError(t, err)

	assert.Equal(t, 5, settings.Fetch.MaxAttempts)
	assert.Equal(t, 0.5, settings.Fetch.RequestsPerSecond)
	assert.Equal(t, 45*time.Second, settings.Fetch.Timeout)
	assert.Equal(t, 2*time.Second, settings.Fetch.RetryDelay)
	assert.Equal(t, []string{"api", "css", "html"}, settings.Paths.BCDDirectories)
	assert.Equal(t, "specmap-test", settings.Fetch.UserAgent)
}

func TestSetSetting_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "fetch.colour", "red"},
		{"non-numeric int", KeyMaxAttempts, "many"},
		{"zero attempts", KeyMaxAttempts, "0"},
		{"negative rate", KeyRequestsPerSecond, "-1"},
		{"bad duration", KeyTimeout, "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewConfigStore(filepath.Join(t.TempDir(), "specmap.toml"))
			require.NoError(t, err)

			err = SetSetting(store, tt.key, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, found := store.Get(tt.key)
			assert.False(t, found)
		})
	}
}

func TestSettingKeys_Sorted(t *testing.T) {
	keys := SettingKeys()
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyMaxAttempts)
	assert.Len(t, keys, len(keyKinds))
}
