package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.NoFileExists(t, store.Path(), "nothing is written until a value is set")
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_ReadsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[server]
base_url = "https://revlink.example.com"

[gateway]
mode = "live"

[providers.github]
client_id = "gh-app"
scopes = ["repo", "read:user"]

[limits]
burst = 5
verbose = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://revlink.example.com", store.GetString("server.base_url"))
	assert.Equal(t, "live", store.GetString("gateway.mode"))
	assert.Equal(t, "gh-app", store.GetString("providers.github.client_id"))
	assert.Equal(t, []string{"repo", "read:user"}, store.GetStringSlice("providers.github.scopes"))
	burst, ok := store.Get("limits.burst")
	assert.True(t, ok)
	assert.Equal(t, int64(5), burst)

	// Wrong types and missing keys read as zero values.
	assert.Equal(t, "", store.GetString("limits.burst"))
	_, ok = store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, store.GetStringSlice("gateway.mode"))
}

func TestConfigStore_SetPersistsNested(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("providers.jira.client_id", "jira-app"))
	require.NoError(t, store.Set("gateway.mode", "simulated"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[providers.jira]")
	assert.Contains(t, string(raw), "[gateway]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "jira-app", reopened.GetString("providers.jira.client_id"))
	assert.Equal(t, "simulated", reopened.GetString("gateway.mode"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("providers.github.client_secret", "s3cret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause a write error.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
	assert.Error(t, store.Save())
}

func TestConfigStore_Load_InvalidTOMLKeepsPrevious(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("gateway.mode", "live"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
	assert.Equal(t, "live", store.GetString("gateway.mode"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("server.base_url", "http://localhost")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("server.base_url")
		}()
	}
	wg.Wait()

	assert.Equal(t, "http://localhost", store.GetString("server.base_url"))
}

func TestNestKeys(t *testing.T) {
	nested := nestKeys(map[string]any{
		"a":     "value",
		"a.b":   "shadowed",
		"x.y.z": 1,
		"x.w":   true,
	})

	assert.Equal(t, map[string]any{
		"a": "value",
		"x": map[string]any{
			"w": true,
			"y": map[string]any{"z": 1},
		},
	}, nested)
}

func TestConfigStore_Watch(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	other, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, other.Set("gateway.mode", "live"))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not report the change")
	}
	assert.Eventually(t, func() bool {
		return store.GetString("gateway.mode") == "live"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
