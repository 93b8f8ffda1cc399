package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{"gateway.mode": "live"}
	store := NewConfigStore(seed)

	seed["gateway.mode"] = "simulated"
	assert.Equal(t, "live", store.GetString("gateway.mode"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(nil)
	require.NoError(t, store.Set("s", "value"))
	require.NoError(t, store.Set("i", int64(7)))
	require.NoError(t, store.Set("list", []any{"repo", 1, "read:user"}))

	assert.Equal(t, "value", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	val, ok := store.Get("i")
	assert.True(t, ok)
	assert.Equal(t, int64(7), val)
	_, ok = store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"repo", "read:user"}, store.GetStringSlice("list"))
	assert.Nil(t, store.GetStringSlice("s"))
}

func TestConfigStore_NoPersistence(t *testing.T) {
	store := NewConfigStore(nil)

	assert.Equal(t, ":memory:", store.Path())
}
