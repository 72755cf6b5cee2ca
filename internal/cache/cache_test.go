package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Minute)
	require.NoError(t, err)

	key := "https://pypi.org/pypi/requests/json"
	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Set(key, []byte(`{"info":{"version":"2.31.0"}}`)))

	data, ok := c.Get(key)
	require.True(t, ok)
	assert.JSONEq(t, `{"info":{"version":"2.31.0"}}`, string(data))
}

func TestCache_Expired(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Minute)
	require.NoError(t, err)

	key := "https://pypi.org/pypi/flask/json"
	require.NoError(t, c.Set(key, []byte("{}")))

	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(c.Path(key), old, old))

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestCache_DefaultTTL(t *testing.T) {
	c, err := NewAt(filepath.Join(t.TempDir(), "nested", "dir"), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL)
	assert.DirExists(t, c.Dir)
}

func TestCache_PathIsStable(t *testing.T) {
	c := &Cache{Dir: "/tmp/x"}
	assert.Equal(t, c.Path("a"), c.Path("a"))
	assert.NotEqual(t, c.Path("a"), c.Path("b"))
	assert.Equal(t, ".json", filepath.Ext(c.Path("a")))
}

func TestCache_Clear(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir, ".tmp-123"), []byte("partial"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir, "notes.txt"), []byte("keep"), 0o644))
	require.NoError(t, c.Clear())

	entries, err := os.ReadDir(c.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_ClearMissingDir(t *testing.T) {
	c := &Cache{Dir: filepath.Join(t.TempDir(), "gone"), TTL: time.Minute}
	assert.NoError(t, c.Clear())
}

func TestDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/var/cache/test")
	dir, err := Dir("version-checker")
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/test/version-checker", dir)
}
