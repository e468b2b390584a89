package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(Config{
		MemoryEnabled: true,
		DiskEnabled:   true,
		Memory: MemoryTierConfig{
			MaxSizeMB:  1,
			MaxEntries: 10,
			Policy:     LRU{},
		},
		Disk: DiskTierConfig{
			CacheDir:               t.TempDir(),
			CompressionCodec:       CodecGzip,
			CompressionThresholdKB: 0,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k1", []byte("hello world"), []string{"greeting"}))

	e, ok, err := c.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello world"), e.Value)
}

func TestGetFallsBackToDiskAndWarmsMemory(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k1", []byte("hello"), nil))

	for i := 0; i < 6; i++ {
		_, _, err := c.disk.Get("k1")
		require.NoError(t, err)
	}
	c.memory.Delete("k1")

	e, ok, err := c.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), e.Value)

	_, inMemory := c.memory.Get("k1")
	assert.True(t, inMemory, "a disk hit with access_count > 5 must warm memory")
}

func TestDeleteRemovesFromBothTiers(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k1", []byte("data"), nil))
	require.NoError(t, c.Delete("k1"))

	_, ok, err := c.Get("k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObjectTooLargeRejectedByMemoryButAdmittedToDisk(t *testing.T) {
	c := newTestCache(t)
	big := make([]byte, 2*1024*1024) // 2MB > 1MB memory cap
	require.NoError(t, c.Set("big", big, nil))

	_, inMemory := c.memory.Get("big")
	assert.False(t, inMemory)

	e, ok, err := c.disk.Get("big")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, e.Value, len(big))
}

func TestSearchSemanticSortsByRelevanceDesc(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.memory.Set(Entry{Key: "a", Tags: []string{"x"}, SemanticRelevance: 0.2}))
	require.NoError(t, c.memory.Set(Entry{Key: "b", Tags: []string{"x"}, SemanticRelevance: 0.9}))

	results := c.SearchSemantic([]string{"x"}, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Key)
}

func TestPersistAndLoadCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.memory.Set(Entry{Key: "a", Value: []byte("v"), AccessCount: 6}))
	require.NoError(t, c.PersistCache())

	c2 := newTestCacheSameDisk(t, c.disk.cfg.CacheDir)
	warmed, err := c2.LoadCacheFromDisk()
	require.NoError(t, err)
	assert.Equal(t, 1, warmed)
}

func newTestCacheSameDisk(t *testing.T, dir string) *Cache {
	t.Helper()
	c, err := New(Config{
		MemoryEnabled: true,
		DiskEnabled:   true,
		Memory:        MemoryTierConfig{MaxSizeMB: 1, MaxEntries: 10, Policy: LRU{}},
		Disk:          DiskTierConfig{CacheDir: dir},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSaveAndLoadCacheState(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k1", []byte("v"), nil))
	require.NoError(t, c.SaveCacheState())

	st, err := c.LoadCacheState()
	require.NoError(t, err)
	assert.Equal(t, 1, st.DiskCount)
}
