package cachemonitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/cache"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{
		MemoryEnabled: true,
		DiskEnabled:   true,
		Memory:        cache.MemoryTierConfig{MaxSizeMB: 1, MaxEntries: 10, Policy: cache.LRU{}},
		Disk:          cache.DiskTierConfig{CacheDir: t.TempDir(), MaxSizeMB: 1},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMonitorTracksHitRate(t *testing.T) {
	c := newTestCache(t)
	m := NewMonitor(c, DefaultThresholds(), time.Hour)

	require.NoError(t, m.Set("k1", []byte("v"), nil))
	_, _, err := m.Get("k1")
	require.NoError(t, err)
	_, _, err = m.Get("missing")
	require.NoError(t, err)

	snap := m.Snapshot(time.Now().UTC())
	assert.InDelta(t, 0.5, snap.HitRate, 1e-9)
}

func TestSnapshotPrunesByRetention(t *testing.T) {
	c := newTestCache(t)
	m := NewMonitor(c, DefaultThresholds(), time.Millisecond)

	now := time.Now().UTC()
	m.Snapshot(now.Add(-time.Hour))
	m.Snapshot(now)

	history := m.History()
	require.Len(t, history, 1)
}

func TestCheckAlertsFlagsLowHitRate(t *testing.T) {
	c := newTestCache(t)
	m := NewMonitor(c, DefaultThresholds(), time.Hour)
	require.NoError(t, m.Set("k1", []byte("v"), nil))
	_, _, err := m.Get("missing")
	require.NoError(t, err)

	snap := m.Snapshot(time.Now().UTC())
	alerts := m.CheckAlerts(snap)

	found := false
	for _, a := range alerts {
		if a.Kind == AlertLowHitRate {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckAlertsCacheFullAtCapacity(t *testing.T) {
	snap := Metrics{MemoryPct: 1.0, Timestamp: time.Now().UTC()}
	m := NewMonitor(newTestCache(t), DefaultThresholds(), time.Hour)
	alerts := m.CheckAlerts(snap)

	found := false
	for _, a := range alerts {
		if a.Kind == AlertCacheFull && a.Severity == SeverityCritical {
			found = true
		}
	}
	assert.True(t, found)
}
