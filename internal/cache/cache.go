package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
)

// Config bundles both tiers' settings plus which tiers are enabled.
type Config struct {
	MemoryEnabled bool
	DiskEnabled   bool
	Memory        MemoryTierConfig
	Disk          DiskTierConfig
}

// Cache is the unified facade over the memory and disk tiers (§4.G).
type Cache struct {
	cfg    Config
	memory *MemoryTier
	disk   *DiskTier
}

// New constructs a Cache from cfg, opening the disk tier's index if
// enabled.
func New(cfg Config) (*Cache, error) {
	c := &Cache{cfg: cfg}
	if cfg.MemoryEnabled {
		c.memory = NewMemoryTier(cfg.Memory)
	}
	if cfg.DiskEnabled {
		disk, err := NewDiskTier(cfg.Disk)
		if err != nil {
			return nil, err
		}
		c.disk = disk
	}
	return c, nil
}

// Close releases any open disk resources.
func (c *Cache) Close() error {
	if c.disk != nil {
		return c.disk.Close()
	}
	return nil
}

// Memory exposes the memory tier for the cache monitor (component H).
// Nil when the memory tier is disabled.
func (c *Cache) Memory() *MemoryTier { return c.memory }

// Disk exposes the disk tier for the cache monitor (component H). Nil
// when the disk tier is disabled.
func (c *Cache) Disk() *DiskTier { return c.disk }

// CleanupExpired removes every entry, in both tiers, last accessed before
// now.Add(-maxAge). Used by the optimizer's CleanupExpired action.
func (c *Cache) CleanupExpired(maxAge time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-maxAge)
	removed := 0
	if c.memory != nil {
		removed += c.memory.DeleteOlderThan(cutoff)
	}
	if c.disk != nil {
		stale, err := c.disk.StaleKeys(cutoff)
		if err != nil {
			return removed, err
		}
		for _, key := range stale {
			if err := c.disk.Delete(key); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// Get probes memory first, falling back to disk on miss. A disk hit that
// satisfies the warming predicate (§4.G.4) is copied into memory.
func (c *Cache) Get(key string) (Entry, bool, error) {
	if c.memory != nil {
		if e, ok := c.memory.Get(key); ok {
			return e, true, nil
		}
	}
	if c.disk == nil {
		return Entry{}, false, nil
	}
	e, ok, err := c.disk.Get(key)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	if c.memory != nil && qualifiesForWarming(e, time.Now().UTC()) {
		_ = c.memory.Set(e)
	}
	return e, true, nil
}

// Set writes value under key to every enabled tier.
func (c *Cache) Set(key string, value []byte, tags []string) error {
	now := time.Now().UTC()
	e := Entry{
		Key:        key,
		Value:      value,
		CreatedAt:  now,
		AccessedAt: now,
		Tags:       tags,
		SizeBytes:  int64(len(value)),
	}
	if c.memory != nil {
		if err := c.memory.Set(e); err != nil {
			var tooLarge *rhemaerr.ObjectTooLargeError
			if !errors.As(err, &tooLarge) {
				return err
			}
			// Too large for memory: disk-only admission is still valid.
		}
	}
	if c.disk != nil {
		if err := c.disk.Set(e); err != nil {
			return err
		}
	}
	if c.memory == nil && c.disk == nil {
		return &rhemaerr.CacheFullError{Reason: "no tier enabled"}
	}
	return nil
}

// Delete removes key from every enabled tier.
func (c *Cache) Delete(key string) error {
	if c.memory != nil {
		c.memory.Delete(key)
	}
	if c.disk != nil {
		return c.disk.Delete(key)
	}
	return nil
}

// SearchSemantic delegates to the memory tier's tag index, per §4.G.1.
func (c *Cache) SearchSemantic(tags []string, limit int) []SemanticResult {
	if c.memory == nil {
		return nil
	}
	return c.memory.SearchSemantic(tags, limit)
}

// PersistCache compresses and writes every memory entry to the disk tier,
// per §4.G.5.
func (c *Cache) PersistCache() error {
	if c.memory == nil || c.disk == nil {
		return nil
	}
	for _, e := range c.memory.Entries() {
		if err := c.disk.Set(e); err != nil {
			return err
		}
	}
	return nil
}

// LoadCacheFromDisk pulls every disk entry matching the warming predicate
// into memory, per §4.G.5.
func (c *Cache) LoadCacheFromDisk() (int, error) {
	if c.memory == nil || c.disk == nil {
		return 0, nil
	}
	keys, err := c.disk.Keys()
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	warmed := 0
	for _, key := range keys {
		e, ok, err := c.disk.Get(key)
		if err != nil {
			return warmed, err
		}
		if !ok || !qualifiesForWarming(e, now) {
			continue
		}
		if err := c.memory.Set(e); err != nil {
			continue
		}
		warmed++
	}
	return warmed, nil
}

// State is the observability snapshot persisted by SaveCacheState, per
// §4.G.5.
type State struct {
	SavedAt     time.Time `json:"saved_at"`
	MemoryCount int       `json:"memory_count"`
	DiskCount   int       `json:"disk_count"`
}

// SaveCacheState writes cache_state.json under the disk tier's cache_dir.
func (c *Cache) SaveCacheState() error {
	if c.disk == nil {
		return nil
	}
	st := State{SavedAt: time.Now().UTC()}
	if c.memory != nil {
		st.MemoryCount = c.memory.Len()
	}
	keys, err := c.disk.Keys()
	if err != nil {
		return err
	}
	st.DiskCount = len(keys)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(c.disk.cfg.CacheDir, "cache_state.json")
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- observability file, not secret
}

// LoadCacheState reads cache_state.json back, for diagnostics.
func (c *Cache) LoadCacheState() (*State, error) {
	if c.disk == nil {
		return nil, fmt.Errorf("disk tier not enabled")
	}
	path := filepath.Join(c.disk.cfg.CacheDir, "cache_state.json")
	data, err := os.ReadFile(path) // #nosec G304 -- fixed filename under the cache directory
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
