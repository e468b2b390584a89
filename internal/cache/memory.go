package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
)

// MemoryTierConfig bounds the memory tier, per §4.G.1.
type MemoryTierConfig struct {
	MaxSizeMB  float64
	MaxEntries int
	Policy     Policy
}

// MemoryTier is a bounded, shard-free in-process entry store. (The
// teacher's sharded-map concurrency pattern is preserved at the facade
// level via a single RWMutex here; Rhema's cache traffic is per-repo CLI
// invocations, not the high-concurrency server load that motivates the
// teacher's finer-grained sharding.)
type MemoryTier struct {
	mu        sync.RWMutex
	cfg       MemoryTierConfig
	entries   map[string]Entry
	tagIdx    map[string]map[string]struct{} // tag -> set of keys
	evictions int64
}

// NewMemoryTier constructs an empty memory tier.
func NewMemoryTier(cfg MemoryTierConfig) *MemoryTier {
	if cfg.Policy == nil {
		cfg.Policy = LRU{}
	}
	return &MemoryTier{
		cfg:     cfg,
		entries: make(map[string]Entry),
		tagIdx:  make(map[string]map[string]struct{}),
	}
}

// Get returns the entry for key, bumping its access stats on hit.
func (m *MemoryTier) Get(key string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Entry{}, false
	}
	e.AccessedAt = time.Now().UTC()
	e.AccessCount++
	m.entries[key] = e
	return e, true
}

// Set admits e, evicting via the configured policy first if needed.
func (m *MemoryTier) Set(e Entry) error {
	sizeMB := float64(e.SizeBytes) / (1024 * 1024)
	if m.cfg.MaxSizeMB > 0 && sizeMB > m.cfg.MaxSizeMB {
		return &rhemaerr.ObjectTooLargeError{Key: e.Key, SizeMB: sizeMB, LimitMB: m.cfg.MaxSizeMB}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[e.Key]; !exists && m.cfg.MaxEntries > 0 && len(m.entries) >= m.cfg.MaxEntries {
		m.evictLocked()
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.AccessedAt.IsZero() {
		e.AccessedAt = e.CreatedAt
	}
	m.entries[e.Key] = e
	m.indexTagsLocked(e)
	return nil
}

func (m *MemoryTier) evictLocked() {
	all := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	victims := m.cfg.Policy.SelectForEviction(all)
	for _, key := range victims {
		m.deleteLocked(key)
	}
	m.evictions += int64(len(victims))
}

// Delete removes key from the memory tier.
func (m *MemoryTier) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(key)
}

func (m *MemoryTier) deleteLocked(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range e.Tags {
		if set, ok := m.tagIdx[tag]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(m.tagIdx, tag)
			}
		}
	}
}

func (m *MemoryTier) indexTagsLocked(e Entry) {
	for _, tag := range e.Tags {
		set, ok := m.tagIdx[tag]
		if !ok {
			set = make(map[string]struct{})
			m.tagIdx[tag] = set
		}
		set[e.Key] = struct{}{}
	}
}

// SemanticResult is one search_semantic match.
type SemanticResult struct {
	Key               string
	SemanticRelevance float64
}

// SearchSemantic returns entries tagged with any of tags, sorted by
// semantic_relevance desc, capped at limit, per §4.G.1's optional inverted
// index.
func (m *MemoryTier) SearchSemantic(tags []string, limit int) []SemanticResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var results []SemanticResult
	for _, tag := range tags {
		for key := range m.tagIdx[tag] {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			results = append(results, SemanticResult{Key: key, SemanticRelevance: m.entries[key].SemanticRelevance})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].SemanticRelevance > results[j].SemanticRelevance })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Len returns the current entry count, used by the monitor (component H)
// to compute memory%.
func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Entries returns a snapshot of every entry currently held, used by the
// validator (component H) and by persistence (§4.G.5).
func (m *MemoryTier) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out
}

// Evictions returns the cumulative number of entries evicted since
// construction, the numerator of the monitor's eviction_rate metric.
func (m *MemoryTier) Evictions() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evictions
}

// UsedBytes sums every entry's recorded size, the numerator of memory%.
func (m *MemoryTier) UsedBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, e := range m.entries {
		total += e.SizeBytes
	}
	return total
}

// Config returns the tier's current configuration.
func (m *MemoryTier) Config() MemoryTierConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// SetPolicy swaps the active eviction policy, used by the optimizer's
// AdjustEvictionPolicy action.
func (m *MemoryTier) SetPolicy(p Policy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Policy = p
}

// Resize changes the entry-count cap, used by the optimizer's ResizeCache
// action. Evicts immediately if the new cap is already exceeded.
func (m *MemoryTier) Resize(maxEntries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.MaxEntries = maxEntries
	for maxEntries > 0 && len(m.entries) > maxEntries {
		m.evictLocked()
	}
}

// DeleteOlderThan removes every entry last accessed before cutoff, used by
// the optimizer's CleanupExpired action. Returns the number removed.
func (m *MemoryTier) DeleteOlderThan(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []string
	for key, e := range m.entries {
		if e.AccessedAt.Before(cutoff) {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		m.deleteLocked(key)
	}
	return len(stale)
}
