// Package cachemonitor implements component H: the cache monitor,
// optimizer, and validator that sit on top of the unified cache
// (internal/cache). None of the retrieved example repos instrument a
// cache directly, so this package generalizes the teacher's "doctor"
// pattern (cmd/bd/doctor: named checks with a status and an optional
// automated fix) from a one-shot repository health report to a
// continuously sampled metrics/alerts/optimization loop over the cache.
package cachemonitor

import (
	"sync"
	"time"

	"github.com/untoldecay/rhema/internal/cache"
)

// Metrics is one snapshot of cache health, per §4.H.
type Metrics struct {
	Timestamp        time.Time
	HitRate          float64
	MeanResponseMS   float64
	MemoryPct        float64
	DiskPct          float64
	EvictionRate     float64
	CompressionRatio float64
	Efficiency       float64
}

// Severity classifies an Alert, per §4.H.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// AlertKind names which threshold an Alert crossed, per §4.H.
type AlertKind string

const (
	AlertLowHitRate             AlertKind = "low_hit_rate"
	AlertHighMemory             AlertKind = "high_memory"
	AlertHighDisk               AlertKind = "high_disk"
	AlertHighEviction           AlertKind = "high_eviction"
	AlertSlowResponse           AlertKind = "slow_response"
	AlertCacheFull              AlertKind = "cache_full"
	AlertCompressionIneffective AlertKind = "compression_ineffective"
)

// Alert is one threshold crossing observed in a Metrics snapshot.
type Alert struct {
	Kind     AlertKind
	Severity Severity
	Message  string
	Value    float64
	At       time.Time
}

// Thresholds gates when Snapshot-derived metrics produce an Alert.
type Thresholds struct {
	MinHitRate          float64
	MaxMemoryPct        float64
	MaxDiskPct          float64
	MaxEvictionRate     float64
	MaxResponseMS       float64
	MinCompressionRatio float64
}

// DefaultThresholds returns conservative defaults suitable for a
// repository-local cache.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinHitRate:          0.5,
		MaxMemoryPct:        0.9,
		MaxDiskPct:          0.9,
		MaxEvictionRate:     0.3,
		MaxResponseMS:       50,
		MinCompressionRatio: 0.0,
	}
}

// Monitor wraps a cache.Cache, recording every Get/Set it mediates and
// exposing a rolling Metrics history, per §4.H.
type Monitor struct {
	mu         sync.Mutex
	c          *cache.Cache
	thresholds Thresholds
	retention  time.Duration

	hits, misses     int64
	responseTotalNS  int64
	responseSamples  int64
	lastMemEvictions int64
	history          []Metrics
}

// NewMonitor constructs a Monitor over c. retention bounds how long
// Snapshot entries are kept in History.
func NewMonitor(c *cache.Cache, thresholds Thresholds, retention time.Duration) *Monitor {
	return &Monitor{c: c, thresholds: thresholds, retention: retention}
}

// Get mediates c.Get, recording a hit/miss and response latency sample.
func (m *Monitor) Get(key string) (cache.Entry, bool, error) {
	start := time.Now()
	e, ok, err := m.c.Get(key)
	elapsed := time.Since(start)

	m.mu.Lock()
	m.responseTotalNS += elapsed.Nanoseconds()
	m.responseSamples++
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()
	return e, ok, err
}

// Set mediates c.Set, recording response latency.
func (m *Monitor) Set(key string, value []byte, tags []string) error {
	start := time.Now()
	err := m.c.Set(key, value, tags)
	elapsed := time.Since(start)

	m.mu.Lock()
	m.responseTotalNS += elapsed.Nanoseconds()
	m.responseSamples++
	m.mu.Unlock()
	return err
}

// Snapshot computes the current Metrics, appends it to History (pruning
// entries older than retention), and returns it.
func (m *Monitor) Snapshot(now time.Time) Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Metrics{Timestamp: now}

	total := m.hits + m.misses
	if total > 0 {
		snap.HitRate = float64(m.hits) / float64(total)
	}
	if m.responseSamples > 0 {
		snap.MeanResponseMS = float64(m.responseTotalNS) / float64(m.responseSamples) / 1e6
	}

	var evictions int64
	if mem := m.c.Memory(); mem != nil {
		cfg := mem.Config()
		if cfg.MaxEntries > 0 {
			snap.MemoryPct = float64(mem.Len()) / float64(cfg.MaxEntries)
		}
		evictions = mem.Evictions()
		newEvictions := evictions - m.lastMemEvictions
		m.lastMemEvictions = evictions
		if total > 0 {
			snap.EvictionRate = float64(newEvictions) / float64(total)
		}
	}

	if disk := m.c.Disk(); disk != nil {
		cfg := disk.Config()
		if used, err := disk.UsedBytes(); err == nil && cfg.MaxSizeMB > 0 {
			snap.DiskPct = float64(used) / (cfg.MaxSizeMB * 1024 * 1024)
		}
	}

	snap.CompressionRatio = m.meanCompressionRatio()
	snap.Efficiency = efficiency(snap)

	m.history = append(m.history, snap)
	cutoff := now.Add(-m.retention)
	pruned := m.history[:0]
	for _, h := range m.history {
		if m.retention <= 0 || h.Timestamp.After(cutoff) {
			pruned = append(pruned, h)
		}
	}
	m.history = pruned

	return snap
}

func (m *Monitor) meanCompressionRatio() float64 {
	mem := m.c.Memory()
	if mem == nil {
		return 0
	}
	var sum float64
	var n int
	for _, e := range mem.Entries() {
		if e.CompressionRatio > 0 {
			sum += e.CompressionRatio
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// efficiency combines the tracked metrics into a single [0,1]-ish score
// the optimizer gates on. No example repo in the retrieved pack computes
// an analogous composite, so the weighting (hit rate dominant, eviction
// and memory pressure penalized) is a from-scratch decision recorded in
// DESIGN.md rather than a ported formula.
func efficiency(m Metrics) float64 {
	score := 0.6*m.HitRate + 0.2*(1-clamp01(m.MemoryPct)) + 0.2*(1-clamp01(m.EvictionRate))
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// History returns every retained Metrics snapshot, oldest first.
func (m *Monitor) History() []Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Metrics, len(m.history))
	copy(out, m.history)
	return out
}

// CheckAlerts compares snap against thresholds, returning every crossing
// found, per §4.H.
func (m *Monitor) CheckAlerts(snap Metrics) []Alert {
	var alerts []Alert
	t := m.thresholds

	if snap.HitRate < t.MinHitRate {
		alerts = append(alerts, Alert{Kind: AlertLowHitRate, Severity: SeverityWarning, Value: snap.HitRate, At: snap.Timestamp,
			Message: "cache hit rate below threshold"})
	}
	if snap.MemoryPct >= 1.0 {
		alerts = append(alerts, Alert{Kind: AlertCacheFull, Severity: SeverityCritical, Value: snap.MemoryPct, At: snap.Timestamp,
			Message: "memory tier at capacity"})
	} else if snap.MemoryPct > t.MaxMemoryPct {
		alerts = append(alerts, Alert{Kind: AlertHighMemory, Severity: SeverityWarning, Value: snap.MemoryPct, At: snap.Timestamp,
			Message: "memory tier usage above threshold"})
	}
	if snap.DiskPct > t.MaxDiskPct {
		alerts = append(alerts, Alert{Kind: AlertHighDisk, Severity: SeverityWarning, Value: snap.DiskPct, At: snap.Timestamp,
			Message: "disk tier usage above threshold"})
	}
	if snap.EvictionRate > t.MaxEvictionRate {
		alerts = append(alerts, Alert{Kind: AlertHighEviction, Severity: SeverityError, Value: snap.EvictionRate, At: snap.Timestamp,
			Message: "eviction rate above threshold"})
	}
	if snap.MeanResponseMS > t.MaxResponseMS {
		alerts = append(alerts, Alert{Kind: AlertSlowResponse, Severity: SeverityWarning, Value: snap.MeanResponseMS, At: snap.Timestamp,
			Message: "mean response time above threshold"})
	}
	if snap.CompressionRatio > 0 && snap.CompressionRatio < t.MinCompressionRatio {
		alerts = append(alerts, Alert{Kind: AlertCompressionIneffective, Severity: SeverityInfo, Value: snap.CompressionRatio, At: snap.Timestamp,
			Message: "compression yielding little size reduction"})
	}
	return alerts
}
