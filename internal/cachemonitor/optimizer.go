package cachemonitor

import (
	"time"

	"github.com/untoldecay/rhema/internal/cache"
)

// Action names one of the optimizer's remediation moves, per §4.H.
type Action string

const (
	ActionWarmCache               Action = "warm_cache"
	ActionAdjustEvictionPolicy    Action = "adjust_eviction_policy"
	ActionEnableCompression       Action = "enable_compression"
	ActionAdjustCompressionThresh Action = "adjust_compression_threshold"
	ActionCleanupExpired          Action = "cleanup_expired"
	ActionResizeCache             Action = "resize_cache"
	ActionRebalanceTiers          Action = "rebalance_tiers"
	ActionOptimizeIndexes         Action = "optimize_indexes"
)

// AppliedAction records one action the optimizer took.
type AppliedAction struct {
	Action            Action
	At                time.Time
	PerformanceImpact float64
	Detail            string
}

// OptimizerConfig gates how often and how aggressively the optimizer runs,
// per §4.H.
type OptimizerConfig struct {
	IntervalMinutes        int
	PerformanceThreshold   float64
	MaxOptimizationActions int
	StaleAfter             time.Duration
}

// Optimizer proposes and applies cache-tuning actions when the monitor
// reports degraded efficiency, per §4.H. Grounded on the teacher's
// doctor-with-fix split (cmd/bd/doctor/fix): a check surfaces a problem,
// a bounded, named fix resolves it.
type Optimizer struct {
	monitor *Monitor
	cache   *cache.Cache
	cfg     OptimizerConfig
	lastRun time.Time
	applied []AppliedAction
}

// NewOptimizer constructs an Optimizer over the given Monitor and the
// Cache it wraps.
func NewOptimizer(monitor *Monitor, c *cache.Cache, cfg OptimizerConfig) *Optimizer {
	if cfg.MaxOptimizationActions <= 0 {
		cfg.MaxOptimizationActions = 3
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 24 * time.Hour
	}
	return &Optimizer{monitor: monitor, cache: c, cfg: cfg}
}

// Run evaluates the current Metrics snapshot and applies up to
// MaxOptimizationActions remediations if efficiency is below
// PerformanceThreshold. Returns nil, nil if called before
// IntervalMinutes has elapsed since the previous run.
func (o *Optimizer) Run(now time.Time) ([]AppliedAction, error) {
	if !o.lastRun.IsZero() {
		if now.Sub(o.lastRun) < time.Duration(o.cfg.IntervalMinutes)*time.Minute {
			return nil, nil
		}
	}
	o.lastRun = now

	snap := o.monitor.Snapshot(now)
	if snap.Efficiency >= o.cfg.PerformanceThreshold {
		return nil, nil
	}

	candidates := o.propose(snap)
	if len(candidates) > o.cfg.MaxOptimizationActions {
		candidates = candidates[:o.cfg.MaxOptimizationActions]
	}

	var applied []AppliedAction
	for _, action := range candidates {
		impact, detail, err := o.apply(action, snap, now)
		if err != nil {
			return applied, err
		}
		a := AppliedAction{Action: action, At: now, PerformanceImpact: impact, Detail: detail}
		applied = append(applied, a)
		o.applied = append(o.applied, a)
	}
	return applied, nil
}

// propose orders candidate actions by which weak metric they address,
// most impactful first.
func (o *Optimizer) propose(snap Metrics) []Action {
	var actions []Action
	if snap.HitRate < o.monitor.thresholds.MinHitRate {
		actions = append(actions, ActionWarmCache)
	}
	if snap.EvictionRate > o.monitor.thresholds.MaxEvictionRate {
		actions = append(actions, ActionAdjustEvictionPolicy)
	}
	if snap.MemoryPct > o.monitor.thresholds.MaxMemoryPct {
		actions = append(actions, ActionResizeCache, ActionRebalanceTiers)
	}
	if snap.CompressionRatio == 0 {
		actions = append(actions, ActionEnableCompression)
	} else if snap.CompressionRatio < o.monitor.thresholds.MinCompressionRatio {
		actions = append(actions, ActionAdjustCompressionThreshold)
	}
	actions = append(actions, ActionCleanupExpired, ActionOptimizeIndexes)
	return actions
}

func (o *Optimizer) apply(action Action, snap Metrics, now time.Time) (float64, string, error) {
	switch action {
	case ActionWarmCache:
		n, err := o.cache.LoadCacheFromDisk()
		if err != nil {
			return 0, "", err
		}
		return float64(n) * 0.01, "warmed entries qualifying under the recency/relevance predicate", nil

	case ActionAdjustEvictionPolicy:
		if mem := o.cache.Memory(); mem != nil {
			mem.SetPolicy(cache.NewAdaptive())
		}
		return 0.05, "switched eviction policy to Adaptive", nil

	case ActionEnableCompression:
		if disk := o.cache.Disk(); disk != nil {
			disk.SetCompressionCodec(cache.CodecZstd)
		}
		return 0.02, "enabled zstd compression on the disk tier", nil

	case ActionAdjustCompressionThreshold:
		if disk := o.cache.Disk(); disk != nil {
			disk.SetCompressionThresholdKB(disk.Config().CompressionThresholdKB / 2)
		}
		return 0.01, "lowered the compression threshold", nil

	case ActionCleanupExpired:
		n, err := o.cache.CleanupExpired(o.cfg.StaleAfter, now)
		if err != nil {
			return 0, "", err
		}
		return float64(n) * 0.005, "removed stale entries", nil

	case ActionResizeCache:
		if mem := o.cache.Memory(); mem != nil {
			mem.Resize(mem.Config().MaxEntries * 2)
		}
		return 0.03, "doubled the memory tier's entry cap", nil

	case ActionRebalanceTiers:
		if err := o.cache.PersistCache(); err != nil {
			return 0, "", err
		}
		return 0.02, "persisted memory entries to disk to relieve pressure", nil

	case ActionOptimizeIndexes:
		if disk := o.cache.Disk(); disk != nil {
			if err := disk.OptimizeIndex(); err != nil {
				return 0, "", err
			}
		}
		return 0.01, "ran ANALYZE and VACUUM on the disk index", nil

	default:
		return 0, "", nil
	}
}

// AppliedActions returns every action applied since construction.
func (o *Optimizer) AppliedActions() []AppliedAction {
	out := make([]AppliedAction, len(o.applied))
	copy(out, o.applied)
	return out
}
