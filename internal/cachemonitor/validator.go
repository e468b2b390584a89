package cachemonitor

import (
	"fmt"
	"math"

	"github.com/untoldecay/rhema/internal/cache"
)

// CheckKind names one of the validator's periodic checks, per §4.H.
type CheckKind string

const (
	CheckChecksum    CheckKind = "checksum"
	CheckSemantic    CheckKind = "semantic"
	CheckConsistency CheckKind = "consistency"
)

// RepairAction names the auto_repair behavior applied to a failed check,
// per §4.H.
type RepairAction string

const (
	RepairDelete      RepairAction = "delete"
	RepairRegenerate  RepairAction = "regenerate"
	RepairSynchronize RepairAction = "synchronize"
)

// maxTags and embedding bounds, per §4.H's semantic check.
const (
	maxTags            = 50
	minTaggedSizeBytes = 100
	maxEmbeddingDim    = 10_000
	minMeanMagnitude   = 0.001
	maxMeanMagnitude   = 1000.0
)

// Issue is one check failure, optionally already repaired.
type Issue struct {
	Check    CheckKind
	Key      string
	Message  string
	Repaired bool
	Repair   RepairAction
}

// ValidatorConfig controls whether failures are auto-repaired.
type ValidatorConfig struct {
	AutoRepair bool
}

// Validator runs the periodic Checksum/Semantic/Consistency checks over a
// Cache's entries, per §4.H.
type Validator struct {
	c   *cache.Cache
	cfg ValidatorConfig
}

// NewValidator constructs a Validator over c.
func NewValidator(c *cache.Cache, cfg ValidatorConfig) *Validator {
	return &Validator{c: c, cfg: cfg}
}

// CheckChecksum recomputes each disk entry's decoded size against the
// size recorded at write time; a mismatch means the file was corrupted or
// truncated out of band. With auto_repair the offending entry is deleted.
func (v *Validator) CheckChecksum() ([]Issue, error) {
	disk := v.c.Disk()
	if disk == nil {
		return nil, nil
	}
	keys, err := disk.Keys()
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, key := range keys {
		e, ok, err := disk.Get(key)
		if err != nil {
			issue := Issue{Check: CheckChecksum, Key: key, Message: fmt.Sprintf("decode failed: %v", err)}
			if v.cfg.AutoRepair {
				if derr := v.c.Delete(key); derr == nil {
					issue.Repaired = true
					issue.Repair = RepairDelete
				}
			}
			issues = append(issues, issue)
			continue
		}
		if !ok {
			continue
		}
		if e.SizeBytes > 0 && int64(len(e.Value)) != e.SizeBytes {
			issue := Issue{
				Check:   CheckChecksum,
				Key:     key,
				Message: fmt.Sprintf("decoded size %d does not match recorded size %d", len(e.Value), e.SizeBytes),
			}
			if v.cfg.AutoRepair {
				if derr := v.c.Delete(key); derr == nil {
					issue.Repaired = true
					issue.Repair = RepairDelete
				}
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// CheckSemantic validates each memory entry's tags and, when present, its
// embedding, per §4.H. With auto_repair, tags are truncated to maxTags
// and an out-of-bounds embedding is cleared ("regenerated" to an empty,
// valid state — a fresh embedding is out of this package's scope to
// compute).
func (v *Validator) CheckSemantic() []Issue {
	mem := v.c.Memory()
	if mem == nil {
		return nil
	}

	var issues []Issue
	for _, e := range mem.Entries() {
		var reasons []string
		if int64(len(e.Value)) > minTaggedSizeBytes && len(e.Tags) == 0 {
			reasons = append(reasons, "content over 100 bytes has no tags")
		}
		if len(e.Tags) > maxTags {
			reasons = append(reasons, fmt.Sprintf("%d tags exceeds the %d-tag limit", len(e.Tags), maxTags))
		}
		if len(e.Embedding) > 0 {
			if len(e.Embedding) > maxEmbeddingDim {
				reasons = append(reasons, fmt.Sprintf("embedding dimension %d exceeds %d", len(e.Embedding), maxEmbeddingDim))
			}
			if mag := meanMagnitude(e.Embedding); mag <= minMeanMagnitude || mag >= maxMeanMagnitude {
				reasons = append(reasons, fmt.Sprintf("embedding mean magnitude %.6f out of (%.3f, %.0f)", mag, minMeanMagnitude, maxMeanMagnitude))
			}
		}
		if len(reasons) == 0 {
			continue
		}

		issue := Issue{Check: CheckSemantic, Key: e.Key, Message: joinReasons(reasons)}
		if v.cfg.AutoRepair {
			repaired := e
			if len(repaired.Tags) > maxTags {
				repaired.Tags = repaired.Tags[:maxTags]
			}
			if len(repaired.Embedding) > 0 {
				mag := meanMagnitude(repaired.Embedding)
				if len(repaired.Embedding) > maxEmbeddingDim || mag <= minMeanMagnitude || mag >= maxMeanMagnitude {
					repaired.Embedding = nil
				}
			}
			if err := mem.Set(repaired); err == nil {
				issue.Repaired = true
				issue.Repair = RepairRegenerate
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

// CheckConsistency compares, for every key present in both tiers, the
// metadata fields that must agree. With auto_repair the memory copy (the
// presumptively fresher one) is written back to disk.
func (v *Validator) CheckConsistency() ([]Issue, error) {
	mem := v.c.Memory()
	disk := v.c.Disk()
	if mem == nil || disk == nil {
		return nil, nil
	}

	var issues []Issue
	for _, e := range mem.Entries() {
		de, ok, err := disk.Get(e.Key)
		if err != nil {
			return issues, err
		}
		if !ok {
			continue
		}
		if de.AccessCount != e.AccessCount || de.SemanticRelevance != e.SemanticRelevance || !tagsEqual(de.Tags, e.Tags) {
			issue := Issue{
				Check:   CheckConsistency,
				Key:     e.Key,
				Message: "memory and disk metadata disagree",
			}
			if v.cfg.AutoRepair {
				if err := disk.Set(e); err == nil {
					issue.Repaired = true
					issue.Repair = RepairSynchronize
				}
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

func meanMagnitude(vec []float64) float64 {
	if len(vec) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vec {
		sum += math.Abs(v)
	}
	return sum / float64(len(vec))
}

func tagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, t := range a {
		seen[t]++
	}
	for _, t := range b {
		seen[t]--
	}
	for _, count := range seen {
		if count != 0 {
			return false
		}
	}
	return true
}

func joinReasons(reasons []string) string {
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}
