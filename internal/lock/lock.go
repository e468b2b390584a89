// Package lock implements component E: generating and validating
// rhema.lock, the repo-root artifact that pins each scope's version and
// content checksum. The stable-sorted-directory-walk checksum rule
// generalizes the teacher's lock-style integrity check used for issue
// database consistency, here applied to a scope's file tree instead of a
// single database file.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/untoldecay/rhema/internal/graph"
	"github.com/untoldecay/rhema/internal/types"
)

// FileName is the lock file's canonical name at the repo root.
const FileName = "rhema.lock"

// staleAfter is the age beyond which a lock is considered stale absent any
// filesystem change, per §3.
const staleAfter = 30 * 24 * time.Hour

// Lock mirrors the YAML structure defined in §3.
type Lock struct {
	GeneratedAt time.Time              `yaml:"generated_at"`
	Checksum    string                 `yaml:"checksum"`
	Scopes      map[string]LockedScope `yaml:"scopes"`
}

// LockedScope is one scope's pinned state.
type LockedScope struct {
	Version        string               `yaml:"version"`
	SourceChecksum string               `yaml:"source_checksum"`
	Dependencies   map[string]LockedDep `yaml:"dependencies,omitempty"`
}

// LockedDep is one dependency edge's pinned state.
type LockedDep struct {
	Version        string `yaml:"version"`
	DependencyType string `yaml:"dependency_type"`
	Checksum       string `yaml:"checksum"`
}

// IssueKind enumerates the §4.E validate() issue kinds, in report order.
type IssueKind string

const (
	ChecksumInvalid       IssueKind = "checksum_invalid"
	MissingScope          IssueKind = "missing_scope"
	UnlockedScope         IssueKind = "unlocked_scope"
	ScopeVersionMismatch  IssueKind = "scope_version_mismatch"
	DependencyChanged     IssueKind = "dependency_changed"
	LockedDepMissing      IssueKind = "locked_dep_missing"
	UnlockedDep           IssueKind = "unlocked_dep"
	ScopeChecksumMismatch IssueKind = "scope_checksum_mismatch"
	DepChecksumMismatch   IssueKind = "dep_checksum_mismatch"
	Stale                 IssueKind = "stale"
)

// Issue is a single validation finding. Scope names the scope it concerns
// and, for dependency-scoped kinds, Dep names the dependency path; both are
// empty for lock-wide kinds such as ChecksumInvalid and Stale.
type Issue struct {
	Kind   IssueKind
	Scope  string
	Dep    string
	Detail string
}

// Generate builds a fresh lock from scopes and graph, computing every
// checksum from the current on-disk state.
func Generate(repoRoot string, scopes []*types.Scope, g *graph.Graph) (*Lock, error) {
	l := &Lock{
		GeneratedAt: time.Now().UTC(),
		Scopes:      make(map[string]LockedScope),
	}
	for _, s := range scopes {
		srcSum, err := ChecksumDir(filepath.Join(repoRoot, s.Path))
		if err != nil {
			return nil, err
		}
		ls := LockedScope{
			Version:        s.Version,
			SourceChecksum: srcSum,
			Dependencies:   make(map[string]LockedDep),
		}
		for _, dep := range s.Dependencies {
			target := filepath.ToSlash(filepath.Clean(filepath.Join(s.Path, dep.Path)))
			depSum, err := ChecksumDir(filepath.Join(repoRoot, target))
			if err != nil {
				return nil, err
			}
			depScope := findScope(scopes, target)
			version := ""
			if depScope != nil {
				version = depScope.Version
			}
			ls.Dependencies[target] = LockedDep{
				Version:        version,
				DependencyType: dep.DependencyType,
				Checksum:       depSum,
			}
		}
		l.Scopes[s.Path] = ls
	}
	_ = g // graph is accepted per the interface; edges are re-derived from scopes directly above.

	sum, err := checksumLock(l)
	if err != nil {
		return nil, err
	}
	l.Checksum = sum
	return l, nil
}

func findScope(scopes []*types.Scope, path string) *types.Scope {
	for _, s := range scopes {
		if s.Path == path {
			return s
		}
	}
	return nil
}

// checksumLock hashes the canonical YAML serialization of l with Checksum
// cleared, matching §3's "checksum over the lock minus that field" rule.
func checksumLock(l *Lock) (string, error) {
	clone := *l
	clone.Checksum = ""
	data, err := yaml.Marshal(clone)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ChecksumDir computes SHA-256 over every non-hidden file beneath dir,
// visited in path-sorted order and fed to the hasher concatenated, per §3.
// A rhema.lock directly inside dir is skipped, so writing the lock does not
// change the checksum of a scope rooted at the repository root.
func ChecksumDir(dir string) (string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return relErr
		}
		if rel == "." || rel == FileName {
			return nil
		}
		for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
			if strings.HasPrefix(part, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 -- path derived from a sorted directory walk
		if err != nil {
			return "", err
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Write serializes l to {repoRoot}/rhema.lock.
func Write(repoRoot string, l *Lock) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(repoRoot, FileName), data, 0o644) // #nosec G306 -- lock file is not secret
}

// Read loads rhema.lock from repoRoot.
func Read(repoRoot string) (*Lock, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, FileName)) // #nosec G304 -- fixed well-known repo-root file
	if err != nil {
		return nil, err
	}
	l := &Lock{}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate compares lock against the current repository state, returning
// every issue found. It never mutates or auto-fixes; see §4.E.
func Validate(repoRoot string, l *Lock, scopes []*types.Scope) ([]Issue, error) {
	var issues []Issue

	wantSum, err := checksumLock(l)
	if err != nil {
		return nil, err
	}
	if wantSum != l.Checksum {
		issues = append(issues, Issue{Kind: ChecksumInvalid, Detail: "top-level checksum mismatch"})
	}

	onDisk := make(map[string]*types.Scope, len(scopes))
	for _, s := range scopes {
		onDisk[s.Path] = s
	}

	for _, path := range sortedLockKeys(l.Scopes) {
		locked := l.Scopes[path]
		s, ok := onDisk[path]
		if !ok {
			issues = append(issues, Issue{Kind: MissingScope, Scope: path})
			continue
		}
		if s.Version != locked.Version {
			issues = append(issues, Issue{Kind: ScopeVersionMismatch, Scope: path,
				Detail: s.Version + " != " + locked.Version})
		}
		sum, err := ChecksumDir(filepath.Join(repoRoot, path))
		if err != nil {
			return nil, err
		}
		if sum != locked.SourceChecksum {
			issues = append(issues, Issue{Kind: ScopeChecksumMismatch, Scope: path})
		}

		onDiskDeps := make(map[string]types.ScopeDependency)
		for _, dep := range s.Dependencies {
			target := filepath.ToSlash(filepath.Clean(filepath.Join(path, dep.Path)))
			onDiskDeps[target] = dep
		}
		for _, depPath := range sortedDepKeys(locked.Dependencies) {
			lockedDep := locked.Dependencies[depPath]
			dep, ok := onDiskDeps[depPath]
			if !ok {
				issues = append(issues, Issue{Kind: LockedDepMissing, Scope: path, Dep: depPath})
				continue
			}
			if dep.DependencyType != lockedDep.DependencyType {
				issues = append(issues, Issue{Kind: DependencyChanged, Scope: path, Dep: depPath})
			}
			depSum, err := ChecksumDir(filepath.Join(repoRoot, depPath))
			if err != nil {
				return nil, err
			}
			if depSum != lockedDep.Checksum {
				issues = append(issues, Issue{Kind: DepChecksumMismatch, Scope: path, Dep: depPath})
			}
		}
		for _, depPath := range sortedKeysDeps(onDiskDeps) {
			if _, ok := locked.Dependencies[depPath]; !ok {
				issues = append(issues, Issue{Kind: UnlockedDep, Scope: path, Dep: depPath})
			}
		}
	}

	for _, s := range scopes {
		if _, ok := l.Scopes[s.Path]; !ok {
			issues = append(issues, Issue{Kind: UnlockedScope, Scope: s.Path})
		}
	}

	if isStale(repoRoot, l, scopes) {
		issues = append(issues, Issue{Kind: Stale})
	}

	rank := map[IssueKind]int{
		ChecksumInvalid: 0, MissingScope: 1, UnlockedScope: 2, ScopeVersionMismatch: 3,
		DependencyChanged: 4, LockedDepMissing: 5, UnlockedDep: 6,
		ScopeChecksumMismatch: 7, DepChecksumMismatch: 8, Stale: 9,
	}
	sort.SliceStable(issues, func(i, j int) bool { return rank[issues[i].Kind] < rank[issues[j].Kind] })
	return issues, nil
}

func isStale(repoRoot string, l *Lock, scopes []*types.Scope) bool {
	if time.Since(l.GeneratedAt) > staleAfter {
		return true
	}
	lockInfo, err := os.Stat(filepath.Join(repoRoot, FileName))
	if err != nil {
		return false
	}
	for _, s := range scopes {
		info, err := os.Stat(filepath.Join(repoRoot, s.Path))
		if err != nil {
			continue
		}
		if info.ModTime().After(lockInfo.ModTime()) {
			return true
		}
	}
	return false
}

func sortedLockKeys(m map[string]LockedScope) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDepKeys(m map[string]LockedDep) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysDeps(m map[string]types.ScopeDependency) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
