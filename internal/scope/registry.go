// Package scope implements component C: discovery, loading, and
// nearest-scope resolution for the scope tree rooted at a repository. The
// downward tree walk used by Discover generalizes the teacher's upward walk
// in internal/config.Initialize() — there it climbs from the CWD looking
// for one config file; here it descends from the repo root collecting every
// directory that owns a scope descriptor.
package scope

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"
)

// Discover walks repoRoot collecting every scope whose .rhema/ directory
// contains a recognized descriptor. Symlinks are followed once; a real path
// already visited is never re-entered, preventing infinite loops from
// symlink cycles.
func Discover(repoRoot string) ([]*types.Scope, error) {
	var scopes []*types.Scope
	visited := make(map[string]bool)

	var walk func(dir string) error
	walk = func(dir string) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			real = dir
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		if store.HasDescriptor(dir) {
			s, err := store.ReadScopeDescriptor(dir)
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(repoRoot, dir)
			if err != nil {
				rel = dir
			}
			s.Path = filepath.ToSlash(rel)
			scopes = append(scopes, s)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			isDir := e.IsDir()
			if !isDir && e.Type()&os.ModeSymlink != 0 {
				if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil {
					isDir = info.IsDir()
				}
			}
			if !isDir {
				continue
			}
			name := e.Name()
			if name == types.RhemaDir || strings.HasPrefix(name, ".") {
				continue
			}
			if err := walk(filepath.Join(dir, name)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(repoRoot); err != nil {
		return nil, err
	}

	sort.Slice(scopes, func(i, j int) bool { return scopes[i].Path < scopes[j].Path })
	return scopes, nil
}

// Get normalizes scopePath (absolute or repo-relative) and loads its
// descriptor.
func Get(repoRoot, scopePath string) (*types.Scope, error) {
	dir := scopePath
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoRoot, dir)
	}
	if !store.HasDescriptor(dir) {
		return nil, &rhemaerr.ScopeNotFoundError{Path: scopePath}
	}
	s, err := store.ReadScopeDescriptor(dir)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(repoRoot, dir)
	if err != nil {
		rel = dir
	}
	s.Path = filepath.ToSlash(rel)
	return s, nil
}

// FindNearestScope selects the scope whose directory is the longest proper
// prefix of filePath, breaking ties lexicographically.
func FindNearestScope(filePath string, scopes []*types.Scope) *types.Scope {
	clean := filepath.ToSlash(filepath.Clean(filePath))
	var best *types.Scope
	for _, s := range scopes {
		prefix := filepath.ToSlash(filepath.Clean(s.Path))
		if !isPrefix(prefix, clean) {
			continue
		}
		if best == nil || len(prefix) > len(best.Path) ||
			(len(prefix) == len(best.Path) && prefix < best.Path) {
			best = s
		}
	}
	return best
}

func isPrefix(prefix, path string) bool {
	if prefix == "." {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Hierarchy derives parent/child relationships by directory containment: a
// scope B is a child of scope A if A's path strictly prefixes B's, and no
// other scope's path lies strictly between them.
func Hierarchy(scopes []*types.Scope) map[string][]*types.Scope {
	sorted := make([]*types.Scope, len(scopes))
	copy(sorted, scopes)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i].Path) < len(sorted[j].Path) })

	children := make(map[string][]*types.Scope)
	for _, child := range sorted {
		var parent *types.Scope
		for _, candidate := range sorted {
			if candidate.Path == child.Path {
				continue
			}
			if !isPrefix(candidate.Path, child.Path) {
				continue
			}
			if parent == nil || len(candidate.Path) > len(parent.Path) {
				parent = candidate
			}
		}
		if parent != nil {
			children[parent.Path] = append(children[parent.Path], child)
		}
	}
	return children
}
