// Package graph implements component D: the dependency graph over a set of
// discovered scopes. It generalizes the teacher's cycle-detection DFS
// (internal/validation's dependency checks for blocked-issue chains) from a
// single-edge-kind issue graph to a scope graph with typed edges, depth, and
// impact classification.
package graph

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

// Graph is an adjacency map from a scope's repo-relative path to the
// repo-relative paths of the scopes it declares as dependencies.
type Graph struct {
	Edges map[string][]string
	byKey map[string]*types.Scope
}

// Build resolves every scope's declared dependencies[] against dir(scope),
// joining relative paths before canonicalizing to a repo-relative key. A
// dependency that names a scope absent from scopes is a fatal ScopeNotFound.
func Build(scopes []*types.Scope) (*Graph, error) {
	g := &Graph{
		Edges: make(map[string][]string),
		byKey: make(map[string]*types.Scope),
	}
	for _, s := range scopes {
		g.byKey[s.Path] = s
	}
	for _, s := range scopes {
		for _, dep := range s.Dependencies {
			target := resolveDepPath(s.Path, dep.Path)
			if _, ok := g.byKey[target]; !ok {
				return nil, &rhemaerr.ScopeNotFoundError{Path: dep.Path}
			}
			g.Edges[s.Path] = append(g.Edges[s.Path], target)
		}
	}
	if err := detectCycle(g); err != nil {
		return nil, err
	}
	return g, nil
}

func resolveDepPath(from, rel string) string {
	joined := filepath.Join(from, rel)
	return filepath.ToSlash(filepath.Clean(joined))
}

const (
	white = 0
	gray  = 1
	black = 2
)

func detectCycle(g *Graph) error {
	color := make(map[string]int, len(g.byKey))
	var chain []string

	var visit func(node string) error
	visit = func(node string) error {
		color[node] = gray
		chain = append(chain, node)
		for _, next := range sortedEdges(g, node) {
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				full := append(append([]string{}, chain...), next)
				return &rhemaerr.CircularDependencyError{Chain: full}
			}
		}
		chain = chain[:len(chain)-1]
		color[node] = black
		return nil
	}

	for _, node := range sortedKeys(g.byKey) {
		if color[node] == white {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}

func indexOf(haystack []string, needle string) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}

func sortedKeys(m map[string]*types.Scope) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}

// sortedEdges returns node's out-edges in case-insensitive lexicographic
// order, the deterministic tie-break required for longest-chain output.
func sortedEdges(g *Graph, node string) []string {
	edges := append([]string{}, g.Edges[node]...)
	sort.Slice(edges, func(i, j int) bool {
		return strings.ToLower(edges[i]) < strings.ToLower(edges[j])
	})
	return edges
}

// LongestChain performs a DFS from start and returns the longest simple
// path it finds, with start as the first element; no node appears twice.
func LongestChain(g *Graph, start string) []string {
	visiting := make(map[string]bool)
	var best []string

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		if len(path) > len(best) {
			best = append([]string{}, path...)
		}
		for _, next := range sortedEdges(g, node) {
			if visiting[next] {
				continue
			}
			visiting[next] = true
			dfs(next, append(path, next))
			visiting[next] = false
		}
	}
	visiting[start] = true
	dfs(start, []string{start})
	return best
}

// DependencyDepth is the BFS distance from node to the deepest scope
// reachable through dependency edges.
func DependencyDepth(g *Graph, node string) int {
	depth := make(map[string]int)
	queue := []string{node}
	depth[node] = 0
	max := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range sortedEdges(g, cur) {
			if _, seen := depth[next]; seen {
				continue
			}
			depth[next] = depth[cur] + 1
			if depth[next] > max {
				max = depth[next]
			}
			queue = append(queue, next)
		}
	}
	return max
}

// ImpactClass maps a dependency depth to the bands defined in §3: Low ≤1,
// Medium ≤3, High ≤5, Critical >5.
func ImpactClass(depth int) types.ImpactClass {
	return types.ImpactClassForDepth(depth)
}

// OrphanedReferences returns scopes that declare node as a dependency while
// node does not list them as siblings in return (i.e. the edge is
// one-directional and unacknowledged by node).
func OrphanedReferences(g *Graph, node string) []string {
	var out []string
	for _, candidate := range sortedKeys(g.byKey) {
		if candidate == node {
			continue
		}
		citesNode := false
		for _, target := range g.Edges[candidate] {
			if target == node {
				citesNode = true
				break
			}
		}
		if !citesNode {
			continue
		}
		reciprocated := false
		for _, target := range g.Edges[node] {
			if target == candidate {
				reciprocated = true
				break
			}
		}
		if !reciprocated {
			out = append(out, candidate)
		}
	}
	return out
}
