package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func scopes() []*types.Scope {
	return []*types.Scope{
		{Name: "a", Path: "a"},
		{Name: "b", Path: "b", Dependencies: []types.ScopeDependency{
			{Path: "../a", DependencyType: "runtime"},
		}},
	}
}

func TestBuildAndDepth(t *testing.T) {
	g, err := Build(scopes())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, g.Edges["b"])
	assert.Equal(t, 1, DependencyDepth(g, "b"))
	assert.Equal(t, types.ImpactLow, ImpactClass(DependencyDepth(g, "b")))
}

func TestBuildDetectsCycle(t *testing.T) {
	ss := scopes()
	ss[0].Dependencies = []types.ScopeDependency{{Path: "../b", DependencyType: "runtime"}}
	_, err := Build(ss)
	require.Error(t, err)
	var cd *rhemaerr.CircularDependencyError
	require.ErrorAs(t, err, &cd)
}

func TestBuildMissingTargetIsScopeNotFound(t *testing.T) {
	ss := []*types.Scope{
		{Name: "b", Path: "b", Dependencies: []types.ScopeDependency{
			{Path: "../missing", DependencyType: "runtime"},
		}},
	}
	_, err := Build(ss)
	var nf *rhemaerr.ScopeNotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestOrphanedReferences(t *testing.T) {
	ss := []*types.Scope{
		{Name: "a", Path: "a"},
		{Name: "b", Path: "b", Dependencies: []types.ScopeDependency{{Path: "../a", DependencyType: "runtime"}}},
	}
	g, err := Build(ss)
	require.NoError(t, err)
	orphans := OrphanedReferences(g, "a")
	require.Len(t, orphans, 1)
	assert.Equal(t, "b", orphans[0])
}

func TestLongestChain(t *testing.T) {
	ss := []*types.Scope{
		{Name: "a", Path: "a"},
		{Name: "b", Path: "b", Dependencies: []types.ScopeDependency{{Path: "../a", DependencyType: "runtime"}}},
		{Name: "c", Path: "c", Dependencies: []types.ScopeDependency{{Path: "../b", DependencyType: "runtime"}}},
	}
	g, err := Build(ss)
	require.NoError(t, err)
	chain := LongestChain(g, "c")
	assert.Equal(t, []string{"c", "b", "a"}, chain)
}
