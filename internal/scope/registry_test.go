package scope

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"
)

func writeScope(t *testing.T, root, rel, name string) {
	t.Helper()
	dir := filepath.Join(root, rel)
	require.NoError(t, store.WriteScopeDescriptor(dir, &types.Scope{
		Name:          name,
		ScopeType:     "service",
		SchemaVersion: "2",
	}))
}

func TestDiscoverFindsAllScopes(t *testing.T) {
	root := t.TempDir()
	writeScope(t, root, ".", "root")
	writeScope(t, root, "services/api", "api")
	writeScope(t, root, "services/worker", "worker")

	scopes, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, scopes, 3)

	names := map[string]string{}
	for _, s := range scopes {
		names[s.Path] = s.Name
	}
	assert.Equal(t, "root", names["."])
	assert.Equal(t, "api", names[filepath.ToSlash(filepath.Join("services", "api"))])
}

func TestFindNearestScopePicksDeepest(t *testing.T) {
	scopes := []*types.Scope{
		{Name: "root", Path: "."},
		{Name: "api", Path: "services/api"},
	}
	nearest := FindNearestScope("services/api/handlers/user.go", scopes)
	require.NotNil(t, nearest)
	assert.Equal(t, "api", nearest.Name)

	nearest = FindNearestScope("README.md", scopes)
	require.NotNil(t, nearest)
	assert.Equal(t, "root", nearest.Name)
}

func TestHierarchyNestsByPath(t *testing.T) {
	scopes := []*types.Scope{
		{Name: "root", Path: "."},
		{Name: "api", Path: "services/api"},
		{Name: "api-internal", Path: "services/api/internal"},
	}
	h := Hierarchy(scopes)
	require.Len(t, h["."], 1)
	assert.Equal(t, "api", h["."][0].Name)
	require.Len(t, h["services/api"], 1)
	assert.Equal(t, "api-internal", h["services/api"][0].Name)
}

func TestGetScopeNotFound(t *testing.T) {
	root := t.TempDir()
	_, err := Get(root, "missing")
	require.Error(t, err)
}
