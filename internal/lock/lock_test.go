package lock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/graph"
	"github.com/untoldecay/rhema/internal/types"
)

func setupRepo(t *testing.T) (string, []*types.Scope) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "knowledge.yaml"), []byte("entries: []\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "knowledge.yaml"), []byte("entries: []\n"), 0o644))

	scopes := []*types.Scope{
		{Name: "a", Path: "a", Version: "1.0.0"},
		{Name: "b", Path: "b", Version: "1.0.0", Dependencies: []types.ScopeDependency{
			{Path: "../a", DependencyType: "runtime"},
		}},
	}
	return root, scopes
}

func TestGenerateThenValidateIsClean(t *testing.T) {
	root, scopes := setupRepo(t)
	g, err := graph.Build(scopes)
	require.NoError(t, err)

	l, err := Generate(root, scopes, g)
	require.NoError(t, err)
	require.NoError(t, Write(root, l))

	reread, err := Read(root)
	require.NoError(t, err)

	issues, err := Validate(root, reread, scopes)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateDetectsChecksumMismatch(t *testing.T) {
	root, scopes := setupRepo(t)
	g, err := graph.Build(scopes)
	require.NoError(t, err)
	l, err := Generate(root, scopes, g)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "knowledge.yaml"), []byte("entries: [tampered]\n"), 0o644))

	issues, err := Validate(root, l, scopes)
	require.NoError(t, err)

	var kinds []IssueKind
	for _, i := range issues {
		kinds = append(kinds, i.Kind)
	}
	assert.Contains(t, kinds, ScopeChecksumMismatch)
	assert.Contains(t, kinds, DepChecksumMismatch)
}

func TestChecksumDirDeterministic(t *testing.T) {
	root, _ := setupRepo(t)
	sum1, err := ChecksumDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	sum2, err := ChecksumDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)
}
