package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCargoPluginDetectsCrateAndWorkspace(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(`
[package]
name = "my-crate"
version = "0.1.0"

[dependencies]
serde = "1"

[workspace]
members = ["sub"]
`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	p := CargoPlugin{}
	assert.True(t, p.CanHandle(root))

	boundaries, err := p.DetectBoundaries(root)
	require.NoError(t, err)
	require.Len(t, boundaries, 2)
	assert.Equal(t, "my-crate", boundaries[0].PackageInfo.Name)

	suggestions, err := p.SuggestScopes(boundaries)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
}

func TestNodePluginDetectsWorkspacePackages(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{
  "name": "root-pkg",
  "private": true,
  "workspaces": ["packages/*"]
}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", "core"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "core", "package.json"), []byte(`{"name": "core"}`), 0o644))

	p := NodePlugin{}
	boundaries, err := p.DetectBoundaries(root)
	require.NoError(t, err)
	require.Len(t, boundaries, 2)

	suggestions, err := p.SuggestScopes(boundaries)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
}

func TestNxPluginDetectsProjects(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "nx.json"), []byte(`{"npmScope": "acme"}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "apps", "web"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "apps", "web", "project.json"), []byte(`{"name": "web", "projectType": "application"}`), 0o644))

	p := NxPlugin{}
	assert.True(t, p.CanHandle(root))
	boundaries, err := p.DetectBoundaries(root)
	require.NoError(t, err)
	require.Len(t, boundaries, 2)

	suggestions, err := p.SuggestScopes(boundaries)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
}
