package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes rootCmd with args, scoped to repoRoot, capturing combined
// stdout/stderr, and restores the previous --repo flag value afterward.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	prevRepo := repoRoot
	defer func() { repoRoot = prevRepo }()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--repo", dir}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandTreeRegistersEverySubcommand(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "scopes", "validate", "lock", "query", "hooks", "git-hook"} {
		assert.True(t, names[want], "expected %q to be registered", want)
	}
}

func TestInitThenValidateThenLock(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "init", "--skip-hooks", "--name", "widget", "--type", "service")
	require.NoError(t, err)
	assert.Contains(t, out, "widget")

	out, err = run(t, dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	out, err = run(t, dir, "lock", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "rhema.lock")

	out, err = run(t, dir, "lock", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestScopesDiscoverListsInitializedScope(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "init", "--skip-hooks", "--name", "widget")
	require.NoError(t, err)

	out, err := run(t, dir, "scopes", "discover")
	require.NoError(t, err)
	assert.Contains(t, out, "widget")
}

func TestGitHookPreCommitPassesWithFreshLock(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "init", "--skip-hooks", "--name", "widget")
	require.NoError(t, err)
	_, err = run(t, dir, "lock", "generate")
	require.NoError(t, err)

	_, err = run(t, dir, "git-hook", "pre-commit")
	assert.NoError(t, err)
}

func TestGitHookUnknownEventIsANoop(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "init", "--skip-hooks", "--name", "widget")
	require.NoError(t, err)

	_, err = run(t, dir, "git-hook", "post-checkout")
	assert.NoError(t, err)
}

func TestQueryReturnsEmptySequenceWhenNoDocuments(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "init", "--skip-hooks", "--name", "widget")
	require.NoError(t, err)

	out, err := run(t, dir, "query", "todos")
	require.NoError(t, err)
	assert.Contains(t, out, "[]")
}
