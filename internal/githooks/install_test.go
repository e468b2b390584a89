package githooks

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "-q", dir)
	require.NoError(t, cmd.Run())
	return dir
}

func TestInstallWritesAllHooks(t *testing.T) {
	repo := initRepo(t)
	result, err := Install(repo, InstallOptions{AutoBackup: true})
	require.NoError(t, err)
	assert.Len(t, result.Installed, len(Names))

	ok, err := Verify(repo)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, Installed(repo))
}

func TestInstallBacksUpExistingForeignHook(t *testing.T) {
	repo := initRepo(t)
	hooksDir := filepath.Join(repo, ".git", "hooks")
	require.NoError(t, os.MkdirAll(hooksDir, 0o750))
	foreign := filepath.Join(hooksDir, "pre-commit")
	require.NoError(t, os.WriteFile(foreign, []byte("#!/bin/sh\necho custom\n"), 0o700))

	result, err := Install(repo, InstallOptions{AutoBackup: true})
	require.NoError(t, err)
	backupPath, ok := result.BackedUp["pre-commit"]
	require.True(t, ok)

	content, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "custom")
}

func TestReinstallOverExistingRhemaHookDoesNotBackup(t *testing.T) {
	repo := initRepo(t)
	_, err := Install(repo, InstallOptions{AutoBackup: true})
	require.NoError(t, err)

	result, err := Install(repo, InstallOptions{AutoBackup: true})
	require.NoError(t, err)
	assert.Empty(t, result.BackedUp)
}

func TestSmokeTestRunsInstalledWrappers(t *testing.T) {
	repo := initRepo(t)
	_, err := Install(repo, InstallOptions{})
	require.NoError(t, err)

	ok, err := SmokeTest(repo, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
