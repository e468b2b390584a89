// Package githooks implements component I: installing, backing up, and
// verifying the Git hook wrapper scripts Rhema needs. The backup-then-
// overwrite workflow generalizes the teacher's cmd/bd init_git_hooks.go,
// which carried the same existing-hook-detection and timestamped-backup
// logic for bd's two hooks (pre-commit, post-merge); Rhema extends that to
// the full 14-hook set named in §4.I. The script bodies themselves are out
// of scope (§1 Non-goals) — each wrapper simply shells out to the Rhema CLI.
package githooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/untoldecay/rhema/internal/gitutil"
)

// Names lists every hook wrapper Rhema installs, in the order §4.I names
// them.
var Names = []string{
	"pre-commit", "post-commit", "pre-push", "post-merge", "pre-rebase",
	"pre-receive", "post-receive", "update", "pre-auto-gc", "post-rewrite",
	"pre-applypatch", "post-applypatch", "pre-rebase-interactive", "post-checkout",
}

const signature = "# rhema-managed-hook"

// BackupDir is the repo-relative directory timestamped hook backups are
// written under.
const BackupDir = ".rhema/hook-backups"

// InstallOptions controls the optional post-install checks.
type InstallOptions struct {
	AutoBackup       bool
	VerifyAfter      bool
	SmokeTest        bool
	SmokeTestTimeout time.Duration
}

// InstallResult reports what happened to each hook.
type InstallResult struct {
	Installed []string
	BackedUp  map[string]string // hook name -> backup path
	Verified  bool
	SmokeOK   bool
}

// Install writes every wrapper script named in Names into repoRoot's
// .git/hooks/. When opts.AutoBackup is set, a pre-existing script that lacks
// the Rhema signature is archived under BackupDir first; when it is not set,
// such a script is overwritten without a backup. A hook that already carries
// the Rhema signature is overwritten in place (idempotent re-install).
func Install(repoRoot string, opts InstallOptions) (*InstallResult, error) {
	gitDir, err := gitutil.GetGitDir(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("locate git dir: %w", err)
	}
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o750); err != nil {
		return nil, fmt.Errorf("create hooks dir: %w", err)
	}

	result := &InstallResult{BackedUp: make(map[string]string)}

	for _, name := range Names {
		path := filepath.Join(hooksDir, name)
		if existing, err := os.ReadFile(path); err == nil { // #nosec G304 -- fixed hook name under .git/hooks
			if !strings.Contains(string(existing), signature) && opts.AutoBackup {
				backupPath, err := backupHook(repoRoot, name, existing)
				if err != nil {
					return nil, fmt.Errorf("backup %s: %w", name, err)
				}
				result.BackedUp[name] = backupPath
			}
		}
		body := wrapperScript(name)
		if err := os.WriteFile(path, []byte(body), 0o700); err != nil { // #nosec G306 -- hooks must be executable
			return nil, fmt.Errorf("write %s hook: %w", name, err)
		}
		result.Installed = append(result.Installed, name)
	}

	if opts.VerifyAfter {
		ok, err := Verify(repoRoot)
		if err != nil {
			return nil, fmt.Errorf("verify hooks: %w", err)
		}
		result.Verified = ok
	}

	if opts.SmokeTest {
		timeout := opts.SmokeTestTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ok, err := SmokeTest(repoRoot, timeout)
		if err != nil {
			return nil, fmt.Errorf("smoke test hooks: %w", err)
		}
		result.SmokeOK = ok
	}

	return result, nil
}

func backupHook(repoRoot, name string, content []byte) (string, error) {
	dir := filepath.Join(repoRoot, BackupDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	timestamp := time.Now().UTC().Format("20060102-150405")
	backupPath := filepath.Join(dir, fmt.Sprintf("%s.%s.backup", name, timestamp))
	if err := os.WriteFile(backupPath, content, 0o600); err != nil {
		return "", err
	}
	return backupPath, nil
}

// wrapperScript renders the POSIX-shell wrapper for the named hook. The
// wrapper's only job is to invoke the Rhema CLI with the matching
// subcommand and forward the hook's positional arguments and stdin.
func wrapperScript(name string) string {
	return fmt.Sprintf(`#!/bin/sh
%s
#
# Invokes the Rhema CLI's git-hook handler for the %q event. Runs as a
# best-effort check: a missing rhema binary never blocks the git operation.
if ! command -v rhema >/dev/null 2>&1; then
    exit 0
fi

rhema git-hook %s "$@"
exit $?
`, signature, name, name)
}

// Verify checks that every wrapper in Names exists, is executable, and
// carries the Rhema signature.
func Verify(repoRoot string) (bool, error) {
	gitDir, err := gitutil.GetGitDir(repoRoot)
	if err != nil {
		return false, err
	}
	hooksDir := filepath.Join(gitDir, "hooks")
	for _, name := range Names {
		path := filepath.Join(hooksDir, name)
		info, err := os.Stat(path)
		if err != nil {
			return false, nil
		}
		if info.Mode().Perm()&0o111 == 0 {
			return false, nil
		}
		content, err := os.ReadFile(path) // #nosec G304 -- fixed hook name under .git/hooks
		if err != nil || !strings.Contains(string(content), signature) {
			return false, nil
		}
	}
	return true, nil
}

// Installed reports whether every hook Rhema manages is already present,
// mirroring the teacher's hooksInstalled() precondition check.
func Installed(repoRoot string) bool {
	ok, err := Verify(repoRoot)
	return err == nil && ok
}
