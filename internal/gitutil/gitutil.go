// Package gitutil provides the small git-plumbing helpers the hook
// installer needs: locating the repository's .git directory. It is a
// trimmed generalization of the teacher's internal/git helpers, which cover
// full worktree lifecycle management — Rhema only needs directory
// discovery, so the worktree-creation machinery was not carried over.
package gitutil

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GetGitDir returns the absolute path of the repository's .git directory
// (or the git-common-dir for a worktree checkout) for repoRoot, by shelling
// out to `git rev-parse`, matching the teacher's exec.Command idiom for
// plumbing calls.
func GetGitDir(repoRoot string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--git-common-dir")
	cmd.Dir = repoRoot
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse --git-common-dir: %w", err)
	}
	dir := strings.TrimSpace(string(out))
	if dir == ".git" {
		return filepath.Join(repoRoot, ".git"), nil
	}
	if !filepath.IsAbs(dir) {
		return filepath.Join(repoRoot, dir), nil
	}
	return dir, nil
}
