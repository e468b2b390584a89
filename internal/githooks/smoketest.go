package githooks

import (
	"path/filepath"
	"time"

	"github.com/untoldecay/rhema/internal/gitutil"
)

// SmokeTest runs every installed wrapper with a synthetic smoke-test flag
// and a bounded timeout, verifying each one starts, accepts the flag, and
// exits without hanging. The platform-specific runScript (smoketest_unix.go,
// smoketest_windows.go) does the actual process supervision.
func SmokeTest(repoRoot string, timeout time.Duration) (bool, error) {
	gitDir, err := gitutil.GetGitDir(repoRoot)
	if err != nil {
		return false, err
	}
	hooksDir := filepath.Join(gitDir, "hooks")
	for _, name := range Names {
		path := filepath.Join(hooksDir, name)
		if err := runScript(path, timeout); err != nil {
			return false, nil
		}
	}
	return true, nil
}
