package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/lock"
	"github.com/untoldecay/rhema/internal/scope"
)

// gitHookCmd is what the installed wrapper scripts (internal/githooks) shell
// out to. On pre-commit and pre-push it checks rhema.lock; an out-of-date
// lock makes the command exit non-zero, which the wrapper passes on to git,
// so git aborts the commit or push. Every other event is a no-op.
var gitHookCmd = &cobra.Command{
	Use:    "git-hook <name> [args...]",
	Short:  "Internal handler invoked by the installed git hook wrappers",
	Args:   cobra.MinimumNArgs(1),
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		switch name {
		case "pre-commit", "pre-push":
			return checkLockFresh(cmd)
		default:
			return nil
		}
	},
}

// checkLockFresh validates rhema.lock against the discovered scopes and
// returns an error, failing the hook, only when validation reports issues.
// A missing lock is reported on stderr; discovery and validation errors are
// ignored. Neither fails the hook.
func checkLockFresh(cmd *cobra.Command) error {
	scopes, err := scope.Discover(repoRoot)
	if err != nil {
		return nil //nolint:nilerr // best-effort hook, never blocks git
	}
	if len(scopes) == 0 {
		return nil
	}
	l, err := lock.Read(repoRoot)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "rhema: no rhema.lock found; run `rhema lock generate`")
		return nil
	}
	issues, err := lock.Validate(repoRoot, l, scopes)
	if err != nil {
		return nil //nolint:nilerr // best-effort hook, never blocks git
	}
	for _, issue := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "rhema: %s %s: %s\n", issue.Kind, issue.Scope, issue.Detail)
	}
	if len(issues) > 0 {
		return fmt.Errorf("rhema.lock is out of date; run `rhema lock generate`")
	}
	return nil
}
