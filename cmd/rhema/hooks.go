package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/config"
	"github.com/untoldecay/rhema/internal/githooks"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the git hook wrappers Rhema installs",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Rhema git hook wrappers into .git/hooks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := githooks.Install(repoRoot, githooks.InstallOptions{
			AutoBackup:       config.GetBool("hooks.auto-backup"),
			VerifyAfter:      config.GetBool("hooks.verify-after-install"),
			SmokeTest:        config.GetBool("hooks.smoke-test"),
			SmokeTestTimeout: config.GetDuration("hooks.smoke-test-timeout"),
		})
		if err != nil {
			return fmt.Errorf("install hooks: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "installed %d hook(s)", len(result.Installed))
		if len(result.BackedUp) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", backed up %d existing hook(s)", len(result.BackedUp))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	hooksCmd.AddCommand(hooksInstallCmd)
}
