package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/config"
	"github.com/untoldecay/rhema/internal/githooks"
	"github.com/untoldecay/rhema/internal/schema"
	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a Rhema scope in the current directory",
	Long: `Initialize a Rhema scope in the current directory by writing a
.rhema/rhema.yaml descriptor. Run again in a subdirectory to carve out a
nested scope.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		scopeType, _ := cmd.Flags().GetString("type")
		version, _ := cmd.Flags().GetString("version")
		force, _ := cmd.Flags().GetBool("force")
		skipHooks, _ := cmd.Flags().GetBool("skip-hooks")

		// PersistentPreRun skips init, so config must be initialized here.
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize config: %v\n", err)
		}

		cwd, err := filepath.Abs(repoRoot)
		if err != nil {
			return err
		}

		if store.HasDescriptor(cwd) && !force {
			return fmt.Errorf("scope already initialized at %s (use --force to overwrite)", cwd)
		}

		if name == "" {
			name = filepath.Base(cwd)
		}

		s := &types.Scope{
			Name:          name,
			ScopeType:     scopeType,
			Version:       version,
			SchemaVersion: "1",
		}
		if errs := schema.ValidateScope(s); len(errs) > 0 {
			return fmt.Errorf("invalid scope: %v", errs[0])
		}
		if err := store.WriteScopeDescriptor(cwd, s); err != nil {
			return fmt.Errorf("write scope descriptor: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "initialized scope %q (%s) at %s\n", name, scopeType, cwd)

		if !skipHooks {
			if _, err := githooks.Install(cwd, githooks.InstallOptions{
				AutoBackup:  config.GetBool("hooks.auto-backup"),
				VerifyAfter: config.GetBool("hooks.verify-after-install"),
			}); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to install git hooks: %v\n", err)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "installed git hook wrappers")
			}
		}
		return nil
	},
}

func init() {
	initCmd.Flags().String("name", "", "scope name (defaults to the directory name)")
	initCmd.Flags().String("type", "service", "scope type (service, library, ...)")
	initCmd.Flags().String("version", "0.1.0", "scope version (semver)")
	initCmd.Flags().Bool("force", false, "overwrite an existing scope descriptor")
	initCmd.Flags().Bool("skip-hooks", false, "don't install git hook wrappers")
}
