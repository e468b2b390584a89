package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/config"
	"github.com/untoldecay/rhema/internal/rlog"
)

// repoRoot is the --repo flag value, resolved to an absolute path in
// PersistentPreRunE so every subcommand can read it without re-resolving.
var repoRoot string

// logger is the process-wide structured logger, built from component K's
// log.* settings once config.Initialize has run.
var logger *rlog.Logger

var rootCmd = &cobra.Command{
	Use:           "rhema",
	Short:         "Repository-anchored context protocol",
	Long:          `rhema manages scope-local todos, decisions, knowledge, patterns, and conventions, and keeps a dependency lock file in sync across a repository's scope tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// init has no repository to initialize against yet, so it skips
	// PersistentPreRun the same way the teacher's bd init does.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("initialize config: %w", err)
		}
		abs, err := filepath.Abs(repoRoot)
		if err != nil {
			return fmt.Errorf("resolve --repo: %w", err)
		}
		repoRoot = abs

		l, err := rlog.New(rlog.Config{
			Level:      config.GetString("log.level"),
			File:       filepath.Join(repoRoot, config.GetString("log.file")),
			MaxSizeMB:  config.GetInt("log.max-size-mb"),
			MaxBackups: config.GetInt("log.max-backups"),
			MaxAgeDays: config.GetInt("log.max-age-days"),
		})
		if err != nil {
			// Logging failures never block the command itself.
			l = rlog.Discard()
		}
		logger = l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return logger.Close()
		}
		return nil
	},
}

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	rootCmd.PersistentFlags().StringVar(&repoRoot, "repo", cwd, "repository root to operate against")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(gitHookCmd)
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	return rootCmd.Execute()
}
