package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/graph"
	"github.com/untoldecay/rhema/internal/lock"
	"github.com/untoldecay/rhema/internal/scope"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Generate and check rhema.lock",
}

var lockGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate rhema.lock from the current scope tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scopes, err := scope.Discover(repoRoot)
		if err != nil {
			return fmt.Errorf("discover scopes: %w", err)
		}
		g, err := graph.Build(scopes)
		if err != nil {
			return fmt.Errorf("build dependency graph: %w", err)
		}
		l, err := lock.Generate(repoRoot, scopes, g)
		if err != nil {
			return fmt.Errorf("generate lock: %w", err)
		}
		if err := lock.Write(repoRoot, l); err != nil {
			return fmt.Errorf("write lock: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s covering %d scope(s)\n", lock.FileName, len(l.Scopes))
		return nil
	},
}

var lockCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate rhema.lock against the current scope tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scopes, err := scope.Discover(repoRoot)
		if err != nil {
			return fmt.Errorf("discover scopes: %w", err)
		}
		l, err := lock.Read(repoRoot)
		if err != nil {
			return fmt.Errorf("read %s: %w", lock.FileName, err)
		}
		issues, err := lock.Validate(repoRoot, l, scopes)
		if err != nil {
			return fmt.Errorf("validate lock: %w", err)
		}
		for _, issue := range issues {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s: %s\n", issue.Kind, issue.Scope, issue.Dep, issue.Detail)
		}
		if len(issues) > 0 {
			return fmt.Errorf("%d lock issue(s) found", len(issues))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "lock is up to date")
		return nil
	},
}

func init() {
	lockCmd.AddCommand(lockGenerateCmd)
	lockCmd.AddCommand(lockCheckCmd)
}
