package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/scope"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Inspect the repository's scope tree",
}

var scopesDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List every scope found under --repo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scopes, err := scope.Discover(repoRoot)
		if err != nil {
			return fmt.Errorf("discover scopes: %w", err)
		}
		for _, s := range scopes {
			path := s.Path
			if path == "" {
				path = "."
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", path, s.Name, s.ScopeType, s.Version)
		}
		return nil
	},
}

func init() {
	scopesCmd.AddCommand(scopesDiscoverCmd)
}
