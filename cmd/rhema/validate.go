package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/untoldecay/rhema/internal/schema"
	"github.com/untoldecay/rhema/internal/scope"
	"github.com/untoldecay/rhema/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every scope descriptor and document against the schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scopes, err := scope.Discover(repoRoot)
		if err != nil {
			return fmt.Errorf("discover scopes: %w", err)
		}

		var failures int
		report := func(scopePath, kind string, errs []error) {
			for _, e := range errs {
				failures++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s: %v\n", scopePath, kind, e)
			}
		}

		for _, s := range scopes {
			report(s.Path, "scope", schema.ValidateScope(s))

			dir := filepath.Join(repoRoot, s.Path)

			todos, err := store.ListTodos(dir, store.Filter{})
			if err != nil {
				return err
			}
			for i := range todos {
				report(s.Path, "todo", schema.ValidateTodo(&todos[i]))
			}

			decisions, err := store.ListDecisions(dir, store.Filter{})
			if err != nil {
				return err
			}
			for i := range decisions {
				report(s.Path, "decision", schema.ValidateDecision(&decisions[i]))
			}

			knowledge, err := store.ListKnowledge(dir, store.Filter{})
			if err != nil {
				return err
			}
			for i := range knowledge {
				report(s.Path, "knowledge", schema.ValidateKnowledge(&knowledge[i]))
			}

			patterns, err := store.ListPatterns(dir, store.Filter{})
			if err != nil {
				return err
			}
			for i := range patterns {
				report(s.Path, "pattern", schema.ValidatePattern(&patterns[i]))
			}

			conventions, err := store.ListConventions(dir, store.Filter{})
			if err != nil {
				return err
			}
			for i := range conventions {
				report(s.Path, "convention", schema.ValidateConvention(&conventions[i]))
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d validation failure(s)", failures)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d scope(s) valid\n", len(scopes))
		return nil
	},
}
