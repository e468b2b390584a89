package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/untoldecay/rhema/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query [scope.]kind[field=value,...]",
	Short: "Run a CQL query across the scope tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		result, err := query.Execute(repoRoot, cwd, args[0])
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		out, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}
