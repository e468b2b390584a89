// Command rhema is the CLI entry point for the repository-anchored context
// protocol. Each subcommand is intentionally thin: business logic lives in
// the internal/* packages (components A-L); this tree only wires
// github.com/spf13/cobra commands onto those package facades, following the
// teacher's cmd/bd convention of one file per subcommand.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
