package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/decision"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	// Printing the version never needs configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("imci", version)
		fmt.Println("built-in protocol", decision.Default().Version())
	},
}
