package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/decision"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Validate or export decision-tree protocols",
}

var protocolValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a protocol document (YAML or JSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := decision.LoadProtocol(args[0])
		if err != nil {
			return err
		}
		name := g.Name()
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s: ok\n", args[0])
		fmt.Printf("  name:      %s\n", name)
		fmt.Printf("  version:   %s\n", g.Document().Version)
		fmt.Printf("  nodes:     %d (%d results)\n", g.Len(), len(g.Results()))
		fmt.Printf("  max depth: %d\n", g.MaxDepth())
		return nil
	},
}

var protocolShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active protocol",
	Long:  "Print the active protocol (the configured protocol.path, or the built-in flowchart) as YAML or JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		f := decision.Format(format)
		if f != decision.FormatJSON && f != decision.FormatYAML {
			return eris.Errorf("unknown format %q (want yaml or json)", format)
		}

		g, err := loadGraph()
		if err != nil {
			return err
		}
		out, err := decision.MarshalProtocol(g, f)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	protocolShowCmd.Flags().StringP("format", "f", "yaml", "Output format (yaml or json)")

	protocolCmd.AddCommand(protocolValidateCmd)
	protocolCmd.AddCommand(protocolShowCmd)
}
