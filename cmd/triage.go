package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/app"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/reference"
	"github.com/abhisek/imci/internal/screens/env"
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Start the interactive assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTriage(cmd)
	},
}

// runTriage opens the store, builds dependencies, and launches the TUI.
func runTriage(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	graph, err := loadGraph()
	if err != nil {
		return err
	}
	svc, err := newCounsel(ctx, st)
	if err != nil {
		return err
	}
	role, err := counsel.LoadRole(ctx, st.Settings())
	if err != nil {
		return err
	}

	return app.Run(&env.Env{
		Graph:    graph,
		Curves:   reference.Curves(),
		Counsel:  svc,
		Settings: st.Settings(),
		Role:     role,
	})
}
