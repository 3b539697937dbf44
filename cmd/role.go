package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/counsel"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Show or change who is using the tool",
}

var roleGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the saved role",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := counsel.LoadRole(cmd.Context(), st.Settings())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n  %s\n", r, r.Name(), r.Description())
		return nil
	},
}

var roleSetCmd = &cobra.Command{
	Use:       "set <caregiver|healthWorker|admin>",
	Short:     "Save the active role",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(counsel.RoleCaregiver), string(counsel.RoleHealthWorker), string(counsel.RoleAdmin)},
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := counsel.ParseRole(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := counsel.SaveRole(cmd.Context(), st.Settings(), r); err != nil {
			return err
		}
		fmt.Printf("Role set to %s.\n", r.Name())
		return nil
	},
}

func init() {
	roleCmd.AddCommand(roleGetCmd)
	roleCmd.AddCommand(roleSetCmd)
}
