package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/reference"
)

var codesCmd = &cobra.Command{
	Use:   "codes [query]",
	Short: "Search the ICD-10 table for IMCI conditions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		q := ""
		if len(args) == 1 {
			q = args[0]
		}

		rows := reference.FilterCodes(q, category)
		if len(rows) == 0 {
			fmt.Println("No matching codes.")
			fmt.Printf("Categories: %s\n", strings.Join(reference.Categories(), ", "))
			return nil
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		fmt.Printf("%-7s  %-28s  %-28s  %-14s  %s\n", "ICD-10", "Condition", "IMCI classification", "Category", "Frequency")
		fmt.Println(strings.Repeat("─", 100))
		for _, c := range rows {
			fmt.Printf("%-7s  %-28s  %-28s  %-14s  %s\n", c.ICD10, c.Condition, c.IMCIClassification, c.Category, c.Frequency)
			if verbose {
				fmt.Printf("         treatment: %s\n         complications: %s\n", c.Treatment, c.Complications)
			}
		}
		return nil
	},
}

func init() {
	codesCmd.Flags().StringP("category", "c", "", "Filter by category")
	codesCmd.Flags().BoolP("verbose", "v", false, "Show treatment and complications")
}
