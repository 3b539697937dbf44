package cmd

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/reference"
)

var doseCmd = &cobra.Command{
	Use:   "dose [condition]",
	Short: "Show the IMCI formulary, with doses for a child's weight",
	Example: `  imci dose
  imci dose pneumonia --weight 12
  imci dose malaria --weight 9 --age 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, r := range reference.Formulary() {
				fmt.Printf("%-12s %s\n", r.Key, r.Condition)
			}
			return nil
		}

		reg, ok := reference.LookupRegimen(args[0])
		if !ok {
			return eris.Errorf("unknown condition %q (known: %s)", args[0], strings.Join(reference.RegimenKeys(), ", "))
		}

		weight, hasWeight, err := floatFlag(cmd, "weight")
		if err != nil {
			return err
		}
		age, hasAge, err := ageFlag(cmd, "age")
		if err != nil {
			return err
		}

		fmt.Println(reg.Condition)
		fmt.Println(strings.Repeat("─", 60))
		if !hasWeight && !hasAge {
			for _, m := range reg.Medications {
				printMedication(m, false)
			}
			for _, m := range reg.Severe {
				printMedication(m, true)
			}
			return nil
		}

		calc := reference.CalculateRegimen(reg, weight, age)
		for _, d := range calc.Doses {
			label := d.Medication
			if d.Severe {
				label += " (severe)"
			}
			if d.Dose != nil {
				fmt.Printf("  %-36s %s\n", label, d.Dose.Text)
			} else {
				fmt.Printf("  %-36s not calculated: %s\n", label, d.Reason)
			}
		}
		return nil
	},
}

func printMedication(m reference.Medication, severe bool) {
	name := m.Name
	if severe {
		name += " (severe)"
	}
	fmt.Printf("%s\n  %s, %s, %s for %s\n", name, m.Dose, m.Route, m.Frequency, m.Duration)
	if m.Notes != "" {
		fmt.Printf("  %s\n", m.Notes)
	}
}

func init() {
	doseCmd.Flags().Float64("weight", 0, "Child's weight in kg")
	doseCmd.Flags().Float64("age", 0, "Child's age in months (for age-banded medicines)")
}
