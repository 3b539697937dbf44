package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
)

var growthCmd = &cobra.Command{
	Use:   "growth <weight|height|muac>",
	Short: "Show reference percentiles and the band for a measurement",
	Example: `  imci growth weight --age 18
  imci growth muac --age 30 --value 11.8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := growth.ParseKind(args[0])
		if err != nil {
			return err
		}
		age, _, err := ageFlag(cmd, "age")
		if err != nil {
			return err
		}
		curves := reference.Curves()

		curve, ok := curves[kind]
		if !ok {
			return &growth.ErrNoCurve{Kind: kind}
		}
		lo, hi := curve.Range()
		p := growth.Interpolate(curve, age)

		fmt.Printf("%s at %g months", kind.DisplayName(), age)
		if age < lo || age > hi {
			fmt.Printf(" (clamped to the %g-%g month reference range)", lo, hi)
		}
		fmt.Println()
		fmt.Printf("  P3 %.1f   P15 %.1f   P50 %.1f   P85 %.1f   P97 %.1f  %s\n",
			p.P3, p.P15, p.P50, p.P85, p.P97, kind.Unit())

		value, hasValue, err := floatFlag(cmd, "value")
		if err != nil || !hasValue {
			return err
		}
		r, err := growth.Classify(curves, growth.Measurement{Kind: kind, AgeMonths: age, Value: value})
		if err != nil {
			return err
		}
		fmt.Printf("\n%.1f %s: %s (%s)\n", value, kind.Unit(), r.Band.Label(), assessment.GrowthStatus(r))
		return nil
	},
}

func init() {
	growthCmd.Flags().Float64("age", 0, "Age in months")
	growthCmd.Flags().Float64("value", 0, "Measured value to classify")
	_ = growthCmd.MarkFlagRequired("age")
}
