package cmd

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/reference"
)

var vitalsCmd = &cobra.Command{
	Use:   "vitals [query]",
	Short: "Search the vital-sign threshold table or classify a reading",
	Example: `  imci vitals breathing
  imci vitals --metric spo2 --value 88`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if name, _ := cmd.Flags().GetString("metric"); name != "" {
			m, err := reference.ParseMetric(name)
			if err != nil {
				return err
			}
			value, ok, err := floatFlag(cmd, "value")
			if err != nil {
				return err
			}
			if !ok {
				return eris.Errorf("--value is required with --metric")
			}
			st, err := reference.VitalStatus(m, value)
			if err != nil {
				return err
			}
			r, _ := reference.RangeFor(m)
			fmt.Printf("%s %g %s: %s\n", r.Name, value, r.Unit, st)
			fmt.Printf("  normal %g-%g, warning %g-%g\n", r.Normal.Min, r.Normal.Max, r.Warning.Min, r.Warning.Max)
			return nil
		}

		q := ""
		if len(args) == 1 {
			q = args[0]
		}
		rows := reference.SearchVitals(q)
		if len(rows) == 0 {
			fmt.Println("No matching thresholds.")
			return nil
		}

		fmt.Printf("%-26s  %-13s  %-32s  %-30s  %s\n", "Metric", "Age group", "Threshold", "Action", "Severity")
		fmt.Println(strings.Repeat("─", 118))
		for _, t := range rows {
			fmt.Printf("%-26s  %-13s  %-32s  %-30s  %s\n", t.Metric, t.AgeGroup, t.Threshold, t.Action, t.Severity)
		}
		return nil
	},
}

func init() {
	vitalsCmd.Flags().String("metric", "", "Vital sign to classify (temperature, spo2, rr, hr)")
	vitalsCmd.Flags().Float64("value", 0, "Reading to classify")
}
