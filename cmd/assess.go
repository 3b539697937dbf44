package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
	"github.com/abhisek/imci/internal/store"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Classify a child non-interactively from flowchart answers",
	Example: `  imci assess --answers 12-59_months,no_danger,fever,malaria_risk
  imci assess --answers 12-59_months,no_danger,ear_problem,no_ear_signs --age 24 --muac 11.2 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		answers, _ := f.GetStringSlice("answers")
		asJSON, _ := f.GetBool("json")
		withCounsel, _ := f.GetBool("counsel")

		graph, err := loadGraph()
		if err != nil {
			return err
		}
		sess, err := graph.Replay(answers)
		if err != nil {
			return err
		}

		in := assessment.Input{Session: sess, Curves: reference.Curves()}
		age, hasAge, err := ageFlag(cmd, "age")
		if err != nil {
			return err
		}
		for _, k := range []struct {
			flag string
			kind growth.Kind
		}{
			{"weight", growth.KindWeight},
			{"height", growth.KindHeight},
			{"muac", growth.KindMUAC},
		} {
			v, ok, err := floatFlag(cmd, k.flag)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if !hasAge {
				return eris.Errorf("--age is required with --%s", k.flag)
			}
			in.Measurements = append(in.Measurements, growth.Measurement{Kind: k.kind, AgeMonths: age, Value: v})
		}

		vitals := &assessment.Vitals{}
		var anyVital bool
		for flag, dst := range map[string]**float64{
			"temp": &vitals.TemperatureC,
			"spo2": &vitals.SpO2,
			"rr":   &vitals.RespiratoryRate,
			"hr":   &vitals.HeartRate,
		} {
			v, ok, err := floatFlag(cmd, flag)
			if err != nil {
				return err
			}
			if ok {
				*dst = &v
				anyVital = true
			}
		}
		if anyVital {
			if hasAge {
				vitals.AgeMonths = &age
			}
			in.Vitals = vitals
		}

		c, err := assessment.Evaluate(in)
		if err != nil {
			return err
		}

		var adv *counsel.Advice
		if withCounsel {
			var st *store.Store
			if s, err := openStore(cmd); err == nil {
				st = s
				defer st.Close()
			}
			role, err := resolveRole(cmd, st)
			if err != nil {
				return err
			}
			svc, err := newCounsel(ctx, st)
			if err != nil {
				return err
			}
			a := svc.Advise(ctx, c, role)
			adv = &a
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Classification assessment.Classification `json:"classification"`
				Advice         *counsel.Advice           `json:"advice,omitempty"`
			}{c, adv})
		}
		printClassification(os.Stdout, c)
		if adv != nil {
			printAdvice(os.Stdout, *adv)
		}
		return nil
	},
}

// floatFlag returns a float flag's value and whether it was set.
// NaN and infinities are rejected.
func floatFlag(cmd *cobra.Command, name string) (float64, bool, error) {
	if !cmd.Flags().Changed(name) {
		return 0, false, nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return 0, false, eris.Wrapf(err, "--%s", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, eris.Errorf("--%s must be a finite number, got %v", name, v)
	}
	return v, true, nil
}

// ageFlag is floatFlag for an age in months, which may not be negative.
func ageFlag(cmd *cobra.Command, name string) (float64, bool, error) {
	v, ok, err := floatFlag(cmd, name)
	if err != nil {
		return 0, false, err
	}
	if v < 0 {
		return 0, false, eris.Errorf("--%s must be zero or positive, got %g", name, v)
	}
	return v, ok, nil
}

// resolveRole uses --role when given, then the saved role.
func resolveRole(cmd *cobra.Command, st *store.Store) (counsel.Role, error) {
	if r, _ := cmd.Flags().GetString("role"); r != "" {
		return counsel.ParseRole(r)
	}
	if st == nil {
		return counsel.RoleCaregiver, nil
	}
	return counsel.LoadRole(cmd.Context(), st.Settings())
}

func printClassification(w io.Writer, c assessment.Classification) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "Result:    %s\n", c.ResultID)
	fmt.Fprintf(w, "Risk:      %s", c.RiskLevel)
	if c.Escalated() {
		fmt.Fprintf(w, " (raised from %s)", c.BaseLevel)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Urgency:   %s\n", c.Urgency)
	fmt.Fprintf(w, "Score:     %g\n", c.Score)
	fmt.Fprintf(w, "Path:      %s\n", strings.Join(c.Path, " → "))

	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "RECOMMENDATIONS")
	fmt.Fprintln(w, sep)
	for _, r := range c.Recommendations {
		fmt.Fprintf(w, "  • %s\n", r)
	}

	if len(c.Readings) > 0 || len(c.Vitals) > 0 {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, "MEASUREMENTS")
		fmt.Fprintln(w, sep)
		for _, rd := range c.Readings {
			m := rd.Measurement
			fmt.Fprintf(w, "  %-16s %6.1f %-3s  %-14s %s\n", m.Kind.DisplayName(), m.Value, m.Kind.Unit(),
				rd.Band.Label(), assessment.GrowthStatus(rd))
		}
		for _, v := range c.Vitals {
			fmt.Fprintf(w, "  %-16s %6.1f      %s\n", v.Metric, v.Value, v.Status)
		}
	}
}

func printAdvice(w io.Writer, a counsel.Advice) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "COUNSELLING (%s)\n", a.Source)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, a.Summary)
	if len(a.HomeCare) > 0 {
		fmt.Fprintln(w, "\nCare at home:")
		for _, h := range a.HomeCare {
			fmt.Fprintf(w, "  • %s\n", h)
		}
	}
	fmt.Fprintln(w, "\nCome back immediately if:")
	for _, s := range a.WarningSigns {
		fmt.Fprintf(w, "  • %s\n", s)
	}
	fmt.Fprintf(w, "\n%s\n", a.FollowUp)
}

func init() {
	f := assessCmd.Flags()
	f.StringSlice("answers", nil, "Option values in flowchart order (comma-separated)")
	f.Float64("age", 0, "Age in months (required with measurements)")
	f.Float64("weight", 0, "Weight in kg")
	f.Float64("height", 0, "Height or length in cm")
	f.Float64("muac", 0, "Mid-upper arm circumference in cm")
	f.Float64("temp", 0, "Temperature in °C")
	f.Float64("spo2", 0, "Oxygen saturation in %")
	f.Float64("rr", 0, "Respiratory rate per minute")
	f.Float64("hr", 0, "Heart rate per minute")
	f.Bool("json", false, "Print the classification as JSON")
	f.Bool("counsel", false, "Include caregiver counselling")
	f.String("role", "", "Counselling audience (caregiver, healthWorker, admin); defaults to the saved role")
	_ = assessCmd.MarkFlagRequired("answers")
}
