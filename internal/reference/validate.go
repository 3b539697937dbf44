package reference

import (
	"fmt"
	"strings"

	"github.com/abhisek/imci/internal/growth"
)

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

// Validate checks the static tables. It runs once at init; a failure is a
// programming error.
func Validate() error {
	var errs []string

	if err := curves.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	for _, k := range growth.AllKinds() {
		if _, ok := curves[k]; !ok {
			errs = append(errs, fmt.Sprintf("no reference curve for %q", k))
		}
	}

	for _, r := range vitalRanges {
		if r.Normal.Min >= r.Normal.Max || r.Warning.Min >= r.Warning.Max {
			errs = append(errs, fmt.Sprintf("vital %q has an empty band", r.Metric))
		}
		if r.Normal.Min < r.Plausible.Min || r.Normal.Max > r.Plausible.Max {
			errs = append(errs, fmt.Sprintf("vital %q normal band outside plausible range", r.Metric))
		}
	}

	seenCode := make(map[string]bool, len(codes))
	for _, c := range codes {
		if seenCode[c.ICD10] {
			errs = append(errs, fmt.Sprintf("duplicate ICD-10 code %q", c.ICD10))
		}
		seenCode[c.ICD10] = true
	}

	seenKey := make(map[string]bool, len(formulary))
	for _, r := range formulary {
		if seenKey[r.Key] {
			errs = append(errs, fmt.Sprintf("duplicate regimen key %q", r.Key))
		}
		seenKey[r.Key] = true
		if len(r.Medications) == 0 {
			errs = append(errs, fmt.Sprintf("regimen %q has no medications", r.Key))
		}
	}

	if !(EmergencyScore > UrgentScore && UrgentScore > SameDayScore && SameDayScore > 0) {
		errs = append(errs, "urgency breakpoints must be strictly decreasing and positive")
	}
	if MUACSevereCutoff >= MUACModerateCutoff {
		errs = append(errs, "MUAC severe cutoff must be below the moderate cutoff")
	}

	if len(errs) > 0 {
		return fmt.Errorf("reference data validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
