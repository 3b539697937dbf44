package growth

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Kind identifies which anthropometric measurement a curve or value describes.
type Kind string

const (
	KindWeight Kind = "weight" // kg
	KindHeight Kind = "height" // cm
	KindMUAC   Kind = "muac"   // cm
)

// AllKinds returns all measurement kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindWeight, KindHeight, KindMUAC}
}

// ParseKind maps a user-supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weight", "weight-for-age", "wfa":
		return KindWeight, nil
	case "height", "length", "height-for-age", "hfa":
		return KindHeight, nil
	case "muac", "muac-for-age":
		return KindMUAC, nil
	default:
		return "", fmt.Errorf("unknown measurement kind: %q", s)
	}
}

// Unit returns the display unit for a measurement kind.
func (k Kind) Unit() string {
	switch k {
	case KindWeight:
		return "kg"
	case KindHeight, KindMUAC:
		return "cm"
	default:
		return ""
	}
}

// DisplayName returns a human-readable name for the curve of this kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindWeight:
		return "Weight-for-age"
	case KindHeight:
		return "Height-for-age"
	case KindMUAC:
		return "MUAC-for-age"
	default:
		return string(k)
	}
}

// Percentiles holds the five reference percentile values at one age.
type Percentiles struct {
	P3  float64 `json:"p3"`
	P15 float64 `json:"p15"`
	P50 float64 `json:"p50"`
	P85 float64 `json:"p85"`
	P97 float64 `json:"p97"`
}

// ControlPoint is one age-indexed row of a reference curve.
type ControlPoint struct {
	AgeMonths float64 `json:"age_months"`
	Percentiles
}

// Curve is an age-ordered sequence of control points.
type Curve []ControlPoint

// CurveSet maps each measurement kind to its reference curve.
type CurveSet map[Kind]Curve

// Validate checks the curve invariants: non-empty, strictly increasing ages
// and ordered percentiles within each point. All problems are reported.
func (c Curve) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("reference curve is empty")
	}

	var errs []string
	for i, p := range c {
		if slices.ContainsFunc([]float64{p.AgeMonths, p.P3, p.P15, p.P50, p.P85, p.P97}, notFinite) {
			errs = append(errs, fmt.Sprintf("point %d: non-finite value in %+v", i, p))
			continue
		}
		if p.AgeMonths < 0 {
			errs = append(errs, fmt.Sprintf("point %d: negative age %.2f", i, p.AgeMonths))
		}
		if i > 0 && p.AgeMonths <= c[i-1].AgeMonths {
			errs = append(errs, fmt.Sprintf("point %d: age %.2f not greater than previous %.2f",
				i, p.AgeMonths, c[i-1].AgeMonths))
		}
		if !(p.P3 <= p.P15 && p.P15 <= p.P50 && p.P50 <= p.P85 && p.P85 <= p.P97) {
			errs = append(errs, fmt.Sprintf("point %d (age %.2f): percentiles out of order: %v",
				i, p.AgeMonths, p.Percentiles))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("reference curve validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func notFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Validate checks every curve in the set.
func (cs CurveSet) Validate() error {
	var errs []string
	for _, k := range AllKinds() {
		c, ok := cs[k]
		if !ok {
			continue
		}
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", k, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}

// Range returns the first and last control ages of the curve.
func (c Curve) Range() (lo, hi float64) {
	if len(c) == 0 {
		return 0, 0
	}
	return c[0].AgeMonths, c[len(c)-1].AgeMonths
}
