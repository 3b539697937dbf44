package growth

import (
	"fmt"
	"math"
)

// Measurement is a single anthropometric reading supplied by the caller.
type Measurement struct {
	AgeMonths float64 `json:"age_months"`
	Value     float64 `json:"value"`
	Kind      Kind    `json:"kind"`
}

// Reading is a measurement placed on its reference curve.
type Reading struct {
	Measurement Measurement `json:"measurement"`
	Reference   Percentiles `json:"reference"`
	Band        Band        `json:"band"`
}

// InvalidMeasurementError is returned for a measurement that cannot be
// placed on a curve.
type InvalidMeasurementError struct {
	Measurement Measurement
	Reason      string
}

func (e *InvalidMeasurementError) Error() string {
	return fmt.Sprintf("invalid %s measurement: %s", e.Measurement.Kind, e.Reason)
}

// Validate rejects non-finite numbers, negative ages and non-positive
// values.
func (m Measurement) Validate() error {
	switch {
	case math.IsNaN(m.AgeMonths) || math.IsInf(m.AgeMonths, 0) || m.AgeMonths < 0:
		return &InvalidMeasurementError{Measurement: m, Reason: "age must be a finite number, zero or positive"}
	case math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value <= 0:
		return &InvalidMeasurementError{Measurement: m, Reason: "value must be a finite positive number"}
	}
	return nil
}

// ErrNoCurve is returned when a curve set has no curve for a measurement kind.
type ErrNoCurve struct {
	Kind Kind
}

func (e *ErrNoCurve) Error() string {
	return fmt.Sprintf("no reference curve for %q", e.Kind)
}

// Classify interpolates the measurement's curve at its age and returns the
// band the measured value falls in.
func Classify(curves CurveSet, m Measurement) (Reading, error) {
	if err := m.Validate(); err != nil {
		return Reading{}, err
	}
	curve, ok := curves[m.Kind]
	if !ok || len(curve) == 0 {
		return Reading{}, &ErrNoCurve{Kind: m.Kind}
	}
	ref := Interpolate(curve, m.AgeMonths)
	return Reading{
		Measurement: m,
		Reference:   ref,
		Band:        ClassifyPercentile(m.Value, ref),
	}, nil
}
