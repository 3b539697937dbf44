// Package assessment combines a finished decision-tree session with growth
// measurements and vital signs into one classification.
//
// Evaluation is pure: identical inputs always produce identical output.
package assessment

import (
	"fmt"

	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
)

// IncompleteAssessmentError is returned when assessing a session that has
// not reached a result node.
type IncompleteAssessmentError struct {
	NodeID string
	Steps  int
}

func (e *IncompleteAssessmentError) Error() string {
	return fmt.Sprintf("assessment incomplete: session at question %q after %d answers", e.NodeID, e.Steps)
}

// InvalidMeasurementError is returned for a measurement that cannot be
// placed on a curve.
type InvalidMeasurementError = growth.InvalidMeasurementError

// Classification is the immutable outcome of an assessment.
type Classification struct {
	RiskLevel       decision.RiskLevel `json:"risk_level"`
	Urgency         Urgency            `json:"urgency"`
	Recommendations []string           `json:"recommendations"`
	Score           float64            `json:"score"`

	ResultID  string             `json:"result_id"`
	BaseLevel decision.RiskLevel `json:"base_level"`
	Path      []string           `json:"path"`
	Symptoms  []string           `json:"symptoms"`
	Alerts    []Alert            `json:"alerts,omitempty"`
	Readings  []growth.Reading   `json:"readings,omitempty"`
	Vitals    []VitalReading     `json:"vitals,omitempty"`
}

// Escalated reports whether measurements or vitals raised the risk level
// above the decision-tree result.
func (c Classification) Escalated() bool { return c.RiskLevel > c.BaseLevel }

// Input is everything an assessment is computed from.
type Input struct {
	Session      *decision.Session
	Measurements []growth.Measurement
	Curves       growth.CurveSet
	Vitals       *Vitals
}

// Assess classifies a completed session together with its measurements.
func Assess(s *decision.Session, measurements []growth.Measurement, curves growth.CurveSet) (Classification, error) {
	return Evaluate(Input{Session: s, Measurements: measurements, Curves: curves})
}

// Evaluate is Assess with optional vital signs.
func Evaluate(in Input) (Classification, error) {
	s := in.Session
	if s == nil {
		return Classification{}, fmt.Errorf("assessment requires a session")
	}
	if !s.IsTerminal() {
		return Classification{}, &IncompleteAssessmentError{NodeID: s.CurrentNodeID, Steps: s.Steps()}
	}
	result := s.Current()

	var (
		alerts   []Alert
		readings []growth.Reading
	)
	for _, m := range in.Measurements {
		r, err := growth.Classify(in.Curves, m)
		if err != nil {
			return Classification{}, err
		}
		readings = append(readings, r)
		if a, ok := measurementAlert(r); ok {
			alerts = append(alerts, a)
		}
	}

	vitals, err := in.Vitals.readings()
	if err != nil {
		return Classification{}, err
	}
	alerts = append(alerts, vitalAlerts(in.Vitals, vitals)...)

	level := result.RiskLevel
	for _, a := range alerts {
		level = decision.MaxRisk(level, a.Floor)
	}

	recs := make([]string, 0, 1+len(result.Actions)+len(alerts))
	recs = appendUnique(recs, result.Recommendation)
	for _, act := range result.Actions {
		recs = appendUnique(recs, act)
	}
	for _, a := range alerts {
		recs = appendUnique(recs, a.Message)
	}

	trail := s.Trail()
	symptoms := make([]string, len(trail))
	for i, st := range trail {
		symptoms[i] = st.Value
	}

	return Classification{
		RiskLevel:       level,
		Urgency:         UrgencyFor(s.AccumulatedRisk),
		Recommendations: recs,
		Score:           s.AccumulatedRisk,
		ResultID:        result.ID,
		BaseLevel:       result.RiskLevel,
		Path:            append([]string(nil), s.VisitedPath...),
		Symptoms:        symptoms,
		Alerts:          alerts,
		Readings:        readings,
		Vitals:          vitals,
	}, nil
}


func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
