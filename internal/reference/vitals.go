package reference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Metric names a vital sign the triage screen collects.
type Metric string

const (
	MetricTemperature     Metric = "temperature"
	MetricSpO2            Metric = "spo2"
	MetricRespiratoryRate Metric = "respiratory_rate"
	MetricHeartRate       Metric = "heart_rate"
)

// ParseMetric maps a user-supplied name to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "temperature", "temp", "t":
		return MetricTemperature, nil
	case "spo2", "oxygen", "oxygen_saturation", "sat":
		return MetricSpO2, nil
	case "respiratory_rate", "respiratory-rate", "rr":
		return MetricRespiratoryRate, nil
	case "heart_rate", "heart-rate", "hr", "pulse":
		return MetricHeartRate, nil
	default:
		return "", fmt.Errorf("unknown vital sign: %q", s)
	}
}

// Range is the half-open interval [Min, Max).
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v < r.Max }

// VitalRange describes how a vital sign is banded. Values outside Normal
// and Warning are danger; values outside Plausible are input errors.
type VitalRange struct {
	Metric    Metric `json:"metric"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Normal    Range  `json:"normal"`
	Warning   Range  `json:"warning"`
	Plausible Range  `json:"plausible"`
}

var vitalRanges = []VitalRange{
	{
		Metric: MetricTemperature, Name: "Temperature", Unit: "°C",
		Normal: Range{36.0, 37.5}, Warning: Range{37.5, 38.5}, Plausible: Range{30, 45.01},
	},
	{
		Metric: MetricSpO2, Name: "Oxygen saturation", Unit: "%",
		Normal: Range{95, 100.01}, Warning: Range{90, 95}, Plausible: Range{40, 100.01},
	},
	{
		Metric: MetricRespiratoryRate, Name: "Respiratory rate", Unit: "/min",
		Normal: Range{30, 51}, Warning: Range{51, 61}, Plausible: Range{5, 150},
	},
	{
		Metric: MetricHeartRate, Name: "Heart rate", Unit: "/min",
		Normal: Range{100, 161}, Warning: Range{161, 181}, Plausible: Range{30, 300.01},
	},
}

// VitalRanges returns the banding for every metric in display order.
func VitalRanges() []VitalRange {
	out := make([]VitalRange, len(vitalRanges))
	copy(out, vitalRanges)
	return out
}

// RangeFor returns the banding of one metric.
func RangeFor(m Metric) (VitalRange, bool) {
	for _, r := range vitalRanges {
		if r.Metric == m {
			return r, true
		}
	}
	return VitalRange{}, false
}

// Status is the band a vital-sign reading falls in.
type Status int

const (
	StatusNormal Status = iota
	StatusWarning
	StatusDanger
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusWarning:
		return "warning"
	case StatusDanger:
		return "danger"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ImplausibleVitalError is returned for a reading that cannot be a real
// measurement, such as a temperature of 80 °C.
type ImplausibleVitalError struct {
	Metric Metric
	Value  float64
}

func (e *ImplausibleVitalError) Error() string {
	return fmt.Sprintf("implausible %s reading: %g", e.Metric, e.Value)
}

// VitalStatus classifies a single vital-sign reading.
func VitalStatus(m Metric, value float64) (Status, error) {
	r, ok := RangeFor(m)
	if !ok {
		return StatusNormal, fmt.Errorf("unknown vital sign: %q", m)
	}
	if !r.Plausible.Contains(value) {
		return StatusDanger, &ImplausibleVitalError{Metric: m, Value: value}
	}
	switch {
	case r.Normal.Contains(value):
		return StatusNormal, nil
	case r.Warning.Contains(value):
		return StatusWarning, nil
	default:
		return StatusDanger, nil
	}
}

// Threshold is one row of the pediatric vitals and growth threshold table.
type Threshold struct {
	Metric    string `json:"metric"`
	AgeGroup  string `json:"age_group"`
	Threshold string `json:"threshold"`
	Action    string `json:"action"`
	Severity  string `json:"severity"`
}

var thresholds = []Threshold{
	{"Respiratory Rate", "2-11 months", "≥50/min", "Fast breathing - pneumonia", "moderate"},
	{"Respiratory Rate", "12-59 months", "≥40/min", "Fast breathing - pneumonia", "moderate"},
	{"Oxygen Saturation", "All ages", "<90%", "Severe hypoxia - admit", "critical"},
	{"Temperature", "All ages", "≥37.5°C", "Fever assessment", "mild"},
	{"MUAC", "6-59 months", "<11.5cm", "Severe acute malnutrition", "critical"},
	{"Weight-for-Height Z-score", "All ages", "<-3 SD", "Severe wasting", "critical"},
	{"Heart Rate", "2-11 months", ">160/min", "Tachycardia assessment", "moderate"},
	{"Heart Rate", "12-59 months", ">120/min", "Tachycardia assessment", "moderate"},
	{"Blood Pressure", "All ages", "Systolic <70 + (2×age in years)", "Hypotension - shock", "critical"},
}

// Thresholds returns the full threshold table.
func Thresholds() []Threshold {
	out := make([]Threshold, len(thresholds))
	copy(out, thresholds)
	return out
}

// SearchVitals returns the threshold rows whose metric, age group or action
// contains q, ignoring case. An empty query returns every row.
func SearchVitals(q string) []Threshold {
	var out []Threshold
	for _, t := range thresholds {
		if matches(q, t.Metric, t.AgeGroup, t.Action) {
			out = append(out, t)
		}
	}
	return out
}
