package assessment

import (
	"fmt"

	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
)

// Alert is a supplementary finding raised by a measurement or a vital sign.
// A zero Floor means the alert does not escalate the risk level.
type Alert struct {
	Code    string             `json:"code"`
	Source  string             `json:"source"`
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Floor   decision.RiskLevel `json:"floor,omitempty"`
}

type measurementRule struct {
	kind    growth.Kind
	match   func(r growth.Reading) bool
	code    string
	status  string
	message string
	floor   decision.RiskLevel
}

func bandIs(b growth.Band) func(growth.Reading) bool {
	return func(r growth.Reading) bool { return r.Band == b }
}

func muacBelow(cutoff float64) func(growth.Reading) bool {
	return func(r growth.Reading) bool {
		return reference.MUACApplies(r.Measurement.AgeMonths) && r.Measurement.Value < cutoff
	}
}

// measurementRules is evaluated in order; the first matching rule for a
// reading wins.
var measurementRules = []measurementRule{
	{
		kind: growth.KindMUAC, match: muacBelow(reference.MUACSevereCutoff),
		code: "severe_acute_malnutrition", status: "Severe acute malnutrition",
		message: "MUAC indicates severe acute malnutrition",
		floor:   decision.RiskCritical,
	},
	{
		kind: growth.KindMUAC, match: muacBelow(reference.MUACModerateCutoff),
		code: "moderate_acute_malnutrition", status: "Moderate acute malnutrition",
		message: "MUAC indicates moderate acute malnutrition",
		floor:   decision.RiskMedium,
	},
	{
		kind: growth.KindWeight, match: bandIs(growth.BandBelowP3),
		code: "severely_underweight", status: "Severely underweight",
		message: "Severely underweight: refer for nutritional assessment",
		floor:   decision.RiskHigh,
	},
	{
		kind: growth.KindWeight, match: bandIs(growth.BandP3ToP15),
		code: "underweight", status: "Underweight",
		message: "Underweight: monitor nutrition and feeding practices",
		floor:   decision.RiskMedium,
	},
	{
		kind: growth.KindWeight, match: bandIs(growth.BandAboveP97),
		code: "overweight", status: "Overweight",
		message: "Overweight: monitor for obesity and check feeding practices",
	},
	{
		kind: growth.KindHeight, match: bandIs(growth.BandBelowP3),
		code: "severely_stunted", status: "Severely stunted",
		message: "Severely stunted: chronic malnutrition requires intervention",
		floor:   decision.RiskMedium,
	},
	{
		kind: growth.KindHeight, match: bandIs(growth.BandP3ToP15),
		code: "stunted", status: "Stunted",
		message: "Stunted: chronic undernutrition, improve diet quality",
	},
}

// measurementAlert returns the alert for a reading, if any rule matches.
func measurementAlert(r growth.Reading) (Alert, bool) {
	for _, rule := range measurementRules {
		if rule.kind != r.Measurement.Kind || !rule.match(r) {
			continue
		}
		return Alert{
			Code:    rule.code,
			Source:  string(r.Measurement.Kind),
			Status:  rule.status,
			Message: rule.message,
			Floor:   rule.floor,
		}, true
	}
	return Alert{}, false
}

// GrowthStatus names the status of a reading the way growth charts label
// it, e.g. "Underweight" or "Normal height".
func GrowthStatus(r growth.Reading) string {
	if a, ok := measurementAlert(r); ok {
		return a.Status
	}
	switch r.Measurement.Kind {
	case growth.KindWeight:
		return "Normal weight"
	case growth.KindHeight:
		return "Normal height"
	case growth.KindMUAC:
		if !reference.MUACApplies(r.Measurement.AgeMonths) {
			return "MUAC not assessed outside 6-59 months"
		}
		return "Normal MUAC"
	default:
		return "Normal"
	}
}

// Vitals are optional caller-supplied vital signs. Nil fields were not
// measured.
type Vitals struct {
	AgeMonths       *float64 `json:"age_months,omitempty"`
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
	SpO2            *float64 `json:"spo2,omitempty"`
	RespiratoryRate *float64 `json:"respiratory_rate,omitempty"`
	HeartRate       *float64 `json:"heart_rate,omitempty"`
}

// VitalReading is one supplied vital sign with its band.
type VitalReading struct {
	Metric reference.Metric `json:"metric"`
	Value  float64          `json:"value"`
	Status reference.Status `json:"status"`
}

// readings returns the supplied vitals in a fixed order.
func (v *Vitals) readings() ([]VitalReading, error) {
	if v == nil {
		return nil, nil
	}
	fields := []struct {
		metric reference.Metric
		value  *float64
	}{
		{reference.MetricTemperature, v.TemperatureC},
		{reference.MetricSpO2, v.SpO2},
		{reference.MetricRespiratoryRate, v.RespiratoryRate},
		{reference.MetricHeartRate, v.HeartRate},
	}
	var out []VitalReading
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		st, err := reference.VitalStatus(f.metric, *f.value)
		if err != nil {
			return nil, err
		}
		out = append(out, VitalReading{Metric: f.metric, Value: *f.value, Status: st})
	}
	return out, nil
}

// vitalAlerts applies the danger-sign checks in a fixed order.
func vitalAlerts(v *Vitals, readings []VitalReading) []Alert {
	if v == nil {
		return nil
	}
	var alerts []Alert
	if t := v.TemperatureC; t != nil && *t >= reference.HighFeverCelsius {
		alerts = append(alerts, Alert{
			Code: "high_fever", Source: "vitals", Status: "High fever",
			Message: fmt.Sprintf("High fever (≥%.1f°C)", reference.HighFeverCelsius),
			Floor:   decision.RiskMedium,
		})
	}
	if s := v.SpO2; s != nil && *s < reference.HypoxiaSpO2 {
		alerts = append(alerts, Alert{
			Code: "severe_hypoxia", Source: "vitals", Status: "Severe hypoxia",
			Message: fmt.Sprintf("Severe hypoxia (SpO2 <%d%%)", reference.HypoxiaSpO2),
			Floor:   decision.RiskCritical,
		})
	}
	if rr := v.RespiratoryRate; rr != nil {
		if *rr > reference.SevereTachypneaPerMin {
			alerts = append(alerts, Alert{
				Code: "severe_tachypnea", Source: "vitals", Status: "Severe tachypnea",
				Message: fmt.Sprintf("Severe tachypnea (RR >%d)", reference.SevereTachypneaPerMin),
				Floor:   decision.RiskHigh,
			})
		} else if v.AgeMonths != nil {
			if cutoff, ok := reference.FastBreathingCutoff(*v.AgeMonths); ok && *rr >= float64(cutoff) {
				alerts = append(alerts, Alert{
					Code: "fast_breathing", Source: "vitals", Status: "Fast breathing",
					Message: fmt.Sprintf("Fast breathing for age (≥%d/min)", cutoff),
				})
			}
		}
	}
	for _, r := range readings {
		if r.Metric == reference.MetricHeartRate && r.Status == reference.StatusDanger {
			alerts = append(alerts, Alert{
				Code: "abnormal_heart_rate", Source: "vitals", Status: "Abnormal heart rate",
				Message: "Heart rate outside the expected range: assess for shock or sepsis",
			})
		}
	}
	return alerts
}
