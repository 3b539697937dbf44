package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
)

func ptr(v float64) *float64 { return &v }

func scenarioGraph(t *testing.T) *decision.Graph {
	t.Helper()
	g, err := decision.NewGraph("q", []decision.Node{
		decision.Question("q", "Pick one",
			decision.Option{Label: "A", Value: "A", RiskDelta: 10, Next: "terminalCritical"},
			decision.Option{Label: "B", Value: "B", RiskDelta: 0, Next: "terminalLow"},
		),
		decision.Result("terminalCritical", decision.RiskCritical, "Refer now", "Transport"),
		decision.Result("terminalLow", decision.RiskLow, "Home care", "Fluids"),
	})
	require.NoError(t, err)
	return g
}

func answered(t *testing.T, g *decision.Graph, values ...string) *decision.Session {
	t.Helper()
	s, err := g.Replay(values)
	require.NoError(t, err)
	return s
}

func TestAssess_CriticalScenario(t *testing.T) {
	s := answered(t, scenarioGraph(t), "A")
	require.True(t, s.IsTerminal())

	c, err := Assess(s, nil, reference.Curves())
	require.NoError(t, err)
	assert.Equal(t, decision.RiskCritical, c.RiskLevel)
	assert.Equal(t, UrgencyEmergency, c.Urgency)
	assert.Equal(t, 10.0, c.Score)
	assert.Equal(t, []string{"Refer now", "Transport"}, c.Recommendations)
	assert.Equal(t, []string{"A"}, c.Symptoms)
}

func TestAssess_IncompleteSession(t *testing.T) {
	s := scenarioGraph(t).Start()
	_, err := Assess(s, nil, reference.Curves())
	var incomplete *IncompleteAssessmentError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "q", incomplete.NodeID)
}

func TestAssess_SevereMUACForcesCritical(t *testing.T) {
	s := answered(t, scenarioGraph(t), "B")
	m := growth.Measurement{Kind: growth.KindMUAC, AgeMonths: 24, Value: 11.0}

	c, err := Assess(s, []growth.Measurement{m}, reference.Curves())
	require.NoError(t, err)
	require.Len(t, c.Readings, 1)
	assert.Equal(t, growth.BandBelowP3, c.Readings[0].Band)
	assert.Equal(t, decision.RiskCritical, c.RiskLevel)
	assert.Equal(t, decision.RiskLow, c.BaseLevel)
	assert.True(t, c.Escalated())
	assert.Contains(t, c.Recommendations[len(c.Recommendations)-1], "severe acute malnutrition")
	assert.Equal(t, UrgencyRoutine, c.Urgency, "urgency follows the score only")
}

func TestAssess_ModerateMUACFloorsMedium(t *testing.T) {
	s := answered(t, scenarioGraph(t), "B")
	c, err := Assess(s, []growth.Measurement{{Kind: growth.KindMUAC, AgeMonths: 18, Value: 12.0}}, reference.Curves())
	require.NoError(t, err)
	assert.Equal(t, decision.RiskMedium, c.RiskLevel)
	require.Len(t, c.Alerts, 1)
	assert.Equal(t, "moderate_acute_malnutrition", c.Alerts[0].Code)
}

func TestAssess_MUACOutsideAgeWindowIgnored(t *testing.T) {
	s := answered(t, scenarioGraph(t), "B")
	c, err := Assess(s, []growth.Measurement{{Kind: growth.KindMUAC, AgeMonths: 4, Value: 11.0}}, reference.Curves())
	require.NoError(t, err)
	assert.Equal(t, decision.RiskLow, c.RiskLevel)
	assert.Empty(t, c.Alerts)
}

func TestAssess_MeasurementRuleTable(t *testing.T) {
	tests := []struct {
		name      string
		m         growth.Measurement
		wantCode  string
		wantLevel decision.RiskLevel
	}{
		{"severely underweight", growth.Measurement{Kind: growth.KindWeight, AgeMonths: 12, Value: 7.0}, "severely_underweight", decision.RiskHigh},
		{"underweight", growth.Measurement{Kind: growth.KindWeight, AgeMonths: 12, Value: 8.0}, "underweight", decision.RiskMedium},
		{"normal weight", growth.Measurement{Kind: growth.KindWeight, AgeMonths: 12, Value: 10.2}, "", decision.RiskLow},
		{"overweight", growth.Measurement{Kind: growth.KindWeight, AgeMonths: 12, Value: 15.0}, "overweight", decision.RiskLow},
		{"severely stunted", growth.Measurement{Kind: growth.KindHeight, AgeMonths: 24, Value: 75.0}, "severely_stunted", decision.RiskMedium},
		{"stunted", growth.Measurement{Kind: growth.KindHeight, AgeMonths: 24, Value: 79.0}, "stunted", decision.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := answered(t, scenarioGraph(t), "B")
			c, err := Assess(s, []growth.Measurement{tt.m}, reference.Curves())
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, c.RiskLevel)
			if tt.wantCode == "" {
				assert.Empty(t, c.Alerts)
				return
			}
			require.Len(t, c.Alerts, 1)
			assert.Equal(t, tt.wantCode, c.Alerts[0].Code)
		})
	}
}

func TestAssess_FloorsNeverLowerTheResult(t *testing.T) {
	s := answered(t, scenarioGraph(t), "A")
	c, err := Assess(s, []growth.Measurement{{Kind: growth.KindWeight, AgeMonths: 12, Value: 8.0}}, reference.Curves())
	require.NoError(t, err)
	assert.Equal(t, decision.RiskCritical, c.RiskLevel)
	assert.False(t, c.Escalated())
}

func TestAssess_SameDayScenario(t *testing.T) {
	g, err := decision.NewGraph("a", []decision.Node{
		decision.Question("a", "First", decision.Option{Label: "x", Value: "x", RiskDelta: 3, Next: "b"}),
		decision.Question("b", "Second", decision.Option{Label: "y", Value: "y", RiskDelta: 1, Next: "r"}),
		decision.Result("r", decision.RiskMedium, "Follow up"),
	})
	require.NoError(t, err)

	c, err := Assess(answered(t, g, "x", "y"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.Score)
	assert.Equal(t, UrgencySameDay, c.Urgency)
}

func TestAssess_Deterministic(t *testing.T) {
	s := answered(t, decision.Default(), "12-59_months", "no_danger", "diarrhea", "acute_diarrhea", "some_dehydration")
	ms := []growth.Measurement{
		{Kind: growth.KindWeight, AgeMonths: 30, Value: 10.5},
		{Kind: growth.KindHeight, AgeMonths: 30, Value: 84},
		{Kind: growth.KindMUAC, AgeMonths: 30, Value: 12.2},
	}
	in := Input{Session: s, Measurements: ms, Curves: reference.Curves(), Vitals: &Vitals{
		AgeMonths: ptr(30), TemperatureC: ptr(38.7), SpO2: ptr(96), RespiratoryRate: ptr(45), HeartRate: ptr(130),
	}}

	first, err := Evaluate(in)
	require.NoError(t, err)
	second, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))

	assert.Equal(t, UrgencyEmergency, first.Urgency)
	assert.Equal(t, "some_dehydration_result", first.ResultID)
}

func TestUrgencyFor_Breakpoints(t *testing.T) {
	tests := []struct {
		score float64
		want  Urgency
	}{
		{0, UrgencyRoutine},
		{2.9, UrgencyRoutine},
		{3, UrgencySameDay},
		{5.9, UrgencySameDay},
		{6, UrgencyUrgent},
		{9.9, UrgencyUrgent},
		{10, UrgencyEmergency},
		{42, UrgencyEmergency},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UrgencyFor(tt.score), "score %v", tt.score)
	}
}

func TestEvaluate_Vitals(t *testing.T) {
	tests := []struct {
		name      string
		vitals    Vitals
		wantCodes []string
		wantLevel decision.RiskLevel
	}{
		{"hypoxia", Vitals{SpO2: ptr(85)}, []string{"severe_hypoxia"}, decision.RiskCritical},
		{"high fever", Vitals{TemperatureC: ptr(38.5)}, []string{"high_fever"}, decision.RiskMedium},
		{"severe tachypnea", Vitals{RespiratoryRate: ptr(65)}, []string{"severe_tachypnea"}, decision.RiskHigh},
		{"fast breathing for age", Vitals{AgeMonths: ptr(8), RespiratoryRate: ptr(52)}, []string{"fast_breathing"}, decision.RiskLow},
		{"heart rate danger", Vitals{HeartRate: ptr(190)}, []string{"abnormal_heart_rate"}, decision.RiskLow},
		{"all normal", Vitals{TemperatureC: ptr(36.9), SpO2: ptr(98), RespiratoryRate: ptr(35), HeartRate: ptr(120)}, nil, decision.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.vitals
			c, err := Evaluate(Input{Session: answered(t, scenarioGraph(t), "B"), Vitals: &v})
			require.NoError(t, err)
			var codes []string
			for _, a := range c.Alerts {
				codes = append(codes, a.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
			assert.Equal(t, tt.wantLevel, c.RiskLevel)
		})
	}
}

func TestEvaluate_InputErrors(t *testing.T) {
	s := answered(t, scenarioGraph(t), "B")

	_, err := Evaluate(Input{Session: s, Vitals: &Vitals{TemperatureC: ptr(90)}})
	var implausible *reference.ImplausibleVitalError
	assert.ErrorAs(t, err, &implausible)

	_, err = Assess(s, []growth.Measurement{{Kind: growth.KindWeight, AgeMonths: 12, Value: -1}}, reference.Curves())
	var invalid *InvalidMeasurementError
	assert.ErrorAs(t, err, &invalid)

	_, err = Assess(s, []growth.Measurement{{Kind: growth.KindWeight, AgeMonths: 12, Value: 9}}, growth.CurveSet{})
	var noCurve *growth.ErrNoCurve
	assert.ErrorAs(t, err, &noCurve)
}

func TestGrowthStatus(t *testing.T) {
	r, err := growth.Classify(reference.Curves(), growth.Measurement{Kind: growth.KindWeight, AgeMonths: 12, Value: 8.0})
	require.NoError(t, err)
	assert.Equal(t, "Underweight", GrowthStatus(r))

	r, err = growth.Classify(reference.Curves(), growth.Measurement{Kind: growth.KindHeight, AgeMonths: 12, Value: 76})
	require.NoError(t, err)
	assert.Equal(t, "Normal height", GrowthStatus(r))
}
