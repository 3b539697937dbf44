package measure

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/reference"
	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screens/env"
	"github.com/abhisek/imci/internal/screens/result"
)

func newTestScreen(t *testing.T) *MeasureScreen {
	t.Helper()
	e := &env.Env{
		Graph:  decision.Default(),
		Curves: reference.Curves(),
		Role:   counsel.RoleCaregiver,
	}
	s, err := e.Graph.Replay([]string{"12-59_months", "no_danger", "ear_problem", "no_ear_signs"})
	if err != nil {
		t.Fatal(err)
	}
	m := New(e, s, nil)
	m.Init()
	return m
}

func typeText(m *MeasureScreen, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func tab(m *MeasureScreen, n int) {
	for range n {
		m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	}
}

func enter(m *MeasureScreen) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestEmptyFormClassifies(t *testing.T) {
	m := newTestScreen(t)
	cmd := enter(m)
	if cmd == nil {
		t.Fatalf("expected a push, got error %q", m.errMsg)
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*result.ResultScreen); !ok {
		t.Errorf("expected result screen, got %T", push.Screen)
	}
}

func TestNonNumericKeysIgnored(t *testing.T) {
	m := newTestScreen(t)
	typeText(m, "1a8.5.")
	if got := m.fields[fieldAge].Model.Value(); got != "18.5" {
		t.Errorf("expected 18.5, got %q", got)
	}
}

func TestMeasurementNeedsAge(t *testing.T) {
	m := newTestScreen(t)
	tab(m, fieldMUAC)
	typeText(m, "11")

	if cmd := enter(m); cmd != nil {
		t.Fatal("expected no push without an age")
	}
	if m.fields[fieldAge].Err == "" {
		t.Error("expected an error on the age field")
	}
}

func TestInputBuildsMeasurementsAndVitals(t *testing.T) {
	m := newTestScreen(t)
	typeText(m, "24")
	tab(m, fieldMUAC-fieldAge)
	typeText(m, "11")
	tab(m, fieldSpO2-fieldMUAC)
	typeText(m, "88")

	in, ok := m.input()
	if !ok {
		t.Fatal("expected valid input")
	}
	if len(in.Measurements) != 1 || in.Measurements[0].AgeMonths != 24 || in.Measurements[0].Value != 11 {
		t.Errorf("unexpected measurements: %+v", in.Measurements)
	}
	if in.Vitals == nil || in.Vitals.SpO2 == nil || *in.Vitals.SpO2 != 88 {
		t.Errorf("expected SpO2 88, got %+v", in.Vitals)
	}
	if in.Vitals.TemperatureC != nil {
		t.Error("blank fields must stay unset")
	}
}

func TestImplausibleVitalShowsError(t *testing.T) {
	m := newTestScreen(t)
	tab(m, fieldTemperature)
	typeText(m, "80")

	if cmd := enter(m); cmd != nil {
		t.Fatal("expected no push for an implausible temperature")
	}
	if m.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestTabWraps(t *testing.T) {
	m := newTestScreen(t)
	tab(m, fieldCount)
	if m.focus != fieldAge {
		t.Errorf("expected focus to wrap to the first field, got %d", m.focus)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.focus != fieldHeartRate {
		t.Errorf("expected shift+tab to wrap to the last field, got %d", m.focus)
	}
}
