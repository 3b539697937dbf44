// Package measure collects optional anthropometry and vital signs after
// the flowchart reaches a result.
package measure

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screen"
	"github.com/abhisek/imci/internal/screens/env"
	"github.com/abhisek/imci/internal/screens/result"
	"github.com/abhisek/imci/internal/ui/components"
	"github.com/abhisek/imci/internal/ui/layout"
	"github.com/abhisek/imci/internal/ui/theme"
)

// Field order on the form.
const (
	fieldAge = iota
	fieldWeight
	fieldHeight
	fieldMUAC
	fieldTemperature
	fieldSpO2
	fieldRespiratoryRate
	fieldHeartRate
	fieldCount
)

// MeasureScreen is the measurement form.
type MeasureScreen struct {
	env     *env.Env
	session *decision.Session
	restart func() screen.Screen
	fields  []components.NumberInput
	focus   int
	errMsg  string
}

var _ screen.Screen = (*MeasureScreen)(nil)
var _ screen.KeyHintProvider = (*MeasureScreen)(nil)
var _ screen.InputCapturer = (*MeasureScreen)(nil)

// New creates the form for a terminal session. restart builds the screen
// used for "new assessment" from the result.
func New(e *env.Env, s *decision.Session, restart func() screen.Screen) *MeasureScreen {
	m := &MeasureScreen{env: e, session: s, restart: restart}
	m.fields = make([]components.NumberInput, fieldCount)
	m.fields[fieldAge] = components.NewNumberInput("Age", "months", "e.g. 18")
	m.fields[fieldWeight] = components.NewNumberInput("Weight", "kg", "optional")
	m.fields[fieldHeight] = components.NewNumberInput("Height/length", "cm", "optional")
	m.fields[fieldMUAC] = components.NewNumberInput("MUAC", "cm", "6-59 months")
	m.fields[fieldTemperature] = components.NewNumberInput("Temperature", "°C", "optional")
	m.fields[fieldSpO2] = components.NewNumberInput("SpO2", "%", "optional")
	m.fields[fieldRespiratoryRate] = components.NewNumberInput("Respiratory rate", "/min", "optional")
	m.fields[fieldHeartRate] = components.NewNumberInput("Heart rate", "/min", "optional")
	return m
}

func (m *MeasureScreen) Init() tea.Cmd {
	return m.fields[m.focus].Focus()
}

func (m *MeasureScreen) Title() string { return "Measurements" }

func (m *MeasureScreen) CapturesInput() bool { return true }

func (m *MeasureScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
		{Key: "Enter", Description: "Classify"},
		{Key: "Esc", Description: "Back"},
	}
}

func (m *MeasureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return m, m.move(1)
		case "shift+tab", "up":
			return m, m.move(-1)
		case "enter":
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	m.errMsg = ""
	return m, cmd
}

func (m *MeasureScreen) move(delta int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m.fields[m.focus].Focus()
}

// input reads the form. Field-level problems are attached to the field.
func (m *MeasureScreen) input() (assessment.Input, bool) {
	in := assessment.Input{Session: m.session, Curves: m.env.Curves}
	values := make([]*float64, fieldCount)
	valid := true
	for i := range m.fields {
		v, ok, err := m.fields[i].Float()
		if err != nil {
			m.fields[i].Err = "not a number"
			valid = false
			continue
		}
		if ok {
			values[i] = &v
		}
	}
	if !valid {
		return in, false
	}

	kinds := map[int]growth.Kind{
		fieldWeight: growth.KindWeight,
		fieldHeight: growth.KindHeight,
		fieldMUAC:   growth.KindMUAC,
	}
	for _, f := range []int{fieldWeight, fieldHeight, fieldMUAC} {
		if values[f] == nil {
			continue
		}
		if values[fieldAge] == nil {
			m.fields[fieldAge].Err = "required for growth measurements"
			return in, false
		}
		in.Measurements = append(in.Measurements, growth.Measurement{
			Kind: kinds[f], AgeMonths: *values[fieldAge], Value: *values[f],
		})
	}

	vitals := &assessment.Vitals{
		AgeMonths:       values[fieldAge],
		TemperatureC:    values[fieldTemperature],
		SpO2:            values[fieldSpO2],
		RespiratoryRate: values[fieldRespiratoryRate],
		HeartRate:       values[fieldHeartRate],
	}
	if vitals.TemperatureC != nil || vitals.SpO2 != nil || vitals.RespiratoryRate != nil || vitals.HeartRate != nil {
		in.Vitals = vitals
	}
	return in, true
}

func (m *MeasureScreen) submit() tea.Cmd {
	in, ok := m.input()
	if !ok {
		return nil
	}
	c, err := assessment.Evaluate(in)
	if err != nil {
		m.errMsg = err.Error()
		var implausible *reference.ImplausibleVitalError
		if errors.As(err, &implausible) {
			m.errMsg = "Check the reading: " + err.Error()
		}
		return nil
	}
	return router.Push(result.New(m.env, c, m.restart))
}

func (m *MeasureScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Measurements and vital signs"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("All fields are optional. Leave blank anything you did not measure."))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		if i == fieldTemperature {
			b.WriteString("\n")
		}
		b.WriteString(f.View(18))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n" + theme.Invalid.Render(m.errMsg))
	}
	return layout.Center(theme.Card.Width(min(width-4, 80)).Render(b.String()), width, height)
}
