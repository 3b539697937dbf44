// Package triage walks the IMCI flowchart one question at a time.
package triage

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screen"
	"github.com/abhisek/imci/internal/screens/env"
	"github.com/abhisek/imci/internal/screens/measure"
	"github.com/abhisek/imci/internal/ui/components"
	"github.com/abhisek/imci/internal/ui/layout"
	"github.com/abhisek/imci/internal/ui/theme"
)

// TriageScreen owns one assessment session.
type TriageScreen struct {
	env     *env.Env
	session *decision.Session
	options components.OptionList
	errMsg  string
}

var _ screen.Screen = (*TriageScreen)(nil)
var _ screen.KeyHintProvider = (*TriageScreen)(nil)

// New starts a fresh session on the environment's graph.
func New(e *env.Env) *TriageScreen {
	s := &TriageScreen{env: e}
	s.setSession(e.Graph.Start())
	return s
}

func (s *TriageScreen) setSession(sess *decision.Session) {
	s.session = sess
	s.errMsg = ""
	s.options = components.NewOptionList(sess.Current().Options, s.env.Role.Clinical())
}

func (s *TriageScreen) Init() tea.Cmd { return nil }

func (s *TriageScreen) Title() string { return "Assessment" }

func (s *TriageScreen) KeyHints() []layout.KeyHint {
	if s.session.IsTerminal() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Measurements"},
			{Key: "Bksp", Description: "Change last answer"},
			{Key: "r", Description: "Restart"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-9", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Bksp", Description: "Undo"},
		{Key: "r", Description: "Restart"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *TriageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.OptionChosenMsg:
		return s.answer(msg.Option.Value)

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			s.setSession(s.session.Reset())
			return s, nil
		case "backspace", "u":
			s.undo()
			return s, nil
		case "enter":
			if s.session.IsTerminal() {
				return s, s.toMeasurements()
			}
		}
	}

	if s.session.IsTerminal() {
		return s, nil
	}
	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

func (s *TriageScreen) answer(value string) (screen.Screen, tea.Cmd) {
	if err := s.session.Answer(value); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.setSession(s.session)
	if s.session.IsTerminal() {
		return s, s.toMeasurements()
	}
	return s, nil
}

// undo replays every answer but the last onto a fresh session.
func (s *TriageScreen) undo() {
	trail := s.session.Trail()
	if len(trail) == 0 {
		return
	}
	values := make([]string, len(trail)-1)
	for i := range values {
		values[i] = trail[i].Value
	}
	sess, err := s.env.Graph.Replay(values)
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.setSession(sess)
}

func (s *TriageScreen) toMeasurements() tea.Cmd {
	restart := func() screen.Screen { return New(s.env) }
	return router.Push(measure.New(s.env, s.session.Clone(), restart))
}

func (s *TriageScreen) View(width, height int) string {
	cw := min(width-4, 80)
	var b strings.Builder

	steps := s.session.Steps()
	depth := max(s.env.Graph.MaxDepth(), 1)
	pct := float64(steps) / float64(depth)
	if s.session.IsTerminal() {
		pct = 1
	}
	b.WriteString(components.NewProgressBar("Progress", pct, fmt.Sprintf("step %d", steps+1), cw-4).View())
	b.WriteString("\n")

	score := s.session.AccumulatedRisk
	u := assessment.UrgencyFor(score)
	b.WriteString(theme.Subtitle.Render("Risk score ") +
		lipgloss.NewStyle().Foreground(theme.UrgencyColor(u)).Bold(true).Render(fmt.Sprintf("%g (%s)", score, u)))
	b.WriteString("\n\n")

	if trail := s.session.Trail(); len(trail) > 0 {
		for _, st := range trail {
			b.WriteString(theme.Hint.Render("✓ " + st.Label))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	node := s.session.Current()
	if node.IsResult() {
		b.WriteString(theme.Heading.Render("Flowchart complete"))
		b.WriteString("\n")
		b.WriteString(theme.RiskBadge(node.RiskLevel) + " " + theme.Body.Render(node.Recommendation))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter to add measurements and vital signs."))
	} else {
		b.WriteString(theme.Heading.Render(layout.Wrap(node.Prompt, cw-4)))
		b.WriteString("\n\n")
		b.WriteString(s.options.View())
	}

	if s.errMsg != "" {
		b.WriteString("\n" + theme.Invalid.Render(s.errMsg))
	}

	return layout.Center(theme.Card.Width(cw).Render(b.String()), width, height)
}
