// Package result shows a classification and its counselling.
package result

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screen"
	"github.com/abhisek/imci/internal/screens/env"
	"github.com/abhisek/imci/internal/ui/layout"
	"github.com/abhisek/imci/internal/ui/theme"
)

// adviceMsg carries counselling back from the background call.
type adviceMsg struct {
	advice counsel.Advice
}

// ResultScreen renders one classification.
type ResultScreen struct {
	env     *env.Env
	c       assessment.Classification
	restart func() screen.Screen
	advice  *counsel.Advice
	offset  int
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates the result screen. restart may be nil.
func New(e *env.Env, c assessment.Classification, restart func() screen.Screen) *ResultScreen {
	return &ResultScreen{env: e, c: c, restart: restart}
}

func (r *ResultScreen) Init() tea.Cmd {
	if r.env.Counsel == nil {
		adv := counsel.StaticAdvice(r.c, r.env.Role)
		r.advice = &adv
		return nil
	}
	svc, c, role := r.env.Counsel, r.c, r.env.Role
	return func() tea.Msg {
		return adviceMsg{advice: svc.Advise(context.Background(), c, role)}
	}
}

func (r *ResultScreen) Title() string { return "Result" }

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "n", Description: "New assessment"},
		{Key: "h", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceMsg:
		r.advice = &msg.advice
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			r.offset = max(r.offset-1, 0)
		case "down", "j":
			r.offset++
		case "n":
			var next screen.Screen
			if r.restart != nil {
				next = r.restart()
			}
			return r, func() tea.Msg { return router.ResetMsg{Screen: next} }
		case "h":
			return r, func() tea.Msg { return router.ResetMsg{} }
		}
	}
	return r, nil
}

func (r *ResultScreen) View(width, height int) string {
	cw := min(width-4, 90)
	lines := strings.Split(r.body(cw-6), "\n")

	// Card border and padding take four rows.
	visible := max(height-4, 1)
	r.offset = min(r.offset, max(len(lines)-visible, 0))
	lines = lines[r.offset:min(r.offset+visible, len(lines))]

	return layout.Center(theme.Card.Width(cw).Render(strings.Join(lines, "\n")), width, height)
}

func (r *ResultScreen) body(width int) string {
	c := r.c
	var b strings.Builder

	b.WriteString(theme.RiskBadge(c.RiskLevel) + "  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.UrgencyColor(c.Urgency)).Bold(true).Render(strings.ToUpper(c.Urgency.String())))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("   score %g", c.Score)))
	if c.Escalated() {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   raised from %s", c.BaseLevel)))
	}
	b.WriteString("\n")

	section(&b, "Recommendations")
	for _, rec := range c.Recommendations {
		b.WriteString(layout.Wrap("• "+rec, width) + "\n")
	}

	if len(c.Readings) > 0 || len(c.Vitals) > 0 {
		section(&b, "Measurements")
		for _, rd := range c.Readings {
			m := rd.Measurement
			fmt.Fprintf(&b, "%-16s %6.1f %-3s  %s  (%s)\n", m.Kind.DisplayName(), m.Value, m.Kind.Unit(),
				rd.Band.Label(), assessment.GrowthStatus(rd))
		}
		for _, v := range c.Vitals {
			st := lipgloss.NewStyle().Foreground(theme.StatusColor(v.Status)).Render(v.Status.String())
			fmt.Fprintf(&b, "%-16s %6.1f      %s\n", v.Metric, v.Value, st)
		}
	}

	if r.env.Role.Clinical() {
		section(&b, "Path")
		b.WriteString(theme.Hint.Render(layout.Wrap(strings.Join(c.Path, " → "), width)) + "\n")
	}

	section(&b, "Counselling")
	if r.advice == nil {
		b.WriteString(theme.Hint.Render("Preparing advice…") + "\n")
		return b.String()
	}
	a := r.advice
	b.WriteString(layout.Wrap(a.Summary, width) + "\n\n")
	if len(a.HomeCare) > 0 {
		b.WriteString(theme.Body.Bold(true).Render("Care at home") + "\n")
		for _, h := range a.HomeCare {
			b.WriteString(layout.Wrap("• "+h, width) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.RiskCritical).Bold(true).Render("Come back immediately if") + "\n")
	for _, w := range a.WarningSigns {
		b.WriteString(layout.Wrap("• "+w, width) + "\n")
	}
	b.WriteString("\n" + theme.Body.Render(a.FollowUp) + "\n")
	b.WriteString(theme.Hint.Render("Advice source: " + a.Source))
	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n" + theme.Heading.Render(title) + "\n")
}
