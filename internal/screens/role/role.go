// Package role lets the user pick who they are, which changes how
// counselling is worded.
package role

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screen"
	"github.com/abhisek/imci/internal/screens/env"
	"github.com/abhisek/imci/internal/ui/components"
	"github.com/abhisek/imci/internal/ui/layout"
	"github.com/abhisek/imci/internal/ui/theme"
)

type roleSavedMsg struct {
	err error
}

// RoleScreen lists the roles.
type RoleScreen struct {
	env    *env.Env
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*RoleScreen)(nil)

// New creates the role screen with the current role selected.
func New(e *env.Env) *RoleScreen {
	s := &RoleScreen{env: e}
	var (
		items    []components.MenuItem
		selected int
	)
	for i, r := range counsel.AllRoles() {
		items = append(items, components.MenuItem{
			Label:  r.Name(),
			Hint:   r.Description(),
			Action: func() tea.Cmd { return s.save(r) },
		})
		if r == e.Role {
			selected = i
		}
	}
	s.menu = components.NewMenu(items)
	s.menu.Selected = selected
	return s
}

func (s *RoleScreen) save(r counsel.Role) tea.Cmd {
	return func() tea.Msg {
		return roleSavedMsg{err: s.env.SetRole(context.Background(), r)}
	}
}

func (s *RoleScreen) Init() tea.Cmd { return nil }

func (s *RoleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(roleSavedMsg); ok {
		if m.err != nil {
			s.errMsg = "Could not save role: " + m.err.Error()
			return s, nil
		}
		return s, router.Pop()
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *RoleScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Who is using IMCI Triage?"))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("The role changes how advice is worded, never the classification."))
	if s.errMsg != "" {
		b.WriteString("\n\n" + theme.Invalid.Render(s.errMsg))
	}
	return layout.Center(theme.Card.Render(b.String()), width, height)
}

func (s *RoleScreen) Title() string { return "Role" }
