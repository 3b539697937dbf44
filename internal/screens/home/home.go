// Package home is the TUI start screen.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screen"
	"github.com/abhisek/imci/internal/screens/env"
	"github.com/abhisek/imci/internal/screens/role"
	"github.com/abhisek/imci/internal/screens/triage"
	"github.com/abhisek/imci/internal/ui/components"
	"github.com/abhisek/imci/internal/ui/layout"
	"github.com/abhisek/imci/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	env  *env.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(e *env.Env) *HomeScreen {
	h := &HomeScreen{env: e}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start assessment", Hint: "walk the IMCI flowchart", Action: func() tea.Cmd {
			return router.Push(triage.New(e))
		}},
		{Label: "Change role", Action: func() tea.Cmd {
			return router.Push(role.New(e))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.menu.Items[1].Hint = "current: " + h.env.Role.Name()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Integrated Management of Childhood Illness"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Triage support for children from birth to 5 years"))
	b.WriteString("\n\n")

	g := h.env.Graph
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Protocol: %s v%s (%d nodes)", g.Name(), g.Document().Version, g.Len())))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.RiskCritical).Render(
		"If the child has a danger sign, go to a health facility now."))

	card := theme.Card.Width(min(width-4, 72)).Render(b.String())
	return layout.Center(card, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
