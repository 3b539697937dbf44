package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/ui/theme"
)

// OptionChosenMsg is emitted when an option is picked.
type OptionChosenMsg struct {
	Option decision.Option
}

// OptionList renders the options of one question node.
type OptionList struct {
	Options   []decision.Option
	Selected  int
	ShowDelta bool
}

// NewOptionList creates a list for the given options.
func NewOptionList(options []decision.Option, showDelta bool) OptionList {
	return OptionList{Options: options, ShowDelta: showDelta}
}

// Update moves the cursor and picks an option with enter or its number.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(o.Options) == 0 {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	case "enter":
		return o, o.choose(o.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if idx := int(key[0] - '1'); idx < len(o.Options) {
				o.Selected = idx
				return o, o.choose(idx)
			}
		}
	}
	return o, nil
}

func (o OptionList) choose(i int) tea.Cmd {
	opt := o.Options[i]
	return func() tea.Msg { return OptionChosenMsg{Option: opt} }
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		style := theme.Unselected
		if i == o.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%d. %s", prefix, i+1, opt.Label)
		b.WriteString(style.Render(line))
		if o.ShowDelta && opt.RiskDelta != 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("  +%g", opt.RiskDelta)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
