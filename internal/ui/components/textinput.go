package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/ui/theme"
)

// NumberInput is a labelled text input that accepts decimal numbers.
type NumberInput struct {
	Label string
	Unit  string
	Model textinput.Model
	Err   string
}

// NewNumberInput creates an unfocused numeric field.
func NewNumberInput(label, unit, placeholder string) NumberInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 6
	return NumberInput{Label: label, Unit: unit, Model: ti}
}

// Focus focuses the field.
func (n *NumberInput) Focus() tea.Cmd {
	return n.Model.Focus()
}

// Blur removes focus from the field.
func (n *NumberInput) Blur() {
	n.Model.Blur()
}

// Update forwards messages to the field, dropping keys that cannot be
// part of a decimal number.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && !isNumberKey(key[0], n.Model.Value()) {
			return n, nil
		}
	}

	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	n.Err = ""
	return n, cmd
}

func isNumberKey(c byte, current string) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.':
		return !strings.Contains(current, ".")
	}
	return false
}

// View renders the label, field and any validation error on one line.
func (n NumberInput) View(labelWidth int) string {
	label := lipgloss.NewStyle().Width(labelWidth).Foreground(theme.Text)
	if n.Model.Focused() {
		label = label.Foreground(theme.Primary).Bold(true)
	}
	line := label.Render(n.Label) + " " + n.Model.View()
	if n.Unit != "" {
		line += " " + theme.Hint.Render(n.Unit)
	}
	if n.Err != "" {
		line += "  " + theme.Invalid.Render(n.Err)
	}
	return line
}

// Empty reports whether nothing has been typed.
func (n NumberInput) Empty() bool {
	return strings.TrimSpace(n.Model.Value()) == ""
}

// Float parses the field. ok is false for an empty field.
func (n NumberInput) Float() (v float64, ok bool, err error) {
	raw := strings.TrimSpace(n.Model.Value())
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	return v, err == nil, err
}
