// Package layout composes the frame around every screen: a header bar
// with the active role, the screen body, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/ui/theme"
)

// Smallest terminal the measurement form fits in.
const (
	MinWidth  = 72
	MinHeight = 22
)

const brand = "IMCI Triage"

// KeyHint is one entry in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := theme.Body.Render(fmt.Sprintf(
		"The window is too small for the triage forms.\n\nNeed %d x %d, have %d x %d.",
		MinWidth, MinHeight, width, height,
	))
	return Center(msg, width, height)
}

// bar draws a full-width single-line strip with a bottom or top rule.
func bar(content string, width int, top bool) string {
	st := lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Background(theme.BgCard).
		BorderForeground(theme.Border)
	if top {
		st = st.Border(lipgloss.NormalBorder(), false, false, true, false)
	} else {
		st = st.Border(lipgloss.NormalBorder(), true, false, false, false)
	}
	return st.Render(content)
}

// RenderHeader shows the brand on the left, the screen title in the
// middle and status (role, counselling source) on the right.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(brand)
	mid := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	inner := max(width-4, 0)
	used := lipgloss.Width(left) + lipgloss.Width(mid) + lipgloss.Width(right)
	gap := max(inner-used, 2)
	lgap := max(gap/2, 1)

	return bar(left+strings.Repeat(" ", lgap)+mid+strings.Repeat(" ", max(gap-lgap, 1))+right, width, true)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(strings.Join(parts, "  ·  "), width, false)
}

// RenderFrame stacks header, body and footer, giving the body whatever
// height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Wrap soft-wraps text to width columns.
func Wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 10)).Render(text)
}
