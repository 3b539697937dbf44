package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/reference"
)

// Color palette. Clinical status colours follow the IMCI chart booklet:
// green for home care, yellow for treatment, pink for urgent referral.
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	RiskLow      = lipgloss.Color("#22C55E")
	RiskMedium   = lipgloss.Color("#EAB308")
	RiskHigh     = lipgloss.Color("#F97316")
	RiskCritical = lipgloss.Color("#EC4899")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Heading = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Invalid = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// RiskColor maps a risk level to its chart colour.
func RiskColor(r decision.RiskLevel) color.Color {
	switch r {
	case decision.RiskCritical:
		return RiskCritical
	case decision.RiskHigh:
		return RiskHigh
	case decision.RiskMedium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskBadge renders a risk level as a coloured label.
func RiskBadge(r decision.RiskLevel) string {
	return lipgloss.NewStyle().
		Foreground(BgDark).
		Background(RiskColor(r)).
		Bold(true).
		Padding(0, 1).
		Render(r.String())
}

// UrgencyColor maps an urgency to the colour of the matching risk level.
func UrgencyColor(u assessment.Urgency) color.Color {
	switch u {
	case assessment.UrgencyEmergency:
		return RiskCritical
	case assessment.UrgencyUrgent:
		return RiskHigh
	case assessment.UrgencySameDay:
		return RiskMedium
	default:
		return RiskLow
	}
}

// StatusColor maps a vital-sign status to a colour.
func StatusColor(s reference.Status) color.Color {
	switch s {
	case reference.StatusDanger:
		return RiskCritical
	case reference.StatusWarning:
		return RiskMedium
	default:
		return RiskLow
	}
}
