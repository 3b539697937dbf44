package counsel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/growth"
)

// generalDangerSigns are the IMCI "return immediately" signs given to
// every caregiver.
var generalDangerSigns = []string{
	"Not able to drink or breastfeed",
	"Vomits everything",
	"Has convulsions",
	"Becomes lethargic or difficult to wake",
	"Breathing becomes fast or difficult",
}

// followUpDays is the IMCI follow-up interval per result, for results
// managed at home or in outpatient care.
var followUpDays = map[string]int{
	"pneumonia":                  3,
	"malaria":                    3,
	"fever_no_malaria":           3,
	"acute_ear_infection":        5,
	"chronic_ear_infection":      5,
	"persistent_diarrhea_result": 5,
	"some_dehydration_result":    5,
	"no_dehydration_result":      5,
	"moderate_malnutrition":      14,
	"chronic_cough":              14,
}

// StaticAdvice builds deterministic counselling from a classification.
// It is used when no model is configured or the model call fails.
func StaticAdvice(c assessment.Classification, role Role) Advice {
	a := Advice{
		Summary:      staticSummary(c, role),
		WarningSigns: append([]string(nil), generalDangerSigns...),
		FollowUp:     staticFollowUp(c),
		Source:       SourceStatic,
	}

	switch {
	case c.Urgency >= assessment.UrgencyUrgent:
		a.HomeCare = []string{
			"Keep the child warm on the way to the facility",
			"Keep breastfeeding or giving sips of fluid if the child can drink",
		}
	default:
		a.HomeCare = []string{
			"Continue breastfeeding and feeding, offering small frequent meals",
			"Give extra fluids, especially if the child has diarrhoea",
		}
		if slices.Contains(c.Symptoms, "diarrhea") {
			a.HomeCare = append(a.HomeCare, "Give ORS after each loose stool")
			a.WarningSigns = append(a.WarningSigns, "Blood in the stool")
		}
		if slices.Contains(c.Symptoms, "cough_breathing") {
			a.HomeCare = append(a.HomeCare, "Soothe the throat with a safe remedy such as warm water")
		}
		if slices.Contains(c.Symptoms, "fever") {
			a.HomeCare = append(a.HomeCare, "Use a bed net if you live in a malaria area")
		}
	}

	for _, al := range c.Alerts {
		if al.Source == string(growth.KindMUAC) || al.Source == string(growth.KindWeight) {
			a.HomeCare = append(a.HomeCare, "Bring the child for feeding assessment and growth monitoring")
			break
		}
	}
	return a
}

func staticSummary(c assessment.Classification, role Role) string {
	headline := ""
	if len(c.Recommendations) > 0 {
		headline = c.Recommendations[0]
	}
	if role.Clinical() {
		s := fmt.Sprintf("%s. Risk %s, urgency %s (score %g).", strings.TrimSuffix(headline, "."), c.RiskLevel, c.Urgency, c.Score)
		if c.Escalated() {
			s += fmt.Sprintf(" Escalated from %s by measurements or vitals.", c.BaseLevel)
		}
		return s
	}

	switch c.Urgency {
	case assessment.UrgencyEmergency:
		return "Your child needs emergency care. Go to the nearest hospital now."
	case assessment.UrgencyUrgent:
		return "Your child needs to be seen at a health facility today."
	case assessment.UrgencySameDay:
		return "Your child should be checked by a health worker today. Follow the advice below until then."
	}
	return "Your child can be cared for at home. Follow the advice below and watch for danger signs."
}

func staticFollowUp(c assessment.Classification) string {
	switch c.Urgency {
	case assessment.UrgencyEmergency:
		return "Go to hospital immediately."
	case assessment.UrgencyUrgent:
		return "Visit a health facility today."
	}
	if d, ok := followUpDays[c.ResultID]; ok {
		return fmt.Sprintf("Return for a follow-up visit in %d days.", d)
	}
	return "Return if the child is not better in 5 days."
}
