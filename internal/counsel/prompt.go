package counsel

import (
	"fmt"
	"strings"

	"github.com/abhisek/imci/internal/assessment"
)

const caregiverSystemPrompt = `You are a community health educator following the WHO IMCI guidelines. You explain an assessment result to the parent or caregiver of a sick child in short, plain sentences that need no medical training to follow.`

const clinicalSystemPrompt = `You are a clinical mentor following the WHO IMCI chart booklet. You help a health worker counsel the caregiver after an IMCI assessment. Use IMCI terminology.`

func systemPrompt(role Role) string {
	if role.Clinical() {
		return clinicalSystemPrompt
	}
	return caregiverSystemPrompt
}

func buildUserMessage(c assessment.Classification, role Role) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Result: %s\n", c.ResultID)
	fmt.Fprintf(&b, "Risk level: %s\n", c.RiskLevel)
	fmt.Fprintf(&b, "Urgency: %s\n", c.Urgency)
	fmt.Fprintf(&b, "Answers: %s\n", strings.Join(c.Symptoms, ", "))

	b.WriteString("\nRecommendations (already decided, do not change them):\n")
	for _, r := range c.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	if len(c.Alerts) > 0 {
		b.WriteString("\nFindings from measurements and vital signs:\n")
		for _, a := range c.Alerts {
			fmt.Fprintf(&b, "- %s (%s)\n", a.Status, a.Source)
		}
	}

	audience := "the caregiver directly"
	if role.Clinical() {
		audience = "the health worker, who will relay it to the caregiver"
	}
	fmt.Fprintf(&b, `
Instructions:
Write counselling addressed to %s.
1. Summarise the result in 2-3 sentences. Do not contradict the risk level, urgency or recommendations above.
2. Give 3-6 home care instructions that are safe for this result. If the child must be referred, focus on care during transport.
3. List the signs that mean the child must be brought back immediately.
4. State when to return for follow-up.
5. Never suggest medicines or doses that are not in the recommendations.`, audience)

	return b.String()
}
