package counsel

import "github.com/abhisek/imci/internal/llm"

// AdviceSchema is the structured output requested from the model.
var AdviceSchema = &llm.Schema{
	Name:        "imci-counselling",
	Description: "Counselling for the caregiver of a sick child after an IMCI assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentences explaining the assessment result",
			},
			"home_care": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3-6 concrete home care instructions",
			},
			"warning_signs": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Signs that mean the child must be brought back immediately",
			},
			"follow_up": map[string]any{
				"type":        "string",
				"description": "When to return for a follow-up visit",
			},
		},
		"required":             []any{"summary", "home_care", "warning_signs", "follow_up"},
		"additionalProperties": false,
	},
}
