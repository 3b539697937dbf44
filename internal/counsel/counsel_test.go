package counsel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/llm"
	"github.com/abhisek/imci/internal/store"
)

func classify(t *testing.T, answers ...string) assessment.Classification {
	t.Helper()
	s, err := decision.Default().Replay(answers)
	require.NoError(t, err)
	c, err := assessment.Assess(s, nil, nil)
	require.NoError(t, err)
	return c
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"caregiver", RoleCaregiver},
		{"healthWorker", RoleHealthWorker},
		{"health-worker", RoleHealthWorker},
		{"health_worker", RoleHealthWorker},
		{"Admin", RoleAdmin},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseRole("doctor")
	assert.Error(t, err)
}

func TestRolePersistence(t *testing.T) {
	s, err := store.Open("file:counsel_roles?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	r, err := LoadRole(ctx, s.Settings())
	require.NoError(t, err)
	assert.Equal(t, RoleCaregiver, r, "default role")

	require.NoError(t, SaveRole(ctx, s.Settings(), RoleHealthWorker))
	r, err = LoadRole(ctx, s.Settings())
	require.NoError(t, err)
	assert.Equal(t, RoleHealthWorker, r)

	assert.Error(t, SaveRole(ctx, s.Settings(), Role("nurse")))
}

func TestStaticAdvice(t *testing.T) {
	emergency := classify(t, "12-59_months", "unconscious")
	a := StaticAdvice(emergency, RoleCaregiver)
	assert.Equal(t, SourceStatic, a.Source)
	assert.Contains(t, a.Summary, "emergency care")
	assert.Equal(t, "Go to hospital immediately.", a.FollowUp)
	assert.Contains(t, a.HomeCare, "Keep the child warm on the way to the facility")

	diarrhoea := classify(t, "12-59_months", "no_danger", "diarrhea", "acute_diarrhea", "no_dehydration")
	require.Equal(t, assessment.UrgencySameDay, diarrhoea.Urgency)
	a = StaticAdvice(diarrhoea, RoleCaregiver)
	assert.Contains(t, a.HomeCare, "Give ORS after each loose stool")
	assert.Contains(t, a.WarningSigns, "Blood in the stool")
	assert.Equal(t, "Return for a follow-up visit in 5 days.", a.FollowUp)

	clinical := StaticAdvice(diarrhoea, RoleHealthWorker)
	assert.Contains(t, clinical.Summary, "No dehydration: Treat diarrhoea at home (Plan A)")
	assert.Contains(t, clinical.Summary, "urgency same-day")
}

func TestStaticAdvice_Deterministic(t *testing.T) {
	c := classify(t, "12-59_months", "no_danger", "ear_problem", "no_ear_signs")
	assert.Equal(t, StaticAdvice(c, RoleCaregiver), StaticAdvice(c, RoleCaregiver))
	assert.Equal(t, "Return if the child is not better in 5 days.", StaticAdvice(c, RoleCaregiver).FollowUp)
}

func TestService_NoProvider(t *testing.T) {
	c := classify(t, "12-59_months", "no_danger", "ear_problem", "no_ear_signs")
	svc := NewService(nil, Config{})
	assert.False(t, svc.ModelBacked())
	assert.Equal(t, StaticAdvice(c, RoleCaregiver), svc.Advise(context.Background(), c, RoleCaregiver))
}

func TestService_ModelAdvice(t *testing.T) {
	c := classify(t, "12-59_months", "no_danger", "fever", "malaria_risk")
	before := c

	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"summary":       "Your child has malaria and needs tablets.",
		"home_care":     []string{"Give the tablets with food"},
		"warning_signs": []string{"Stiff neck", "Vomits everything"},
		"follow_up":     "Return in 3 days.",
	}))
	svc := NewService(mock, Config{MaxTokens: 512, Temperature: 0.1})

	a := svc.Advise(context.Background(), c, RoleCaregiver)
	assert.Equal(t, SourceModel, a.Source)
	assert.Equal(t, "Return in 3 days.", a.FollowUp)
	assert.Equal(t, "Stiff neck", a.WarningSigns[0])
	assert.Subset(t, a.WarningSigns, generalDangerSigns)
	assert.Len(t, a.WarningSigns, 1+len(generalDangerSigns), "duplicates merged")
	assert.Equal(t, before, c, "classification is never changed")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, AdviceSchema, calls[0].Schema)
	assert.Equal(t, 512, calls[0].MaxTokens)
	assert.Equal(t, caregiverSystemPrompt, calls[0].System)
	assert.Contains(t, calls[0].Messages[0].Content, "Result: malaria")
}

func TestService_FallsBackOnModelFailure(t *testing.T) {
	c := classify(t, "12-59_months", "no_danger", "fever", "malaria_risk")
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.UnavailableError{Err: errors.New("down")}}},
		{"schema mismatch", llm.MockJSON(map[string]any{"summary": "incomplete"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(llm.NewMockProvider(tt.resp), Config{})
			a := svc.Advise(context.Background(), c, RoleHealthWorker)
			assert.Equal(t, StaticAdvice(c, RoleHealthWorker), a)
		})
	}
}

func TestBuildUserMessage_ClinicalAudience(t *testing.T) {
	c := classify(t, "12-59_months", "no_danger", "diarrhea", "acute_diarrhea", "some_dehydration")
	msg := buildUserMessage(c, RoleHealthWorker)
	assert.Contains(t, msg, "the health worker")
	assert.Contains(t, msg, "- Some dehydration: Give fluid and food (Plan B)")
	assert.Equal(t, clinicalSystemPrompt, systemPrompt(RoleAdmin))
}
