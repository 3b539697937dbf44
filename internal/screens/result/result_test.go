package result

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/llm"
	"github.com/abhisek/imci/internal/router"
	"github.com/abhisek/imci/internal/screen"
	"github.com/abhisek/imci/internal/screens/env"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "triage" }
func (s *stubScreen) Title() string                           { return "Assessment" }

func classify(t *testing.T, answers ...string) assessment.Classification {
	t.Helper()
	s, err := decision.Default().Replay(answers)
	if err != nil {
		t.Fatal(err)
	}
	c, err := assessment.Assess(s, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestAdviceLoadsInBackground(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"summary":       "Model summary for the caregiver.",
		"home_care":     []string{"Give fluids"},
		"warning_signs": []string{"Blood in stool"},
		"follow_up":     "Return in 5 days.",
	}))
	e := &env.Env{Counsel: counsel.NewService(mock, counsel.Config{}), Role: counsel.RoleCaregiver}
	r := New(e, classify(t, "12-59_months", "no_danger", "diarrhea", "acute_diarrhea", "no_dehydration"), nil)

	cmd := r.Init()
	if cmd == nil {
		t.Fatal("expected a background advice command")
	}
	if !strings.Contains(r.View(120, 60), "Preparing advice") {
		t.Error("expected a loading message before advice arrives")
	}

	r.Update(cmd())
	if r.advice == nil || r.advice.Source != counsel.SourceModel {
		t.Fatalf("expected model advice, got %+v", r.advice)
	}
	if !strings.Contains(r.View(120, 60), "Model summary for the caregiver.") {
		t.Error("expected the advice summary in the view")
	}
}

func TestStaticAdviceWithoutService(t *testing.T) {
	e := &env.Env{Role: counsel.RoleHealthWorker}
	r := New(e, classify(t, "12-59_months", "unconscious"), nil)

	if cmd := r.Init(); cmd != nil {
		t.Error("expected static advice to be set synchronously")
	}
	if r.advice == nil || r.advice.Source != counsel.SourceStatic {
		t.Fatal("expected static advice")
	}
	if !strings.Contains(r.View(120, 60), "EMERGENCY") {
		t.Error("expected the urgency in the view")
	}
}

func TestNewAssessmentKey(t *testing.T) {
	next := &stubScreen{}
	r := New(&env.Env{Role: counsel.RoleCaregiver}, classify(t, "12-59_months", "unconscious"),
		func() screen.Screen { return next })
	r.Init()

	_, cmd := r.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	msg, ok := cmd().(router.ResetMsg)
	if !ok || msg.Screen != next {
		t.Fatalf("expected ResetMsg with the restart screen, got %#v", cmd())
	}

	_, cmd = r.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if msg, ok := cmd().(router.ResetMsg); !ok || msg.Screen != nil {
		t.Error("expected ResetMsg to the home screen")
	}
}

func TestScrollIsClamped(t *testing.T) {
	r := New(&env.Env{Role: counsel.RoleAdmin}, classify(t, "12-59_months", "unconscious"), nil)
	r.Init()
	for range 500 {
		r.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	r.View(100, 20)
	if r.offset > 200 {
		t.Errorf("offset not clamped: %d", r.offset)
	}
	for range 1000 {
		r.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	if r.offset != 0 {
		t.Errorf("expected offset 0, got %d", r.offset)
	}
}
