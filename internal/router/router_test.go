package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/imci/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	s2 := &stubScreen{title: "triage"}
	r.Update(PushScreenMsg{Screen: s2})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "triage" {
		t.Errorf("expected active 'triage', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReset(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "triage"})
	r.Push(&stubScreen{title: "measure"})
	r.Push(&stubScreen{title: "result"})

	fresh := &stubScreen{title: "triage"}
	r.Update(ResetMsg{Screen: fresh})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2 after reset, got %d", r.Depth())
	}
	if r.Active() != fresh || !fresh.initRan {
		t.Error("expected the new screen to be active and initialised")
	}

	r.Update(ResetMsg{})
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("expected only the root after empty reset, got depth %d", r.Depth())
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	top := &stubScreen{title: "top"}
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if top.updates != 1 || home.updates != 0 {
		t.Errorf("expected only the active screen to be updated, got top=%d home=%d", top.updates, home.updates)
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Error("Push should produce a PushScreenMsg carrying the screen")
	}
	if _, ok := Pop()().(PopScreenMsg); !ok {
		t.Error("Pop should produce a PopScreenMsg")
	}
}
