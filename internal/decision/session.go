package decision

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// InvalidOptionError is returned when an answer does not match any option
// of the current question. The session is left unchanged.
type InvalidOptionError struct {
	NodeID string
	Value  string
	Valid  []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %q for node %q (valid: %s)",
		e.Value, e.NodeID, strings.Join(e.Valid, ", "))
}

// SessionTerminatedError is returned when answering a session that has
// already reached a result node.
type SessionTerminatedError struct {
	NodeID string
}

func (e *SessionTerminatedError) Error() string {
	return fmt.Sprintf("session already terminated at result %q", e.NodeID)
}

// Session is the mutable traversal state of one assessment. It is owned by
// a single caller and must not be shared between goroutines.
type Session struct {
	ID              string            `json:"id"`
	CurrentNodeID   string            `json:"current_node_id"`
	VisitedPath     []string          `json:"visited_path"`
	AccumulatedRisk float64           `json:"accumulated_risk"`
	Answers         map[string]string `json:"answers"`

	graph *Graph
}

func newSession(g *Graph) *Session {
	return &Session{
		ID:            uuid.New().String(),
		CurrentNodeID: g.startID,
		VisitedPath:   []string{g.startID},
		Answers:       make(map[string]string),
		graph:         g,
	}
}

// Graph returns the graph the session walks.
func (s *Session) Graph() *Graph { return s.graph }

// Reset returns a fresh session on the same graph. The receiver is not
// modified; callers discard it.
func (s *Session) Reset() *Session {
	return newSession(s.graph)
}

// Current returns the full node the session is positioned at.
func (s *Session) Current() Node {
	return s.graph.node(s.CurrentNodeID).clone()
}

// IsTerminal reports whether the session is positioned at a result node.
func (s *Session) IsTerminal() bool {
	return s.graph.node(s.CurrentNodeID).IsResult()
}

// Steps returns the number of answers given so far.
func (s *Session) Steps() int {
	return len(s.VisitedPath) - 1
}

// Answer applies the option with the given value to the current question.
// On error the session is not modified.
func (s *Session) Answer(value string) error {
	cur := s.graph.node(s.CurrentNodeID)
	if cur.IsResult() {
		return &SessionTerminatedError{NodeID: cur.ID}
	}
	opt, ok := cur.Option(value)
	if !ok {
		return &InvalidOptionError{NodeID: cur.ID, Value: value, Valid: cur.OptionValues()}
	}

	s.AccumulatedRisk += opt.RiskDelta
	s.VisitedPath = append(s.VisitedPath, opt.Next)
	s.Answers[cur.ID] = value
	s.CurrentNodeID = opt.Next
	return nil
}

// Clone returns a deep copy sharing only the immutable graph.
func (s *Session) Clone() *Session {
	c := *s
	c.VisitedPath = slices.Clone(s.VisitedPath)
	c.Answers = maps.Clone(s.Answers)
	return &c
}

// Step is one answered question along the visited path.
type Step struct {
	NodeID    string  `json:"node_id"`
	Prompt    string  `json:"prompt"`
	Value     string  `json:"value"`
	Label     string  `json:"label"`
	RiskDelta float64 `json:"risk_delta"`
}

// Trail returns the answered questions in the order they were visited.
func (s *Session) Trail() []Step {
	steps := make([]Step, 0, s.Steps())
	for _, id := range s.VisitedPath[:len(s.VisitedPath)-1] {
		n := s.graph.node(id)
		v := s.Answers[id]
		opt, _ := n.Option(v)
		steps = append(steps, Step{
			NodeID:    id,
			Prompt:    n.Prompt,
			Value:     v,
			Label:     opt.Label,
			RiskDelta: opt.RiskDelta,
		})
	}
	return steps
}
