package decision

import (
	"fmt"
	"slices"
	"strings"
)

// RiskLevel is the severity attached to a result node. Levels are ordered;
// the zero value means "not set" and is rejected by graph validation.
type RiskLevel int

const (
	RiskUnset RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

// AllRiskLevels returns the valid levels in ascending severity.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
}

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	case RiskUnset:
		return ""
	default:
		return fmt.Sprintf("risk(%d)", int(r))
	}
}

// Valid reports whether r is one of the four defined levels.
func (r RiskLevel) Valid() bool {
	return r >= RiskLow && r <= RiskCritical
}

// ParseRiskLevel parses a level name, case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRiskLevels() {
		if r.String() == want {
			return r, nil
		}
	}
	return RiskUnset, fmt.Errorf("unknown risk level: %q", s)
}

// MaxRisk returns the more severe of two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b > a {
		return b
	}
	return a
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RiskUnset
		return nil
	}
	lvl, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = lvl
	return nil
}

// NodeType tags which variant a Node holds.
type NodeType string

const (
	NodeQuestion NodeType = "question"
	NodeResult   NodeType = "result"
)

// Option is one answer to a question. Choosing it adds RiskDelta to the
// session score and moves the session to Next.
type Option struct {
	Label     string  `json:"label" yaml:"label"`
	Value     string  `json:"value" yaml:"value"`
	RiskDelta float64 `json:"risk_delta,omitempty" yaml:"risk_delta,omitempty"`
	Next      string  `json:"next" yaml:"next"`
}

// Node is either a question (Prompt and Options set) or a result
// (RiskLevel, Recommendation and Actions set), as tagged by Type.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Type NodeType `json:"type" yaml:"type"`

	Prompt  string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	RiskLevel      RiskLevel `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
	Recommendation string    `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Actions        []string  `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Question builds a question node.
func Question(id, prompt string, options ...Option) Node {
	return Node{ID: id, Type: NodeQuestion, Prompt: prompt, Options: options}
}

// Result builds a result node.
func Result(id string, level RiskLevel, recommendation string, actions ...string) Node {
	return Node{ID: id, Type: NodeResult, RiskLevel: level, Recommendation: recommendation, Actions: actions}
}

// IsResult reports whether the node is terminal.
func (n Node) IsResult() bool { return n.Type == NodeResult }

// Option returns the option with the given value.
func (n Node) Option(value string) (Option, bool) {
	for _, o := range n.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// OptionValues returns the values of the node's options in order.
func (n Node) OptionValues() []string {
	vals := make([]string, len(n.Options))
	for i, o := range n.Options {
		vals[i] = o.Value
	}
	return vals
}

func (n Node) clone() Node {
	n.Options = slices.Clone(n.Options)
	n.Actions = slices.Clone(n.Actions)
	return n
}
