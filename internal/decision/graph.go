package decision

import (
	"fmt"
	"slices"
)

// Graph is an immutable, validated decision tree. It is safe for
// concurrent use; sessions created from it are not.
type Graph struct {
	name    string
	version string
	startID string
	nodes   []Node
	byID    map[string]int
	depth   int
}

// NewGraph validates the nodes and builds a graph rooted at startID.
// Every structural problem is reported in a single error.
func NewGraph(startID string, nodes []Node) (*Graph, error) {
	nodes = cloneNodes(nodes)
	if err := validateNodes(startID, nodes); err != nil {
		return nil, err
	}

	g := &Graph{
		startID: startID,
		nodes:   nodes,
		byID:    make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		g.byID[n.ID] = i
	}
	g.depth = g.longestPath(startID, map[string]int{})
	return g, nil
}

// MustGraph is like NewGraph but panics on an invalid node set.
func MustGraph(startID string, nodes []Node) *Graph {
	g, err := NewGraph(startID, nodes)
	if err != nil {
		panic(err)
	}
	return g
}

// longestPath returns the number of answers on the longest path from id to
// a result node. The graph is acyclic, so memoised DFS terminates.
func (g *Graph) longestPath(id string, memo map[string]int) int {
	if d, ok := memo[id]; ok {
		return d
	}
	best := 0
	for _, o := range g.nodes[g.byID[id]].Options {
		if d := 1 + g.longestPath(o.Next, memo); d > best {
			best = d
		}
	}
	memo[id] = best
	return best
}

// StartID returns the id of the designated start node.
func (g *Graph) StartID() string { return g.startID }

// Name and Version describe the protocol the graph was loaded from, if any.
func (g *Graph) Name() string    { return g.name }
func (g *Graph) Version() string { return g.version }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// MaxDepth returns the number of answers on the longest start-to-result path.
func (g *Graph) MaxDepth() int { return g.depth }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// Nodes returns every node in declaration order.
func (g *Graph) Nodes() []Node {
	return cloneNodes(g.nodes)
}

// Results returns every result node in declaration order.
func (g *Graph) Results() []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.IsResult() {
			out = append(out, n.clone())
		}
	}
	return out
}

// Start creates a fresh session positioned at the start node.
func (g *Graph) Start() *Session {
	return newSession(g)
}

// Replay starts a session and applies the answers in order. On failure the
// returned session is positioned where the failing answer was attempted.
func (g *Graph) Replay(values []string) (*Session, error) {
	s := g.Start()
	for i, v := range values {
		if err := s.Answer(v); err != nil {
			return s, fmt.Errorf("answer %d: %w", i+1, err)
		}
	}
	return s, nil
}

func (g *Graph) node(id string) *Node {
	return &g.nodes[g.byID[id]]
}

func cloneNodes(nodes []Node) []Node {
	out := slices.Clone(nodes)
	for i := range out {
		out[i] = out[i].clone()
	}
	return out
}
