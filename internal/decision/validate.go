package decision

import (
	"fmt"
	"strings"
)

// validateNodes performs all structural checks on a node set.
// Returns a combined error describing all problems found, or nil if valid.
func validateNodes(startID string, nodes []Node) error {
	var errs []string

	byID := make(map[string]*Node, len(nodes))

	// Check ids
	for i := range nodes {
		n := &nodes[i]
		if n.ID == "" {
			errs = append(errs, fmt.Sprintf("node at index %d has an empty ID", i))
			continue
		}
		if _, dup := byID[n.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate node ID: %q", n.ID))
			continue
		}
		byID[n.ID] = n
	}

	if startID == "" {
		errs = append(errs, "no start node designated")
	} else if _, ok := byID[startID]; !ok {
		errs = append(errs, fmt.Sprintf("start node %q does not exist", startID))
	}

	// Check variant contents and edges
	for i := range nodes {
		n := &nodes[i]
		switch n.Type {
		case NodeQuestion:
			if strings.TrimSpace(n.Prompt) == "" {
				errs = append(errs, fmt.Sprintf("question %q has an empty prompt", n.ID))
			}
			if len(n.Options) == 0 {
				errs = append(errs, fmt.Sprintf("question %q has no options", n.ID))
			}
			seen := make(map[string]bool, len(n.Options))
			for j, o := range n.Options {
				if o.Value == "" {
					errs = append(errs, fmt.Sprintf("question %q option %d has an empty value", n.ID, j))
				} else if seen[o.Value] {
					errs = append(errs, fmt.Sprintf("question %q has duplicate option value %q", n.ID, o.Value))
				}
				seen[o.Value] = true
				if o.Next == "" {
					errs = append(errs, fmt.Sprintf("question %q option %q has no next node", n.ID, o.Value))
				} else if _, ok := byID[o.Next]; !ok {
					errs = append(errs, fmt.Sprintf("question %q option %q references nonexistent node %q", n.ID, o.Value, o.Next))
				}
			}
			if n.RiskLevel != RiskUnset || n.Recommendation != "" || len(n.Actions) > 0 {
				errs = append(errs, fmt.Sprintf("question %q carries result fields", n.ID))
			}
		case NodeResult:
			if !n.RiskLevel.Valid() {
				errs = append(errs, fmt.Sprintf("result %q has no valid risk level", n.ID))
			}
			if len(n.Options) > 0 {
				errs = append(errs, fmt.Sprintf("result %q has options", n.ID))
			}
		default:
			errs = append(errs, fmt.Sprintf("node %q has unknown type %q", n.ID, n.Type))
		}
	}

	// Check for cycles using Kahn's algorithm over resolvable edges
	inDegree := make(map[string]int, len(byID))
	adjList := make(map[string][]string, len(byID))
	for id := range byID {
		inDegree[id] = 0
	}
	for _, n := range byID {
		for _, o := range n.Options {
			if _, ok := byID[o.Next]; !ok {
				continue
			}
			adjList[n.ID] = append(adjList[n.ID], o.Next)
			inDegree[o.Next]++
		}
	}

	var queue []string
	for i := range nodes {
		id := nodes[i].ID
		if byID[id] == &nodes[i] && inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjList[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if visited < len(byID) {
		var cycleNodes []string
		for i := range nodes {
			id := nodes[i].ID
			if byID[id] == &nodes[i] && inDegree[id] > 0 {
				cycleNodes = append(cycleNodes, id)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(cycleNodes, ", ")))
	}

	// Check reachability from the start node
	if start, ok := byID[startID]; ok {
		reached := map[string]bool{start.ID: true}
		stack := []string{start.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adjList[id] {
				if !reached[next] {
					reached[next] = true
					stack = append(stack, next)
				}
			}
		}
		for i := range nodes {
			id := nodes[i].ID
			if id != "" && byID[id] == &nodes[i] && !reached[id] {
				errs = append(errs, fmt.Sprintf("node %q is unreachable from start %q", id, startID))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("decision graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
