package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Has reports whether the graph contains a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node ID, sorted.
func (g *Graph) Nodes() []string {
	return sortedIDs(g.nodes)
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.dependents), nil
}

// Ready returns the sorted IDs of all nodes without dependencies.
func (g *Graph) Ready() []string {
	var out []string
	for id, n := range g.nodes {
		if len(n.deps) == 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Remove deletes a node together with all edges touching it. Removing an
// unknown ID is a no-op.
func (g *Graph) Remove(id string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for depID, dep := range n.deps {
		delete(dep.dependents, id)
		delete(n.deps, depID)
	}
	for depID, dependent := range n.dependents {
		delete(dependent.deps, id)
		delete(n.dependents, depID)
	}
	delete(g.nodes, id)
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}

		temporary[n.id] = true

		for _, id := range sortedIDs(n.dependents) {
			if err := visit(n.dependents[id]); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range sortedIDs(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}

	return nil
}

// StronglyConnected returns every strongly connected component with more than
// one node. Each group is sorted, and groups are ordered by their first ID.
func (g *Graph) StronglyConnected() [][]string {
	// Tarjan's algorithm over dependency edges.
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var groups [][]string

	var connect func(n *node)
	connect = func(n *node) {
		indices[n.id] = index
		lowlink[n.id] = index
		index++
		stack = append(stack, n.id)
		onStack[n.id] = true

		for _, id := range sortedIDs(n.deps) {
			if _, seen := indices[id]; !seen {
				connect(n.deps[id])
				lowlink[n.id] = min(lowlink[n.id], lowlink[id])
			} else if onStack[id] {
				lowlink[n.id] = min(lowlink[n.id], indices[id])
			}
		}

		if lowlink[n.id] != indices[n.id] {
			return
		}
		var group []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			group = append(group, top)
			if top == n.id {
				break
			}
		}
		if len(group) > 1 {
			sort.Strings(group)
			groups = append(groups, group)
		}
	}

	for _, id := range sortedIDs(g.nodes) {
		if _, seen := indices[id]; !seen {
			connect(g.nodes[id])
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

func sortedIDs(nodes map[string]*node) []string {
	out := make([]string, 0, len(nodes))
	for id := range nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
