// Package graph records the dependency edges discovered while injecting, for
// diagnostics and debug rendering. Lifecycle ordering does not come from this
// graph; the singleton container's registration order is authoritative.
package graph

import "sync"

type Graph struct {
	mu    sync.RWMutex
	order []string
	nodes map[string]bool
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.nodes[id] {
		g.nodes[id] = true
		g.order = append(g.order, id)
	}
}

func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.nodes[from] {
		g.nodes[from] = true
		g.order = append(g.order, from)
	}
	for _, dep := range g.edges[from] {
		if dep == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Nodes returns node ids in discovery order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	return nodes
}

func (g *Graph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps := g.edges[id]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

func (g *Graph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, from := range g.order {
		for _, dep := range g.edges[from] {
			if dep == id {
				dependents = append(dependents, from)
				break
			}
		}
	}
	return dependents
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	clone.order = make([]string, len(g.order))
	copy(clone.order, g.order)
	for id := range g.nodes {
		clone.nodes[id] = true
	}
	for id, deps := range g.edges {
		cp := make([]string, len(deps))
		copy(cp, deps)
		clone.edges[id] = cp
	}
	return clone
}
