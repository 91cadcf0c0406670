package graph

import (
	"testing"
)

func TestAddNodeOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("db")
	g.AddNode("repo")
	g.AddNode("db") // duplicate

	nodes := g.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %v", nodes)
	}
	if nodes[0] != "db" || nodes[1] != "repo" {
		t.Errorf("expected discovery order preserved, got %v", nodes)
	}
	if g.Size() != 2 {
		t.Errorf("expected size 2, got %d", g.Size())
	}
}

func TestAddEdge(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("service", "repo")
	g.AddEdge("service", "repo") // duplicate
	g.AddEdge("service", "db")

	deps := g.Dependencies("service")
	if len(deps) != 2 {
		t.Fatalf("expected 2 dependencies, got %v", deps)
	}
	if deps[0] != "repo" || deps[1] != "db" {
		t.Errorf("unexpected dependency order: %v", deps)
	}

	if deps := g.Dependencies("unknown"); len(deps) != 0 {
		t.Errorf("expected no dependencies for an unknown node, got %v", deps)
	}
}

func TestDependents(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("db")
	g.AddEdge("repo", "db")
	g.AddEdge("service", "db")
	g.AddEdge("service", "repo")

	dependents := g.Dependents("db")
	if len(dependents) != 2 {
		t.Fatalf("expected 2 dependents, got %v", dependents)
	}
	if dependents[0] != "repo" || dependents[1] != "service" {
		t.Errorf("unexpected dependent order: %v", dependents)
	}

	if dependents := g.Dependents("service"); len(dependents) != 0 {
		t.Errorf("expected no dependents for the root, got %v", dependents)
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("repo", "db")

	clone := g.Clone()
	clone.AddEdge("repo", "cache")
	clone.AddNode("extra")

	if len(g.Dependencies("repo")) != 1 {
		t.Error("mutating the clone changed the original's edges")
	}
	if g.Size() == clone.Size() {
		t.Error("mutating the clone changed the original's nodes")
	}
}
