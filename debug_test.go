package weld_test

import (
	"strings"
	"testing"

	"github.com/weldlabs/weld"
)

func TestGraphSnapshot(t *testing.T) {
	t.Parallel()

	in, _ := newTestInjector(t)
	weld.MustInject[*Service](in)

	info := in.Graph()
	if len(info.Dependencies) == 0 {
		t.Fatal("expected the injected graph to have nodes")
	}

	byName := make(map[string]weld.DependencyInfo)
	for _, dep := range info.Dependencies {
		byName[dep.Name[strings.LastIndex(dep.Name, ".")+1:]] = dep
	}

	svc, ok := byName["Service"]
	if !ok {
		t.Fatalf("service node missing: %+v", info.Dependencies)
	}
	if !svc.Materialized {
		t.Error("expected the service to be materialized")
	}
	if len(svc.Dependencies) == 0 {
		t.Error("expected the service to depend on the repository")
	}

	repo := byName["Repository"]
	if len(repo.Dependents) == 0 {
		t.Error("expected the repository to have the service as a dependent")
	}
}

func TestSprintGraph(t *testing.T) {
	t.Parallel()

	in, _ := newTestInjector(t)
	weld.MustInject[*Service](in)

	out := in.SprintGraph()
	if !strings.Contains(out, "Service") {
		t.Errorf("expected the service in the rendering:\n%s", out)
	}
	if !strings.Contains(out, "●") {
		t.Errorf("expected materialized markers in the rendering:\n%s", out)
	}
	if !strings.Contains(out, "←") {
		t.Errorf("expected dependency arrows in the rendering:\n%s", out)
	}
}

func TestSprintGraphEmpty(t *testing.T) {
	t.Parallel()

	in := weld.New()
	if got := in.SprintGraph(); !strings.Contains(got, "(empty injector)") {
		t.Errorf("expected the empty marker, got %q", got)
	}
}

func TestSprintGraphDOT(t *testing.T) {
	t.Parallel()

	in, _ := newTestInjector(t)
	weld.MustInject[*Service](in)

	out := in.SprintGraphDOT()
	if !strings.HasPrefix(out, "digraph dependencies {") {
		t.Errorf("expected a digraph header:\n%s", out)
	}
	if !strings.Contains(out, "->") {
		t.Errorf("expected edges in the DOT output:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Errorf("expected a closing brace:\n%s", out)
	}
}
