package weld

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type GraphInfo struct {
	Dependencies []DependencyInfo
}

type DependencyInfo struct {
	Name         string
	Dependencies []string
	Dependents   []string
	Materialized bool
}

// Graph snapshots the injected dependency graph in discovery order.
func (in *Injector) Graph() GraphInfo {
	materialized := make(map[string]bool)
	for _, inst := range in.container().Instances(false) {
		materialized[inst.Name] = true
	}

	g := in.graph.Clone()
	nodes := g.Nodes()

	deps := make([]DependencyInfo, 0, len(nodes))
	for _, name := range nodes {
		deps = append(deps, DependencyInfo{
			Name:         name,
			Dependencies: g.Dependencies(name),
			Dependents:   g.Dependents(name),
			Materialized: materialized[name],
		})
	}

	return GraphInfo{Dependencies: deps}
}

func (in *Injector) PrintGraph() {
	in.FprintGraph(os.Stdout)
}

func (in *Injector) FprintGraph(w io.Writer) {
	info := in.Graph()

	if len(info.Dependencies) == 0 {
		_, _ = fmt.Fprintln(w, "(empty injector)")
		return
	}

	for _, dep := range info.Dependencies {
		status := "○"
		if dep.Materialized {
			status = "●"
		}

		if len(dep.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, dep.Name)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, dep.Name, strings.Join(dep.Dependencies, ", "))
		}
	}
}

func (in *Injector) SprintGraph() string {
	var sb strings.Builder
	in.FprintGraph(&sb)
	return sb.String()
}

func (in *Injector) PrintGraphDOT() {
	in.FprintGraphDOT(os.Stdout)
}

func (in *Injector) FprintGraphDOT(w io.Writer) {
	info := in.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, dep := range info.Dependencies {
		label := escapeLabel(dep.Name)
		style := ""
		if dep.Materialized {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", dep.Name, label, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, dep := range info.Dependencies {
		for _, sub := range dep.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", dep.Name, sub)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (in *Injector) SprintGraphDOT() string {
	var sb strings.Builder
	in.FprintGraphDOT(&sb)
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}
