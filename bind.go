package weld

import (
	"reflect"

	"github.com/weldlabs/weld/internal/container"
	"github.com/weldlabs/weld/internal/typeref"
)

// Bindings maps an abstract dependency type to the concrete type that should
// replace it during resolution.
type Bindings map[reflect.Type]reflect.Type

// TypeOf is a convenience for building Bindings maps, including interface
// types: Bindings{weld.TypeOf[Repository](): weld.TypeOf[*PostgresRepo]()}.
func TypeOf[T any]() reflect.Type {
	return typeref.TypeOf[T]()
}

// Bind registers a permanent binding from I to T.
func Bind[I, T any](in *Injector) {
	in.BindTypes(Bindings{TypeOf[I](): TypeOf[T]()})
}

// BindTypes merges new bindings into the table; later entries for the same
// key win. The current table is never mutated in place so that snapshots
// taken by Override stay intact.
func (in *Injector) BindTypes(b Bindings) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.bindings = mergeBindings(in.bindings, b)
}

// Override swaps in a fresh singleton container and a merged copy of the
// bindings, returning a restore func that must run on every exit path:
//
//	restore := in.Override(weld.Bindings{...})
//	defer restore()
//
// Instances constructed inside the scope form an independent generation with
// their own connect/disconnect bookkeeping. Nested overrides compose; each
// restore reinstates exactly the snapshot it captured.
func (in *Injector) Override(b Bindings) (restore func()) {
	in.mu.Lock()
	prevDeps := in.deps
	prevBindings := in.bindings
	in.deps = container.New(in.discard)
	in.bindings = mergeBindings(in.bindings, b)
	in.mu.Unlock()

	return func() {
		in.mu.Lock()
		in.deps = prevDeps
		in.bindings = prevBindings
		in.mu.Unlock()
	}
}

// Override is the single-binding convenience form of Injector.Override.
func Override[I, T any](in *Injector) (restore func()) {
	return in.Override(Bindings{TypeOf[I](): TypeOf[T]()})
}

// binding applies the table to an already-unwrapped type, identity on miss.
func (in *Injector) binding(t reflect.Type) reflect.Type {
	in.mu.Lock()
	defer in.mu.Unlock()
	if to, ok := in.bindings[t]; ok {
		return to
	}
	return t
}

// resolveType is the single resolution helper every consumer goes through:
// strip the optional wrapper, then look the result up in the binding table.
func (in *Injector) resolveType(t reflect.Type) reflect.Type {
	unwrapped, _ := typeref.Unwrap(t)
	return in.binding(unwrapped)
}

func mergeBindings(base, extra Bindings) Bindings {
	merged := make(Bindings, len(base)+len(extra))
	for from, to := range base {
		merged[from] = to
	}
	for from, to := range extra {
		merged[from] = to
	}
	return merged
}
