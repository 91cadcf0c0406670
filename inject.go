package weld

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/weldlabs/weld/internal/container"
	"github.com/weldlabs/weld/internal/typeref"
)

// Factory is a memoized zero-argument constructor for a singleton. Calling it
// any number of times yields the same instance.
type Factory[T any] func() (T, error)

// funcKey identifies a constructor function in the singleton container.
type funcKey uintptr

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Inject resolves T against the binding table and registers it as a
// singleton, eagerly constructing it and its whole dependency subtree.
// Idempotent: repeated calls return a factory for the identical instance.
func Inject[T any](in *Injector) (Factory[T], error) {
	dep, err := in.inject(typeref.TypeOf[T](), nil)
	if err != nil {
		return nil, err
	}
	return factoryFor[T](dep), nil
}

// MustInject is Inject plus invocation, panicking on failure.
func MustInject[T any](in *Injector) T {
	f, err := Inject[T](in)
	if err != nil {
		panic(err)
	}
	v, err := f()
	if err != nil {
		panic(err)
	}
	return v
}

// LazyInject defers resolution of T until the returned factory is first
// called, while still recording T so Connect materializes it. Use it where
// the call site needs a dependency reference before the application is fully
// wired.
func LazyInject[T any](in *Injector) Factory[T] {
	in.postpone(typeref.TypeOf[T]())

	var (
		once  sync.Once
		value T
		err   error
	)
	return func() (T, error) {
		once.Do(func() {
			var f Factory[T]
			if f, err = Inject[T](in); err != nil {
				return
			}
			value, err = f()
		})
		return value, err
	}
}

// InjectFunc registers a constructor function as a lazily-invoked singleton.
// The constructor must have the form func(deps...) T or func(deps...) (T,
// error); its arguments are resolved immediately, but the function itself
// only runs on the first factory call, and the result is cached. The factory
// takes no arguments, so the singleton cannot be re-parameterized.
func InjectFunc[T any](in *Injector, constructor any) (Factory[T], error) {
	fnVal := reflect.ValueOf(constructor)
	if fnVal.Kind() != reflect.Func {
		return nil, errInvalidTarget(typeref.KeyOf(constructor), "constructor must be a function")
	}

	name := typeref.FuncName(constructor)
	key := funcKey(fnVal.Pointer())

	deps := in.container()
	if dep, ok := deps.Get(key); ok {
		return factoryFor[T](dep), nil
	}

	fnType := fnVal.Type()
	if fnType.NumOut() < 1 || fnType.NumOut() > 2 {
		return nil, errInvalidTarget(name, "constructor must return (T) or (T, error)")
	}
	hasErr := fnType.NumOut() == 2
	if hasErr && !fnType.Out(1).Implements(errorType) {
		return nil, errInvalidTarget(name, "constructor's second return value must be an error")
	}
	if expected := typeref.TypeOf[T](); !fnType.Out(0).AssignableTo(expected) {
		return nil, errInvalidTarget(
			name,
			fmt.Sprintf("constructor returns %s, expected %s", fnType.Out(0), expected),
		)
	}

	sig, err := in.inspectFunc(fnType, name)
	if err != nil {
		return nil, err
	}
	var missing []Param
	for _, p := range sig.Kwargs {
		if !p.Optional {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		sig.Kwargs = missing
		return nil, errInjectionFailed(sig, nil)
	}

	args := make([]reflect.Value, fnType.NumIn())
	for _, p := range sig.Kwargs {
		// Optional of a non-injectable type resolves to None.
		args[p.Index] = reflect.New(p.Declared).Elem()
	}
	for _, p := range sig.Deps {
		depRec, err := in.inject(p.Type, []string{name})
		if err != nil {
			return nil, err
		}
		instance, err := depRec.Materialize()
		if err != nil {
			return nil, err
		}
		in.graph.AddEdge(name, depRec.Name())

		v := reflect.ValueOf(instance)
		if p.Optional {
			v = wrapOptional(p.Declared, v)
		}
		args[p.Index] = v
	}
	if sig.InjectorIndex >= 0 {
		args[sig.InjectorIndex] = reflect.ValueOf(in)
	}
	in.graph.AddNode(name)

	build := func() (any, error) {
		results := fnVal.Call(args)
		if hasErr && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}

	start := time.Now()
	dep, err := deps.Add(key, name, build, false)
	in.notifyInject(name, time.Since(start), err)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return nil, err
		}
		return nil, errInjectionFailed(sig, err)
	}

	return factoryFor[T](dep), nil
}

// ProvideValue registers an existing instance as the singleton for T's
// resolved type. The first registration for a type wins; a later
// ProvideValue for an already-registered type is a no-op.
func ProvideValue[T any](in *Injector, value T) error {
	key := in.resolveType(typeref.TypeOf[T]())
	name := typeref.Key(key)
	in.graph.AddNode(name)

	_, err := in.container().Add(key, name, func() (any, error) {
		return value, nil
	}, true)
	return err
}

// InjectAndRun injects a function's dependencies, connects, invokes it, and
// disconnects. Meant for one-shot entrypoints like CLI commands.
func InjectAndRun[T any](ctx context.Context, in *Injector, fn any) (T, error) {
	var zero T

	f, err := InjectFunc[T](in, fn)
	if err != nil {
		return zero, err
	}
	if err := in.Connect(ctx); err != nil {
		return zero, err
	}

	result, err := f()
	disconnectErr := in.Disconnect(ctx)
	if err != nil {
		return zero, err
	}
	if disconnectErr != nil {
		return result, disconnectErr
	}
	return result, nil
}

// DepsByInterface returns every materialized singleton whose dynamic type
// satisfies I, in registration order. Used by health-check style fan-outs.
func DepsByInterface[I any](in *Injector) []I {
	iface := typeref.TypeOf[I]()

	var out []I
	for _, inst := range in.container().Instances(false) {
		if typeref.Satisfies(inst.Value, iface) {
			out = append(out, inst.Value.(I))
		}
	}
	return out
}

func factoryFor[T any](dep *container.Dependency) Factory[T] {
	return func() (T, error) {
		var zero T
		instance, err := dep.Materialize()
		if err != nil {
			return zero, err
		}
		typed, ok := instance.(T)
		if !ok {
			return zero, errInvalidTarget(
				dep.Name(),
				fmt.Sprintf("constructed %s cannot be used as %s",
					typeref.KeyOf(instance), typeref.Key(typeref.TypeOf[T]())),
			)
		}
		return typed, nil
	}
}
