package weld

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/weldlabs/weld/internal/container"
	"github.com/weldlabs/weld/internal/graph"
	"github.com/weldlabs/weld/internal/typeref"
)

// Injector resolves dependency graphs from struct fields and constructor
// signatures, caches exactly one instance per resolved type, and drives the
// Connect/Disconnect lifecycle over everything it constructed: connect in
// first-injection order, disconnect in exact reverse.
//
// An Injector is safe for concurrent use. The internal lock is released
// while user constructors run, so a constructor may re-enter the injector;
// the singleton container's double-checked commit keeps instances unique.
type Injector struct {
	mu        sync.Mutex
	bindings  Bindings
	deps      *container.Container
	postponed []reflect.Type

	graph   *graph.Graph
	log     zerolog.Logger
	discard container.DiscardFunc

	onInject     []InjectHook
	onConnect    []ConnectHook
	onDisconnect []DisconnectHook
	onPing       []PingHook
}

func New(opts ...Option) *Injector {
	cfg := &injectorConfig{
		logger:   zerolog.Nop(),
		bindings: Bindings{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	in := &Injector{
		bindings:     cfg.bindings,
		graph:        graph.New(),
		log:          cfg.logger,
		onInject:     cfg.onInject,
		onConnect:    cfg.onConnect,
		onDisconnect: cfg.onDisconnect,
		onPing:       cfg.onPing,
	}
	if cfg.discard != nil {
		in.discard = container.DiscardFunc(cfg.discard)
	}
	in.deps = container.New(in.discard)

	return in
}

// container returns the current singleton generation; Override swaps it.
func (in *Injector) container() *container.Container {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.deps
}

// inject resolves t against the binding table and returns its singleton
// record, registering it first if needed. Idempotent: repeated calls for the
// same resolved type return the identical record.
func (in *Injector) inject(t reflect.Type, path []string) (*container.Dependency, error) {
	key := in.resolveType(t)
	name := typeref.Key(key)

	deps := in.container()
	if dep, ok := deps.Get(key); ok {
		return dep, nil
	}

	for _, seen := range path {
		if seen == name {
			return nil, errCircularDependency(append(path, name))
		}
	}
	path = append(path, name)

	if key.Kind() == reflect.Interface {
		return nil, errUnboundInterface(name)
	}

	sig, err := in.inspectType(key)
	if err != nil {
		return nil, err
	}

	// Sub-dependencies are always materialized before their parent:
	// post-order construction gives the connect ordering its meaning.
	fields := make(map[int]reflect.Value, len(sig.Deps)+1)
	for _, p := range sig.Deps {
		depRec, err := in.inject(p.Type, path)
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
		fields[p.Index] = v
	}
	if sig.InjectorIndex >= 0 {
		fields[sig.InjectorIndex] = reflect.ValueOf(in)
	}
	in.graph.AddNode(name)

	start := time.Now()
	dep, err := deps.Add(key, name, func() (any, error) {
		return buildStruct(key, sig, fields)
	}, true)
	in.notifyInject(name, time.Since(start), err)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return nil, err
		}
		return nil, errInjectionFailed(sig, err)
	}

	in.log.Debug().Str("dependency", name).Msg("injected")
	return dep, nil
}

func buildStruct(key reflect.Type, sig *Signature, fields map[int]reflect.Value) (any, error) {
	st, ok := typeref.StructOf(key)
	if !ok {
		return nil, fmt.Errorf("target %s is not struct-backed", key)
	}

	v := reflect.New(st).Elem()
	for idx, fv := range fields {
		target := v.Field(idx)
		if !fv.Type().AssignableTo(target.Type()) {
			return nil, fmt.Errorf(
				"cannot assign %s to field %s of %s",
				fv.Type(), st.Field(idx).Name, typeref.Key(key),
			)
		}
		target.Set(fv)
	}

	for v.Type() != key {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}
	return v.Interface(), nil
}

func wrapOptional(declared reflect.Type, v reflect.Value) reflect.Value {
	wrapped := reflect.New(declared).Elem()
	wrapped.FieldByName("Value").Set(v)
	wrapped.FieldByName("Present").SetBool(true)
	return wrapped
}

// postpone records a target for materialization at Connect time.
func (in *Injector) postpone(t reflect.Type) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.postponed = append(in.postponed, t)
}

// Connect materializes every postponed target, then runs the connect hook of
// each connectable singleton in registration order. The first failing hook
// aborts the remaining connects; callers own the cleanup policy for a
// partially connected generation.
func (in *Injector) Connect(ctx context.Context) error {
	in.mu.Lock()
	postponed := make([]reflect.Type, len(in.postponed))
	copy(postponed, in.postponed)
	in.mu.Unlock()

	for _, t := range postponed {
		dep, err := in.inject(t, nil)
		if err != nil {
			return err
		}
		if _, err := dep.Materialize(); err != nil {
			return err
		}
	}

	for _, inst := range in.container().Instances(false) {
		conn, ok := asConnectable(inst.Value)
		if !ok {
			continue
		}

		in.log.Debug().Str("dependency", inst.Name).Msg("connecting")
		start := time.Now()
		err := conn.Connect(ctx)
		in.notifyConnect(inst.Name, time.Since(start), err)
		if err != nil {
			return errConnectFailed(inst.Name, err)
		}
	}

	return nil
}

// Disconnect runs the disconnect hook of each connectable singleton in
// reverse registration order. A failing hook is logged and does not stop the
// teardown of the remaining instances; the aggregated failures are returned
// at the end.
func (in *Injector) Disconnect(ctx context.Context) error {
	var errs []error
	for _, inst := range in.container().Instances(true) {
		conn, ok := asConnectable(inst.Value)
		if !ok {
			continue
		}

		in.log.Debug().Str("dependency", inst.Name).Msg("disconnecting")
		start := time.Now()
		err := conn.Disconnect(ctx)
		in.notifyDisconnect(inst.Name, time.Since(start), err)
		if err != nil {
			in.log.Error().Err(err).Str("dependency", inst.Name).Msg("failed to disconnect")
			errs = append(errs, fmt.Errorf("%s: %w", inst.Name, err))
		}
	}

	if len(errs) > 0 {
		return errDisconnectFailed(errors.Join(errs...))
	}
	return nil
}

// Run connects, waits for the context to end or for SIGINT/SIGTERM, then
// disconnects.
func (in *Injector) Run(ctx context.Context) error {
	if err := in.Connect(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)
	close(quit)

	return in.Disconnect(context.Background())
}

// Names returns the registered dependency names in first-injection order.
func (in *Injector) Names() []string {
	return in.container().Names()
}

// Size returns the number of registered singletons in the current generation.
func (in *Injector) Size() int {
	return in.container().Size()
}

// Logger exposes the injector's logger for adapters.
func (in *Injector) Logger() zerolog.Logger {
	return in.log
}
