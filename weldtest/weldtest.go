// Package weldtest provides helpers for testing code wired with weld:
// injectors that disconnect themselves on test cleanup, scoped binding and
// value substitution, and a recording Mock dependency.
package weldtest

import (
	"context"
	"sync"

	"github.com/weldlabs/weld"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// New returns an injector that disconnects itself when the test finishes.
func New(tb TB, opts ...weld.Option) *weld.Injector {
	tb.Helper()

	in := weld.New(opts...)
	tb.Cleanup(func() {
		if err := in.Disconnect(context.Background()); err != nil {
			tb.Fatalf("failed to disconnect injector: %v", err)
		}
	})

	return in
}

// RequireConnect connects the injector and fails the test on error.
func RequireConnect(tb TB, in *weld.Injector) {
	tb.Helper()

	if err := in.Connect(context.Background()); err != nil {
		tb.Fatalf("failed to connect injector: %v", err)
	}
}

// RequireDisconnect disconnects the injector and fails the test on error.
func RequireDisconnect(tb TB, in *weld.Injector) {
	tb.Helper()

	if err := in.Disconnect(context.Background()); err != nil {
		tb.Fatalf("failed to disconnect injector: %v", err)
	}
}

// Override rebinds I to T for the remainder of the test. On cleanup the
// scoped generation is disconnected and the previous one restored.
func Override[I, T any](tb TB, in *weld.Injector) {
	tb.Helper()
	scopeCleanup(tb, in, weld.Override[I, T](in))
}

// OverrideBindings applies a scoped binding table for the remainder of the
// test.
func OverrideBindings(tb TB, in *weld.Injector, b weld.Bindings) {
	tb.Helper()
	scopeCleanup(tb, in, in.Override(b))
}

// Substitute makes T resolve to the given instance for the remainder of the
// test. It opens a fresh singleton generation, so sibling dependencies are
// also rebuilt inside the scope; on cleanup the generation is disconnected
// and the previous one restored.
func Substitute[T any](tb TB, in *weld.Injector, value T) {
	tb.Helper()

	scopeCleanup(tb, in, in.Override(nil))
	if err := weld.ProvideValue(in, value); err != nil {
		tb.Fatalf("failed to substitute %T: %v", value, err)
	}
}

func scopeCleanup(tb TB, in *weld.Injector, restore func()) {
	tb.Cleanup(func() {
		if err := in.Disconnect(context.Background()); err != nil {
			tb.Fatalf("failed to disconnect the scoped generation: %v", err)
		}
		restore()
	})
}

// MustInject resolves T or fails the test.
func MustInject[T any](tb TB, in *weld.Injector) T {
	tb.Helper()

	f, err := weld.Inject[T](in)
	if err != nil {
		tb.Fatalf("failed to inject: %v", err)
	}
	v, err := f()
	if err != nil {
		tb.Fatalf("failed to materialize: %v", err)
	}
	return v
}

// Mock is a connectable, pingable test double that records lifecycle calls.
// Embed it in a stub that implements your dependency's interface to assert
// connect/disconnect discipline without touching real resources:
//
//	type repoStub struct {
//	    weldtest.Mock
//	}
//
//	stub := &repoStub{}
//	weldtest.Substitute[Repository](t, in, Repository(stub))
type Mock struct {
	mu          sync.Mutex
	connects    int
	disconnects int
	pings       int

	ConnectErr    error
	DisconnectErr error
	PingErr       error
}

func (m *Mock) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects++
	return m.ConnectErr
}

func (m *Mock) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnects++
	return m.DisconnectErr
}

func (m *Mock) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return m.PingErr
}

func (m *Mock) Connects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connects
}

func (m *Mock) Disconnects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disconnects
}

func (m *Mock) Pings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pings
}

// Connected reports whether the mock is currently connected.
func (m *Mock) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connects > m.disconnects
}
