// Package weld is a runtime dependency injector with an asynchronous-style
// connect/disconnect lifecycle for Go 1.25+.
//
// Weld builds object graphs from struct fields and constructor signatures,
// keeps exactly one instance per dependency type, and drives ordered startup
// and teardown over everything it constructed: connect in first-injection
// order, disconnect in exact reverse.
//
// # Quick Start
//
// Declare dependencies as struct fields and give resources the lifecycle
// method pair:
//
//	type Database struct{}
//
//	func (d *Database) Connect(ctx context.Context) error    { return d.open(ctx) }
//	func (d *Database) Disconnect(ctx context.Context) error { return d.close(ctx) }
//
//	type Service struct {
//	    DB *Database
//	}
//
//	func (s *Service) Connect(ctx context.Context) error    { return nil }
//	func (s *Service) Disconnect(ctx context.Context) error { return nil }
//
//	in := weld.New()
//	svc := weld.MustInject[*Service](in)
//
//	in.Connect(ctx)    // DB connects before Service
//	defer in.Disconnect(ctx)
//
// Any type exposing Connect/Disconnect is injectable; satisfaction is
// structural, so dependencies never import weld.
//
// # Injection
//
//	factory, err := weld.Inject[*Service](in)  // memoized factory
//	svc := weld.MustInject[*Service](in)       // instance, panics on error
//	lazy := weld.LazyInject[*Service](in)      // resolve on first call
//
// Repeated injection of the same type always yields the same instance.
// LazyInject exists for call sites that need a reference before the
// application is wired; the instance is still materialized by Connect.
//
// # Constructors
//
// Types that need custom construction use constructor functions; arguments
// are injected, and the result is a lazily-invoked singleton:
//
//	func NewMailer(db *Database, in *weld.Injector) (*Mailer, error) { ... }
//
//	factory, err := weld.InjectFunc[*Mailer](in, NewMailer)
//
// # Plain values and force-marking
//
// Fields whose types lack the lifecycle capability are left alone. Tag a
// field to inject it anyway, or skip one explicitly:
//
//	type Service struct {
//	    Repo   *Repository `weld:"inject"` // no Connect/Disconnect, still injected
//	    Legacy *OldClient  `weld:"-"`      // never touched
//	    Debug  bool                        // plain value, stays zero
//	}
//
// # Optional dependencies
//
//	type Service struct {
//	    Cache weld.Optional[*Cache]
//	}
//
// An Optional[T] field resolves exactly as T would; when T is not injectable
// the field stays empty instead of failing.
//
// # Bindings
//
// Bind interfaces to concrete implementations, permanently or scoped:
//
//	weld.Bind[Repository, *PostgresRepo](in)
//
//	restore := in.Override(weld.Bindings{
//	    weld.TypeOf[Repository](): weld.TypeOf[*RepoStub](),
//	})
//	defer restore()
//
// Override swaps in a fresh singleton generation; instances constructed
// inside the scope are independent of the outer ones, and restore brings the
// originals back untouched.
//
// # Lifecycle
//
// Connect runs every connectable singleton's Connect hook in registration
// order and fails fast. Disconnect runs the hooks in reverse order and keeps
// going past failures, returning them aggregated. Run wires both to process
// signals:
//
//	if err := in.Run(ctx); err != nil { ... }
//
// # Health
//
// Dependencies may additionally implement Ping(ctx) error; inject
// *weld.Healthcheck and fan out:
//
//	hc := weld.MustInject[*weld.Healthcheck](in)
//	err := hc.PingDependencies(ctx)
//	reports := hc.Report(ctx)
//
// # Observability
//
// Observer hooks expose injection and lifecycle timings:
//
//	in := weld.New(
//	    weld.WithLogger(logger),
//	    weld.WithConnectObserver(func(dep string, d time.Duration, err error) { ... }),
//	)
//
// The weldmetrics package bridges these hooks to prometheus, weldhttp mounts
// the injector into chi routers, weldqueue drives watermill workers, and
// weldtest provides test substitution helpers.
package weld
