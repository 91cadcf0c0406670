// Package weldhttp binds a weld.Injector into chi-routed HTTP applications:
// request-scoped access to the injector, a server that connects dependencies
// before serving and disconnects them on shutdown, and a health endpoint
// backed by the injector's ping fan-out.
package weldhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/weldlabs/weld"
)

type ctxKey struct{}

// ErrNotInjected is returned when a request context carries no injector.
var ErrNotInjected = errors.New(
	"weldhttp: request is not injected; did you forget to add weldhttp.Middleware?",
)

// Middleware places the injector into every request's context so handlers
// can resolve dependencies with Provide.
func Middleware(in *weld.Injector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKey{}, in)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectorFrom extracts the injector placed by Middleware.
func InjectorFrom(r *http.Request) (*weld.Injector, error) {
	in, ok := r.Context().Value(ctxKey{}).(*weld.Injector)
	if !ok {
		return nil, ErrNotInjected
	}
	return in, nil
}

// Provide resolves T from the request's injector. Instances are the same
// process-wide singletons the rest of the application sees.
func Provide[T any](r *http.Request) (T, error) {
	var zero T

	in, err := InjectorFrom(r)
	if err != nil {
		return zero, err
	}

	f, err := weld.Inject[T](in)
	if err != nil {
		return zero, err
	}
	return f()
}

// Server couples an HTTP server with the injector lifecycle: dependencies
// connect before the listener accepts and disconnect after shutdown, the
// lifespan discipline of the host framework expressed in weld's terms.
type Server struct {
	injector *weld.Injector
	router   chi.Router
	http     *http.Server
}

func NewServer(in *weld.Injector, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Middleware(in))

	return &Server{
		injector: in,
		router:   r,
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the underlying chi router for route registration.
func (s *Server) Router() chi.Router {
	return s.router
}

// RegisterController lazy-injects T on a server so its dependency subtree is
// materialized and connected at startup, before the first request needs it.
func RegisterController[T any](s *Server) weld.Factory[T] {
	return weld.LazyInject[T](s.injector)
}

// Start connects all dependencies, then serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if err := s.injector.Connect(ctx); err != nil {
		return err
	}

	logger := s.injector.Logger()
	logger.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then disconnects all dependencies in
// reverse order. Disconnect runs even when the HTTP shutdown errors.
func (s *Server) Shutdown(ctx context.Context) error {
	httpErr := s.http.Shutdown(ctx)
	disconnectErr := s.injector.Disconnect(ctx)
	return errors.Join(httpErr, disconnectErr)
}

type healthResponse struct {
	Status       weld.PingStatus `json:"status"`
	Dependencies []healthReport  `json:"dependencies,omitempty"`
}

type healthReport struct {
	Dependency string          `json:"dependency"`
	Status     weld.PingStatus `json:"status"`
	Error      string          `json:"error,omitempty"`
	LatencyMS  float64         `json:"latency_ms"`
}

// MountHealth registers a GET handler that pings every pingable dependency
// and reports 200 when all are up, 503 otherwise.
func MountHealth(r chi.Router, in *weld.Injector, pattern string) {
	r.Get(pattern, func(w http.ResponseWriter, req *http.Request) {
		hc, err := weld.Inject[*weld.Healthcheck](in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		check, err := hc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := healthResponse{Status: weld.PingStatusUp}
		for _, report := range check.Report(req.Context()) {
			hr := healthReport{
				Dependency: report.Dependency,
				Status:     report.Status,
				LatencyMS:  float64(report.Latency) / float64(time.Millisecond),
			}
			if report.Err != nil {
				hr.Error = report.Err.Error()
				resp.Status = weld.PingStatusDown
			}
			resp.Dependencies = append(resp.Dependencies, hr)
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == weld.PingStatusDown {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}
