// Package weldqueue runs watermill message handlers on top of a
// weld.Injector: handler dependencies are lazy-injected, connected once
// before the router starts consuming, and disconnected when the worker
// closes.
package weldqueue

import (
	"context"
	"errors"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/weldlabs/weld"
)

// Worker couples a watermill router with the injector lifecycle.
type Worker struct {
	injector *weld.Injector
	router   *message.Router

	mu        sync.Mutex
	connected bool
}

func NewWorker(in *weld.Injector) (*Worker, error) {
	router, err := message.NewRouter(message.RouterConfig{}, NewLogger(in.Logger()))
	if err != nil {
		return nil, err
	}
	return &Worker{injector: in, router: router}, nil
}

// Router exposes the underlying watermill router for middleware and plugins.
func (w *Worker) Router() *message.Router {
	return w.router
}

// Handler consumes a message together with its resolved dependencies.
type Handler[T any] func(ctx context.Context, deps T, msg *message.Message) error

// AddHandler registers a consuming handler whose dependency struct T is
// resolved from the worker's injector. T materializes on the first delivery
// at the latest; Run connects it up front with everything else.
func AddHandler[T any](w *Worker, name, topic string, sub message.Subscriber, h Handler[T]) {
	deps := weld.LazyInject[T](w.injector)

	w.router.AddNoPublisherHandler(name, topic, sub, func(msg *message.Message) error {
		d, err := deps()
		if err != nil {
			return err
		}
		return h(msg.Context(), d, msg)
	})
}

func (w *Worker) connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.connected {
		return nil
	}
	if err := w.injector.Connect(ctx); err != nil {
		return err
	}
	w.connected = true
	return nil
}

// Run connects all dependencies, then blocks consuming messages until the
// context is cancelled or Close is called.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.connect(ctx); err != nil {
		return err
	}
	return w.router.Run(ctx)
}

// Close stops the router, then disconnects all dependencies in reverse
// order. Disconnect runs even when the router fails to close.
func (w *Worker) Close(ctx context.Context) error {
	routerErr := w.router.Close()

	w.mu.Lock()
	connected := w.connected
	w.connected = false
	w.mu.Unlock()

	var disconnectErr error
	if connected {
		disconnectErr = w.injector.Disconnect(ctx)
	}
	return errors.Join(routerErr, disconnectErr)
}

// NewLogger adapts a zerolog logger to watermill's logging interface.
func NewLogger(log zerolog.Logger) watermill.LoggerAdapter {
	return loggerAdapter{log: log}
}

type loggerAdapter struct {
	log zerolog.Logger
}

func (l loggerAdapter) event(ev *zerolog.Event, msg string, fields watermill.LogFields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.event(l.log.Error().Err(err), msg, fields)
}

func (l loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.event(l.log.Info(), msg, fields)
}

func (l loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.event(l.log.Debug(), msg, fields)
}

func (l loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.event(l.log.Trace(), msg, fields)
}

func (l loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := l.log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return loggerAdapter{log: ctx.Logger()}
}
