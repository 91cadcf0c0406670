package weld

import (
	"github.com/rs/zerolog"
)

type Option func(*injectorConfig)

type injectorConfig struct {
	logger       zerolog.Logger
	bindings     Bindings
	discard      DiscardFunc
	onInject     []InjectHook
	onConnect    []ConnectHook
	onDisconnect []DisconnectHook
	onPing       []PingHook
}

// DiscardFunc receives a constructed candidate instance that lost the
// double-checked registration race and will never be used. No finalizer runs
// on the loser otherwise, so constructors with externally visible side
// effects can release them here.
type DiscardFunc func(dependency string, instance any)

func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *injectorConfig) {
		cfg.logger = logger
	}
}

// WithBindings seeds the binding table at construction time.
func WithBindings(b Bindings) Option {
	return func(cfg *injectorConfig) {
		cfg.bindings = mergeBindings(cfg.bindings, b)
	}
}

func WithDiscard(fn DiscardFunc) Option {
	return func(cfg *injectorConfig) {
		cfg.discard = fn
	}
}

func WithInjectObserver(hook InjectHook) Option {
	return func(cfg *injectorConfig) {
		cfg.onInject = append(cfg.onInject, hook)
	}
}

func WithConnectObserver(hook ConnectHook) Option {
	return func(cfg *injectorConfig) {
		cfg.onConnect = append(cfg.onConnect, hook)
	}
}

func WithDisconnectObserver(hook DisconnectHook) Option {
	return func(cfg *injectorConfig) {
		cfg.onDisconnect = append(cfg.onDisconnect, hook)
	}
}

func WithPingObserver(hook PingHook) Option {
	return func(cfg *injectorConfig) {
		cfg.onPing = append(cfg.onPing, hook)
	}
}
