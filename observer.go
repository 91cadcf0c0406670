package weld

import (
	"time"
)

// Observer hooks receive container events for metrics integration; see the
// weldmetrics package for a prometheus bridge.

type InjectHook func(dependency string, duration time.Duration, err error)

type ConnectHook func(dependency string, duration time.Duration, err error)

type DisconnectHook func(dependency string, duration time.Duration, err error)

type PingHook func(dependency string, duration time.Duration, err error)

func (in *Injector) notifyInject(dependency string, duration time.Duration, err error) {
	for _, hook := range in.onInject {
		hook(dependency, duration, err)
	}
}

func (in *Injector) notifyConnect(dependency string, duration time.Duration, err error) {
	for _, hook := range in.onConnect {
		hook(dependency, duration, err)
	}
}

func (in *Injector) notifyDisconnect(dependency string, duration time.Duration, err error) {
	for _, hook := range in.onDisconnect {
		hook(dependency, duration, err)
	}
}

func (in *Injector) notifyPing(dependency string, duration time.Duration, err error) {
	for _, hook := range in.onPing {
		hook(dependency, duration, err)
	}
}
