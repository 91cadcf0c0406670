package weld

import (
	"context"
	"reflect"

	"github.com/weldlabs/weld/internal/typeref"
)

// Connectable is the lifecycle capability. Any type exposing this method pair
// is treated as an injectable dependency and participates in Connect and
// Disconnect; satisfaction is structural, no registration required.
type Connectable interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Pinger is the optional health capability checked by Healthcheck.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	connectableType = typeref.TypeOf[Connectable]()
	pingerType      = typeref.TypeOf[Pinger]()
	injectorType    = reflect.TypeOf((*Injector)(nil))
)

func isConnectableType(t reflect.Type) bool {
	return typeref.Implements(t, connectableType)
}

func asConnectable(v any) (Connectable, bool) {
	if typeref.IsNil(v) {
		return nil, false
	}
	c, ok := v.(Connectable)
	return c, ok
}
