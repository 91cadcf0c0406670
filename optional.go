package weld

import (
	"reflect"

	"github.com/weldlabs/weld/internal/typeref"
)

// Optional declares a dependency that may be absent. A struct field of type
// Optional[T] is resolved exactly as a field of type T would be; when T is not
// injectable the field is left empty instead of failing the injection.
//
// The fields are exported so the injector can assign resolved instances
// reflectively; prefer the accessors in application code.
type Optional[T any] struct {
	Value   T
	Present bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.Present {
		return o.Value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.Present {
		return o.Value
	}
	return fn()
}

// WrappedType satisfies typeref.Wrapped so inspection can strip the wrapper.
func (Optional[T]) WrappedType() reflect.Type {
	return typeref.TypeOf[T]()
}
