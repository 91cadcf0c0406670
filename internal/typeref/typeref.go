// Package typeref contains the reflection utilities behind dependency
// resolution: readable type keys, optional-wrapper unwrapping and structural
// capability checks that never panic on odd inputs.
package typeref

import (
	"reflect"
	"runtime"
	"strconv"
	"sync"
)

// Wrapped is implemented by generic wrapper types (such as weld.Optional) that
// stand in for "this dependency, or nothing". Unwrap uses it to recover the
// underlying dependency type.
type Wrapped interface {
	WrappedType() reflect.Type
}

var wrappedType = reflect.TypeOf((*Wrapped)(nil)).Elem()

var keyCache sync.Map

// TypeOf returns the reflect.Type for T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Key renders a stable, human-readable identity for a type, used as the
// dependency name in logs, errors and debug output.
func Key(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := keyCache.Load(t); ok {
		return cached.(string)
	}
	key := buildKey(t)
	keyCache.Store(t, key)
	return key
}

func buildKey(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + buildKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildKey(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildKey(t.Elem())
	case reflect.Map:
		return "map[" + buildKey(t.Key()) + "]" + buildKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildKey(t.Elem())
		default:
			return "chan " + buildKey(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}

// KeyOf returns the Key of a value's dynamic type.
func KeyOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return Key(reflect.TypeOf(v))
}

// FuncName resolves the symbol name of a function value, or its type string
// for non-functions and anonymous values.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return KeyOf(fn)
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}

// Unwrap strips a single optional-wrapper layer from a declared type. It
// returns the wrapped dependency type and true when t is a wrapper, or t
// unchanged otherwise.
func Unwrap(t reflect.Type) (reflect.Type, bool) {
	if !Implements(t, wrappedType) {
		return t, false
	}
	w, ok := reflect.Zero(t).Interface().(Wrapped)
	if !ok {
		return t, false
	}
	return w.WrappedType(), true
}

// Implements reports whether t satisfies the given interface type. Any
// type-comparison oddity (nil types, non-interface iface) counts as "no".
func Implements(t, iface reflect.Type) bool {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	return t.Implements(iface)
}

// Satisfies reports whether a value's dynamic type satisfies the interface
// type. Nil values never match.
func Satisfies(v any, iface reflect.Type) bool {
	if IsNil(v) {
		return false
	}
	return Implements(reflect.TypeOf(v), iface)
}

// IsNil reports whether v is nil, including typed nils behind interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// StructOf digs through pointers to the struct type backing a dependency.
// The second return is false when t is not struct-backed.
func StructOf(t reflect.Type) (reflect.Type, bool) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	return t, true
}
