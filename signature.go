package weld

import (
	"fmt"
	"reflect"

	"github.com/weldlabs/weld/internal/typeref"
)

// TagKey is the struct tag consulted during inspection. `weld:"inject"`
// force-marks a field as a dependency even when its type has no lifecycle
// capability; `weld:"-"` excludes a field entirely.
const TagKey = "weld"

const tagInject = "inject"

// Param describes one inspected parameter: a struct field or a constructor
// argument.
type Param struct {
	// Name is the field name, or "#n" for constructor arguments (Go
	// reflection does not expose parameter names).
	Name  string
	Index int
	// Type is the resolved dependency type: optional wrapper stripped, then
	// binding table applied.
	Type reflect.Type
	// Declared is the type as written on the target, before any resolution.
	Declared reflect.Type
	// Optional is set when the declared type was wrapped in Optional.
	Optional bool
	// Forced is set when the field carries the `weld:"inject"` tag. The tag
	// is read from the declared field, before binding substitution.
	Forced bool
}

// Signature is the immutable description of one inspected target. A fresh
// Signature is produced on every inspection.
type Signature struct {
	Target      reflect.Type
	Name        string
	Connectable bool
	// Deps are the parameters that will be recursively injected, in
	// declaration order.
	Deps []Param
	// Kwargs are plain-value parameters: not injected, left to their zero
	// value on struct targets and unsatisfiable on constructor targets.
	Kwargs []Param
	// InjectorIndex is the parameter that receives the injector itself, or -1.
	InjectorIndex int
}

// Inspect describes how T would be injected, without constructing anything.
func Inspect[T any](in *Injector) (*Signature, error) {
	return in.InspectType(typeref.TypeOf[T]())
}

// InspectType resolves t against the binding table and inspects the result.
func (in *Injector) InspectType(t reflect.Type) (*Signature, error) {
	return in.inspectType(in.resolveType(t))
}

func (in *Injector) inspectType(t reflect.Type) (sig *Signature, err error) {
	name := typeref.Key(t)
	defer func() {
		if r := recover(); r != nil {
			err = errInspectionFailed(name, fmt.Errorf("%v", r))
		}
	}()

	st, ok := typeref.StructOf(t)
	if !ok {
		return nil, errInspectionFailed(name, fmt.Errorf("target %s is not struct-backed", t))
	}

	sig = &Signature{
		Target:        t,
		Name:          name,
		Connectable:   isConnectableType(t),
		InjectorIndex: -1,
	}

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		tag := field.Tag.Get(TagKey)
		if tag == "-" {
			continue
		}

		param := in.classify(Param{
			Name:     field.Name,
			Index:    i,
			Declared: field.Type,
			Forced:   tag == tagInject,
		})

		switch {
		case param.Type == injectorType:
			sig.InjectorIndex = i
		case isConnectableType(param.Type) || param.Forced:
			sig.Deps = append(sig.Deps, param)
		default:
			sig.Kwargs = append(sig.Kwargs, param)
		}
	}

	return sig, nil
}

func (in *Injector) inspectFunc(fnType reflect.Type, name string) (sig *Signature, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errInspectionFailed(name, fmt.Errorf("%v", r))
		}
	}()

	if fnType.IsVariadic() {
		return nil, errInspectionFailed(name, fmt.Errorf("variadic constructors are not supported"))
	}

	sig = &Signature{
		Target:        fnType,
		Name:          name,
		InjectorIndex: -1,
	}

	for i := 0; i < fnType.NumIn(); i++ {
		param := in.classify(Param{
			Name:     fmt.Sprintf("#%d", i),
			Index:    i,
			Declared: fnType.In(i),
		})

		switch {
		case param.Type == injectorType:
			sig.InjectorIndex = i
		case isConnectableType(param.Type):
			sig.Deps = append(sig.Deps, param)
		default:
			sig.Kwargs = append(sig.Kwargs, param)
		}
	}

	return sig, nil
}

// classify performs the per-parameter resolution steps in their required
// order: unwrap the optional wrapper, then apply the binding table once. The
// force-mark was already read from the declared field.
func (in *Injector) classify(param Param) Param {
	unwrapped, optional := typeref.Unwrap(param.Declared)
	param.Type = in.binding(unwrapped)
	param.Optional = optional
	return param
}
