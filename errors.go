package weld

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weldlabs/weld/internal/typeref"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidTarget
	ErrCodeInspectionFailed
	ErrCodeInjectionFailed
	ErrCodeCircularDependency
	ErrCodeConnectFailed
	ErrCodeDisconnectFailed
	ErrCodePingFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeInvalidTarget:      "INVALID_TARGET",
	ErrCodeInspectionFailed:   "INSPECTION_FAILED",
	ErrCodeInjectionFailed:    "INJECTION_FAILED",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeConnectFailed:      "CONNECT_FAILED",
	ErrCodeDisconnectFailed:   "DISCONNECT_FAILED",
	ErrCodePingFailed:         "PING_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

type Error struct {
	Code       ErrorCode
	Message    string
	Dependency string
	Cause      error
	Chain      []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Dependency != "" {
		b.WriteString(fmt.Sprintf(" dependency=%q:", e.Dependency))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithDependency(dependency string) *Error {
	e.Dependency = dependency
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errInvalidTarget(name, reason string) *Error {
	return newError(
		ErrCodeInvalidTarget,
		fmt.Sprintf("cannot inject %s: %s", name, reason),
		nil,
	).WithDependency(name)
}

func errInspectionFailed(name string, cause error) *Error {
	return newError(
		ErrCodeInspectionFailed,
		fmt.Sprintf("failed to inspect %s", name),
		cause,
	).WithDependency(name)
}

// errInjectionFailed renders the unsatisfied parameters of the failing target
// so the caller sees exactly what was missing and how to fix it.
func errInjectionFailed(sig *Signature, cause error) *Error {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to inject %s", sig.Name)

	if len(sig.Kwargs) > 0 {
		b.WriteString("\nmissing arguments:")
		for _, p := range sig.Kwargs {
			fmt.Fprintf(&b, "\n  %s: %s", p.Name, typeref.Key(p.Declared))
		}
	}
	b.WriteString("\nhint: give the dependency Connect/Disconnect methods or mark it with `weld:\"inject\"`")

	return newError(ErrCodeInjectionFailed, b.String(), cause).WithDependency(sig.Name)
}

func errUnboundInterface(name string) *Error {
	return newError(
		ErrCodeInjectionFailed,
		fmt.Sprintf(
			"no binding registered for interface %s\nhint: register a concrete type with Bind or Override",
			name,
		),
		nil,
	).WithDependency(name)
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithChain(chain)
}

func errConnectFailed(name string, cause error) *Error {
	return newError(
		ErrCodeConnectFailed,
		fmt.Sprintf("failed to connect %s", name),
		cause,
	).WithDependency(name)
}

func errDisconnectFailed(cause error) *Error {
	return newError(ErrCodeDisconnectFailed, "failed to disconnect dependencies", cause)
}

func errPingFailed(name string, cause error) *Error {
	return newError(
		ErrCodePingFailed,
		fmt.Sprintf("ping failed for %s", name),
		cause,
	).WithDependency(name)
}

func IsInvalidTarget(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidTarget
}

func IsInspectionFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInspectionFailed
}

func IsInjectionFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInjectionFailed
}

func IsCircularDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircularDependency
}

func IsConnectFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnectFailed
}

func IsDisconnectFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDisconnectFailed
}

func IsPingFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodePingFailed
}
