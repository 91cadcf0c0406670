package weld_test

import (
	"testing"

	"github.com/weldlabs/weld"
)

func TestOptionalAccessors(t *testing.T) {
	t.Parallel()

	some := weld.Some("value")
	if v, ok := some.Get(); !ok || v != "value" {
		t.Errorf("Some: expected (value, true), got (%q, %v)", v, ok)
	}
	if some.OrElse("other") != "value" {
		t.Error("OrElse on Some returned the fallback")
	}

	none := weld.None[string]()
	if _, ok := none.Get(); ok {
		t.Error("None: expected absent")
	}
	if none.OrElse("fallback") != "fallback" {
		t.Error("OrElse on None did not return the fallback")
	}
	if none.OrElseFunc(func() string { return "lazy" }) != "lazy" {
		t.Error("OrElseFunc on None did not call the function")
	}

	called := false
	_ = some.OrElseFunc(func() string {
		called = true
		return "unused"
	})
	if called {
		t.Error("OrElseFunc on Some called the function")
	}
}
