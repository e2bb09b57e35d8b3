package runtimex

import (
	"errors"
	"testing"
)

func TestPanicOnError(t *testing.T) {
	t.Run("error is nil", func(t *testing.T) {
		PanicOnError(nil, "antani")
	})

	t.Run("error is not nil", func(t *testing.T) {
		expected := errors.New("mocked error")
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, expected) {
				t.Fatal("unexpected panic value", r)
			}
		}()
		PanicOnError(expected, "antani")
	})
}

func TestAssert(t *testing.T) {
	t.Run("assertion is true", func(t *testing.T) {
		Assert(true, "antani")
	})

	t.Run("assertion is false", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected a panic")
			}
		}()
		Assert(false, "antani")
	})
}

func TestTry(t *testing.T) {
	t.Run("Try1 returns the value on success", func(t *testing.T) {
		if v := Try1(17, nil); v != 17 {
			t.Fatal("unexpected value", v)
		}
	})

	t.Run("Try0 panics on failure", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected a panic")
			}
		}()
		Try0(errors.New("mocked error"))
	})
}
