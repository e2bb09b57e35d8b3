package kvstore

import (
	"errors"
	"testing"
)

func TestScoped(t *testing.T) {
	t.Run("scopes do not see each other", func(t *testing.T) {
		store := NewMemory()
		alice := NewScoped(store, "alice")
		bob := NewScoped(store, "bob")
		if err := alice.Set("routes", []byte("a")); err != nil {
			t.Fatal(err)
		}
		if _, err := bob.Get("routes"); !errors.Is(err, ErrNoSuchKey) {
			t.Fatal("not the error we expected", err)
		}
		value, err := store.Get("alice.routes")
		if err != nil {
			t.Fatal(err)
		}
		if string(value) != "a" {
			t.Fatal("unexpected value", string(value))
		}
	})

	t.Run("an empty scope is an error", func(t *testing.T) {
		kvs := NewScoped(NewMemory(), "")
		if _, err := kvs.Get("routes"); !errors.Is(err, ErrEmptyScope) {
			t.Fatal("not the error we expected", err)
		}
		if err := kvs.Set("routes", nil); !errors.Is(err, ErrEmptyScope) {
			t.Fatal("not the error we expected", err)
		}
	})
}
