package kvstore

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemory(t *testing.T) {
	t.Run("with a missing key", func(t *testing.T) {
		kvs := NewMemory()
		value, err := kvs.Get("antani")
		if !errors.Is(err, ErrNoSuchKey) {
			t.Fatal("not the error we expected", err)
		}
		if value != nil {
			t.Fatal("expected nil value")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		kvs := &Memory{}
		if err := kvs.Set("antani", []byte("mascetti")); err != nil {
			t.Fatal(err)
		}
		value, err := kvs.Get("antani")
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(value, []byte("mascetti")) {
			t.Fatal("unexpected value", string(value))
		}
	})

	t.Run("values are copied", func(t *testing.T) {
		kvs := NewMemory()
		input := []byte("mascetti")
		if err := kvs.Set("antani", input); err != nil {
			t.Fatal(err)
		}
		input[0] = 'M'
		value, _ := kvs.Get("antani")
		if string(value) != "mascetti" {
			t.Fatal("the store aliased the input slice", string(value))
		}
	})
}
