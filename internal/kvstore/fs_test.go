package kvstore

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystemGood(t *testing.T) {
	kvstore, err := NewFS(filepath.Join(t.TempDir(), "kvstore2"))
	if err != nil {
		t.Fatal(err)
	}
	value := []byte("foobar")
	if err := kvstore.Set("antani", value); err != nil {
		t.Fatal(err)
	}
	ovalue, err := kvstore.Get("antani")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ovalue, value) {
		t.Fatal("invalid value")
	}
}

func TestFileSystemNoSuchKey(t *testing.T) {
	kvstore, err := NewFS(filepath.Join(t.TempDir(), "kvstore2"))
	if err != nil {
		t.Fatal(err)
	}
	value, err := kvstore.Get("antani")
	if !errors.Is(err, ErrNoSuchKey) {
		t.Fatal("not the error we expected", err)
	}
	if value != nil {
		t.Fatal("expected nil value")
	}
}

func TestFileSystemDoesNotEscapeBasedir(t *testing.T) {
	root := t.TempDir()
	basedir := filepath.Join(root, "kvstore2")
	kvstore, err := NewFS(basedir)
	if err != nil {
		t.Fatal(err)
	}
	if err := kvstore.Set("../../escaped", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(basedir, "..%2F..%2Fescaped")); err != nil {
		t.Fatal("expected the file inside basedir", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escaped")); err == nil {
		t.Fatal("expected no file outside basedir")
	}
}

func TestFileSystemKeysWithSeparators(t *testing.T) {
	kvstore, err := NewFS(filepath.Join(t.TempDir(), "kvstore2"))
	if err != nil {
		t.Fatal(err)
	}
	if err := kvstore.Set("scope/state", []byte("scoped")); err != nil {
		t.Fatal(err)
	}
	if err := kvstore.Set("state", []byte("unscoped")); err != nil {
		t.Fatal(err)
	}
	value, err := kvstore.Get("scope/state")
	if err != nil {
		t.Fatal(err)
	}
	if string(value) != "scoped" {
		t.Fatal("distinct keys share a file", string(value))
	}
}

func TestFileSystemInvalidKeys(t *testing.T) {
	kvstore, err := NewFS(filepath.Join(t.TempDir(), "kvstore2"))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", ".", ".."} {
		t.Run(key, func(t *testing.T) {
			if err := kvstore.Set(key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
				t.Fatal("unexpected error", err)
			}
			if _, err := kvstore.Get(key); !errors.Is(err, ErrNoSuchKey) || !errors.Is(err, ErrInvalidKey) {
				t.Fatal("unexpected error", err)
			}
		})
	}
}

func TestFileSystemWithFailure(t *testing.T) {
	expect := errors.New("mocked error")
	mkdir := func(path string, perm fs.FileMode) error {
		return expect
	}
	kvstore, err := newFileSystem(filepath.Join(t.TempDir(), "kvstore2"), mkdir)
	if !errors.Is(err, expect) {
		t.Fatal("not the error we expected", err)
	}
	if kvstore != nil {
		t.Fatal("expected nil here")
	}
}
