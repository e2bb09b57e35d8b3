package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/altroute/altroute/internal/model"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// FS is a file-system based KVStore storing each key into its own file
// directly inside the base directory. Keys are path-escaped to obtain the
// file name, so that a key containing separators (e.g., "../state") never
// names a file outside the base directory and distinct keys never share a
// file. Writes and reads use lockedfile, so concurrent processes sharing
// the same directory do not observe partially written values.
type FS struct {
	basedir string
}

var _ model.KeyValueStore = &FS{}

// NewFS creates a new [*FS] rooted at basedir, creating basedir if needed.
func NewFS(basedir string) (kvs *FS, err error) {
	return newFileSystem(basedir, os.MkdirAll)
}

// osMkdirAll is the type of os.MkdirAll.
type osMkdirAll func(path string, perm fs.FileMode) error

// newFileSystem is like NewFS with a customizable
// osMkdirAll function for creating the kvstore dir.
func newFileSystem(basedir string, mkdir osMkdirAll) (*FS, error) {
	if err := mkdir(basedir, 0700); err != nil {
		return nil, err
	}
	return &FS{basedir: basedir}, nil
}

// ErrInvalidKey indicates that a key cannot be mapped to a file name.
var ErrInvalidKey = errors.New("kvstore: invalid key")

// filename returns the filename for a given key.
func (kvs *FS) filename(key string) (string, error) {
	name := url.PathEscape(key)
	switch name {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	default:
		return filepath.Join(kvs.basedir, name), nil
	}
}

// Get returns the specified key's value. In case of error, the
// error type is such that errors.Is(err, ErrNoSuchKey).
func (kvs *FS) Get(key string) ([]byte, error) {
	filename, err := kvs.filename(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSuchKey, err)
	}
	data, err := lockedfile.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, err.Error())
	}
	return data, nil
}

// Set sets the value of a specific key.
func (kvs *FS) Set(key string, value []byte) error {
	filename, err := kvs.filename(key)
	if err != nil {
		return err
	}
	return lockedfile.Write(filename, bytes.NewReader(value), 0600)
}
