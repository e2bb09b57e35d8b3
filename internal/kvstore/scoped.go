package kvstore

import (
	"errors"

	"github.com/altroute/altroute/internal/model"
)

// Scoped is a [model.KeyValueStore] prefixing every key with a scope
// (e.g., a user or session identifier) such that the state written by
// a user is not visible to another user sharing the same store.
type Scoped struct {
	// Scope is the MANDATORY scope.
	Scope string

	// Store is the MANDATORY underlying store.
	Store model.KeyValueStore
}

var _ model.KeyValueStore = &Scoped{}

// ErrEmptyScope indicates that [*Scoped] was used with an empty scope.
var ErrEmptyScope = errors.New("kvstore: empty scope")

// NewScoped creates a new [*Scoped] instance.
func NewScoped(store model.KeyValueStore, scope string) *Scoped {
	return &Scoped{Scope: scope, Store: store}
}

// key returns the scoped key.
func (kvs *Scoped) key(key string) (string, error) {
	if kvs.Scope == "" {
		return "", ErrEmptyScope
	}
	return kvs.Scope + "." + key, nil
}

// Get implements model.KeyValueStore.
func (kvs *Scoped) Get(key string) ([]byte, error) {
	scopedKey, err := kvs.key(key)
	if err != nil {
		return nil, err
	}
	return kvs.Store.Get(scopedKey)
}

// Set implements model.KeyValueStore.
func (kvs *Scoped) Set(key string, value []byte) error {
	scopedKey, err := kvs.key(key)
	if err != nil {
		return err
	}
	return kvs.Store.Set(scopedKey, value)
}
