package altroute

//
// Serialized state management
//

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/altroute/altroute/internal/model"
	"github.com/altroute/altroute/internal/runtimex"
)

// storeKey is the key used to store the discovered routes.
const storeKey = "altroute.state"

// serializedState contains the state serialized into the key-value store.
type serializedState struct {
	// Domain is the domain we resolved.
	Domain string

	// LastRefresh is the time of the last successful discovery.
	LastRefresh time.Time

	// Routes contains the discovered base routes.
	Routes []string

	// Version is the data format version.
	Version int64
}

// serializedDataFormatVersion is the data format version of serialized data.
const serializedDataFormatVersion = 1

// errInvalidSerializedDataFormatVersion indicates the serialized data format version does
// not match the expected data format version we know how to parse.
var errInvalidSerializedDataFormatVersion = errors.New("altroute: invalid serialized data format version")

// loadSerializedState returns the state serialized into the key-value store.
func loadSerializedState(kvStore model.KeyValueStore) (*serializedState, error) {
	data, err := kvStore.Get(storeKey)
	if err != nil {
		return nil, err
	}
	var state serializedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Version != serializedDataFormatVersion {
		return nil, errInvalidSerializedDataFormatVersion
	}
	return &state, nil
}

// store writes the [serializedState] into the key-value store.
func (state *serializedState) store(kvStore model.KeyValueStore) error {
	data := runtimex.Try1(json.Marshal(state))
	return kvStore.Set(storeKey, data)
}
