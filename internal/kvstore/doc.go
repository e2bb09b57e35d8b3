// Package kvstore implements [model.KeyValueStore].
//
// We have an in-memory store, a file-system store where each key is a file
// protected by a file lock, and a wrapper scoping keys to a user or session.
package kvstore
