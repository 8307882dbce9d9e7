// Package kv provides the persistent key-value medium backing the keyed
// slots. A medium stores opaque byte blobs per key; serialization lives
// one layer up, in the store package.
package kv

import "errors"

// ErrNoValue indicates the key was never written (distinct from a read
// failure: callers seed a default on ErrNoValue but log on anything else).
var ErrNoValue = errors.New("no value for key")

// Medium is a flat byte store keyed by slot name. Writes replace the
// whole value; there is no locking and no merge, last writer wins.
type Medium interface {
	// Get returns the stored blob or ErrNoValue.
	Get(key string) ([]byte, error)
	// Put replaces the blob stored under key.
	Put(key string, value []byte) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(key string) error
	// Keys lists every written key, in no particular order.
	Keys() ([]string, error)
}
