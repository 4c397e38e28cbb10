// Package store provides the durable key-value tier shared by both cache
// managers. Each manager works inside its own namespace; keys from different
// namespaces never collide. There are no transactions across keys: a crash
// between two related writes can leave them inconsistent, which is accepted
// because everything stored here is disposable cache data.
package store

import "io"

// Store is a string-keyed byte store scoped to one logical namespace.
type Store interface {
	// Set writes value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Get returns the stored value. The second result reports presence;
	// a missing key is not an error.
	Get(key string) (value []byte, ok bool, err error)

	// Remove deletes key. Removing a missing key is a no-op.
	Remove(key string) error
}

// Provider hands out namespace-scoped stores backed by one database.
type Provider interface {
	Namespace(name string) Store
	io.Closer
}
