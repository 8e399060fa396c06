// Package kvstore is the durable client-side key-value store holding the
// auth token, token type, and the serialized guest cart. Backends share one
// small contract; which one is active is a deployment choice, not a runtime
// one.
package kvstore

import "context"

// Store persists string values under fixed keys.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
