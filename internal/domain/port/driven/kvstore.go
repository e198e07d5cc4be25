package driven

import "context"

// KVStore defines the driven port for the durable key-value medium behind
// LocalStore. Values are opaque strings; callers own their encoding.
type KVStore interface {
	// Get returns the value for key. ok is false when no entry exists.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores or replaces the value for key in a single atomic write.
	Set(ctx context.Context, key, value string) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
