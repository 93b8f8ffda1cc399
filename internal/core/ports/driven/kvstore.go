package driven

import "context"

// KeyValueStore is the local string-keyed store every piece of revlink
// state is persisted in. Values are opaque strings (JSON in practice).
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
