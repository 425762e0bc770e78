package interfaces

import "context"

// -----------------------------------------------------------------------------
// IDatabase is the persisted local-state key-value store.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize opens the connection and creates the schema.
	Initialize() error

	// -----------------------------------------------------------------------------

	// GetItem returns the value stored under key; ok is false when absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// -----------------------------------------------------------------------------

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// -----------------------------------------------------------------------------

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
