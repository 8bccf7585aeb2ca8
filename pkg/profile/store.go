package profile

import "context"

// Store reads and writes sticky assignments. Implementations must be safe
// for concurrent use across users; per-user serialization, if required, is
// the store's own concern.
type Store interface {
	// Lookup returns every stored experimentID -> variationID assignment
	// for the user, or ErrNotFound when the user has none.
	Lookup(ctx context.Context, userID string) (map[string]string, error)

	// Save records one assignment, overwriting any previous one for the
	// same (user, experiment) pair.
	Save(ctx context.Context, userID, experimentID, variationID string) error
}
