package ports

import "context"

// RouteMemory durably remembers the last meaningful path per profile so a
// reload or new tab can restore position.
type RouteMemory interface {
	Save(ctx context.Context, profileID, path string) error
	// Last returns the remembered path, or "" when none is stored.
	Last(ctx context.Context, profileID string) (string, error)
}
