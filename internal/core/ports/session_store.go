package ports

import "context"

// SessionStore is the per-session key/value store behind the auth flags
// (impersonation, auth context, demo mode, language, cached slug).
// Get returns "" for absent keys: absence is a defined default, never an
// error. Writers must stick to their own domain.Key* constants.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	// Clear removes the whole session.
	Clear(ctx context.Context, sessionID string) error
}
