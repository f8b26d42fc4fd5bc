package ports

import (
	"context"

	"github.com/groomly/platform-api/internal/core/domain"
)

// AuthEventInput is one identity lifecycle notification bound for a session.
type AuthEventInput struct {
	SessionID string
	Event     domain.AuthEvent
	Identity  *domain.Identity
}

// AuthStateService owns the per-session auth snapshot and its hydration
// lifecycle. Hydration degrades missing profile/business data to nil
// instead of failing; a snapshot is always published with Loading=false
// at the end of a cycle.
type AuthStateService interface {
	// Hydrate runs a full hydration cycle for the session and returns the
	// resulting snapshot. A non-nil override skips the provider round trip.
	Hydrate(ctx context.Context, sessionID string, override *domain.Identity) domain.AuthSnapshot
	// OnAuthEvent applies an identity lifecycle event. Events for one
	// session must be delivered in emission order.
	OnAuthEvent(ctx context.Context, sessionID string, event domain.AuthEvent, identity *domain.Identity)
	// Snapshot returns the current snapshot without triggering hydration.
	Snapshot(sessionID string) domain.AuthSnapshot
	// Subscribe returns a channel receiving every published snapshot for
	// the session and a release function for teardown.
	Subscribe(sessionID string) (<-chan domain.AuthSnapshot, func())
}
