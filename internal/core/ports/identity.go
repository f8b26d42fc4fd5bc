package ports

import (
	"context"

	"github.com/groomly/platform-api/internal/core/domain"
)

// IdentityProvider is the hosted identity service this core consumes.
// CurrentSession resolves the identity bound to a session, returning
// (nil, nil) when the session is anonymous; provider failures are treated
// by callers identically to "no identity".
type IdentityProvider interface {
	// Verify checks an access token and returns the identity it asserts.
	Verify(ctx context.Context, accessToken string) (*domain.Identity, error)
	// CurrentSession returns the identity currently bound to sessionID.
	CurrentSession(ctx context.Context, sessionID string) (*domain.Identity, error)
}
