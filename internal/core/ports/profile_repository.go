package ports

import (
	"context"

	"github.com/groomly/platform-api/internal/core/domain"
)

// ProfileRepository defines read access to application profiles.
type ProfileRepository interface {
	// FindByIdentity returns the profile whose id equals the identity id,
	// or domain.ErrProfileNotFound.
	FindByIdentity(ctx context.Context, identityID string) (*domain.Profile, error)
}
