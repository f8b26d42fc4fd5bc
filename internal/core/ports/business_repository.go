package ports

import (
	"context"

	"github.com/groomly/platform-api/internal/core/domain"
)

// BusinessUpdate is a partial settings edit applied by a tenant admin.
// Nil fields are left untouched.
type BusinessUpdate struct {
	Name           *string
	Email          *string
	Phone          *string
	OnboardingDone *bool
}

// BusinessRepository defines persistence for tenant records.
type BusinessRepository interface {
	// Find returns the business by id, or domain.ErrBusinessNotFound.
	Find(ctx context.Context, id string) (*domain.Business, error)
	// Update applies a partial settings edit and returns the fresh record.
	Update(ctx context.Context, id string, upd BusinessUpdate) (*domain.Business, error)
}
