package ports

import (
	"context"

	"github.com/groomly/platform-api/internal/core/domain"
)

// Outcome is a route-guard verdict.
type Outcome string

const (
	// OutcomeRender allows the view to render.
	OutcomeRender Outcome = "render"
	// OutcomeWait means hydration is in flight; show a neutral waiting
	// state and never redirect.
	OutcomeWait Outcome = "wait"
	// OutcomeUnauthenticated means no identity; show a static message with
	// a manual login link, deliberately without redirecting.
	OutcomeUnauthenticated Outcome = "unauthenticated"
	// OutcomeRedirect sends the caller to Decision.RedirectTo.
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the guard's answer for one navigation.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// GuardService gates protected views and maintains Route Memory.
type GuardService interface {
	Decide(path string, requireAdmin bool, snap domain.AuthSnapshot) Decision
	// RecordVisit persists path for the profile when it is memorable.
	// Failures are swallowed; persistence must never block rendering.
	RecordVisit(ctx context.Context, profileID, path string)
	// LastRoute returns the remembered path for restoration, "" when none.
	LastRoute(ctx context.Context, profileID string) (string, error)
}
