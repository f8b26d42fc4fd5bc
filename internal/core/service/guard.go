package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// Guard decides, per navigation, whether a view may render. The decision
// order is fixed: public paths first, then the loading gate, then identity,
// then role. Unauthenticated access deliberately yields a static state with
// a manual login link instead of a redirect; auto-redirecting while
// hydration is still settling causes redirect loops.
type Guard struct {
	routes ports.RouteMemory
	logger zerolog.Logger
}

func NewGuard(routes ports.RouteMemory, logger zerolog.Logger) *Guard {
	return &Guard{routes: routes, logger: logger}
}

func (g *Guard) Decide(path string, requireAdmin bool, snap domain.AuthSnapshot) ports.Decision {
	if domain.IsPublicPath(path) && !requireAdmin {
		return ports.Decision{Outcome: ports.OutcomeRender}
	}
	if snap.Loading {
		// Never redirect mid-hydration.
		return ports.Decision{Outcome: ports.OutcomeWait}
	}
	if snap.Anonymous() {
		return ports.Decision{Outcome: ports.OutcomeUnauthenticated}
	}
	if requireAdmin && !snap.IsAdmin {
		return ports.Decision{Outcome: ports.OutcomeRedirect, RedirectTo: domain.PathRoot}
	}
	return ports.Decision{Outcome: ports.OutcomeRender}
}

// RecordVisit persists the path for reload/new-tab restoration. Landing and
// login paths are never stored; failures are logged and swallowed so
// persistence can never block a render.
func (g *Guard) RecordVisit(ctx context.Context, profileID, path string) {
	if profileID == "" || !domain.Memorable(path) {
		return
	}
	if err := g.routes.Save(ctx, profileID, path); err != nil {
		g.logger.Debug().Err(err).Str("path", path).Msg("route memory write failed")
	}
}

// LastRoute returns the remembered path for the profile, "" when none.
func (g *Guard) LastRoute(ctx context.Context, profileID string) (string, error) {
	return g.routes.Last(ctx, profileID)
}
