package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/groomly/platform-api/internal/api/metrics"
	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// CtxSnapshot is the echo context key the guard stores the snapshot under.
const CtxSnapshot = "auth_snapshot"

// Guard gates a route on the current auth snapshot. Outcomes map to HTTP:
// wait → 202 (no redirect, ever, while loading), unauthenticated → 401 with
// a manual login link, redirect → 303, render → next handler. Successful
// authenticated renders persist the path to Route Memory without blocking.
func Guard(auth ports.AuthStateService, guard ports.GuardService, requireAdmin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, _ := c.Get(CtxSessionID).(string)
			snap := auth.Snapshot(sid)

			decision := guard.Decide(c.Request().URL.Path, requireAdmin, snap)
			metrics.GuardDecisionsTotal.WithLabelValues(string(decision.Outcome)).Inc()

			switch decision.Outcome {
			case ports.OutcomeWait:
				return c.JSON(http.StatusAccepted, map[string]string{"status": "loading"})
			case ports.OutcomeUnauthenticated:
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "not authenticated",
					"login": domain.PathLogin,
				})
			case ports.OutcomeRedirect:
				return c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			}

			if snap.Profile != nil {
				// Fire-and-forget: the request context dies with the
				// response, so the write gets its own.
				path := c.Request().URL.RequestURI()
				profileID := snap.Profile.ID
				go guard.RecordVisit(context.Background(), profileID, path)
			}

			c.Set(CtxSnapshot, snap)
			return next(c)
		}
	}
}
