package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/groomly/platform-api/internal/api/metrics"
	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// AuthEventDispatcher is the interface the handler uses to enqueue
// identity events for ordered delivery.
type AuthEventDispatcher interface {
	Enqueue(event ports.AuthEventInput)
}

// SessionHandler owns the session bootstrap surface: hydration, identity
// events, sign-out, route restoration, and the session-scoped flags.
type SessionHandler struct {
	auth       ports.AuthStateService
	provider   ports.IdentityProvider
	sessions   ports.SessionStore
	guard      ports.GuardService
	dispatcher AuthEventDispatcher
}

func NewSessionHandler(
	auth ports.AuthStateService,
	provider ports.IdentityProvider,
	sessions ports.SessionStore,
	guard ports.GuardService,
	dispatcher AuthEventDispatcher,
) *SessionHandler {
	return &SessionHandler{
		auth:       auth,
		provider:   provider,
		sessions:   sessions,
		guard:      guard,
		dispatcher: dispatcher,
	}
}

type authEventRequest struct {
	Event       string `json:"event" validate:"required,oneof=SIGNED_IN SIGNED_OUT TOKEN_REFRESHED"`
	AccessToken string `json:"access_token" validate:"required_unless=Event SIGNED_OUT"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}

// Get handles GET /session: runs a hydration cycle and returns the snapshot.
//
// @Summary      Hydrate and return the current auth snapshot
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.AuthSnapshot
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	start := time.Now()
	snap := h.auth.Hydrate(c.Request().Context(), sid, nil)
	metrics.HydrationDuration.Observe(time.Since(start).Seconds())
	metrics.HydrationsTotal.WithLabelValues(hydrationOutcome(snap)).Inc()

	return c.JSON(http.StatusOK, snap)
}

// PostEvent handles POST /session/events: verifies the event's token and
// enqueues it for ordered delivery. Returns 202; clients observe the result
// through GET /session.
//
// @Summary      Ingest an identity lifecycle event
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      authEventRequest  true  "Identity event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/events [post]
func (h *SessionHandler) PostEvent(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req authEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event := domain.AuthEvent(req.Event)
	if !event.Valid() {
		return domain.ErrInvalidEvent
	}

	ctx := c.Request().Context()
	var identity *domain.Identity
	if event != domain.EventSignedOut {
		identity, err = h.provider.Verify(ctx, req.AccessToken)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if err := h.sessions.Set(ctx, sid, domain.KeyAccessToken, req.AccessToken); err != nil {
			return err
		}
	}

	h.dispatcher.Enqueue(ports.AuthEventInput{SessionID: sid, Event: event, Identity: identity})
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// SignOut handles DELETE /session. The sign-out travels through the same
// per-session dispatcher shard as every other identity event; applying it
// directly would let an earlier queued SIGNED_IN land after it and
// resurrect the session.
//
// @Summary      Sign out
// @Tags         session
// @Produce      json
// @Success      202  {object}  acceptedResponse
// @Router       /session [delete]
func (h *SessionHandler) SignOut(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	h.dispatcher.Enqueue(ports.AuthEventInput{SessionID: sid, Event: domain.EventSignedOut})
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "sign-out accepted"})
}

// LastRoute handles GET /session/route: returns the remembered path for
// reload/new-tab restoration, "" when none.
//
// @Summary      Restore the last visited route
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /session/route [get]
func (h *SessionHandler) LastRoute(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	snap := h.auth.Snapshot(sid)
	if snap.Profile == nil {
		return c.JSON(http.StatusOK, map[string]string{"path": ""})
	}
	path, err := h.guard.LastRoute(c.Request().Context(), snap.Profile.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

type languageRequest struct {
	Language string `json:"language" validate:"required,bcp47_language_tag"`
}

// SetLanguage handles PUT /session/language.
//
// @Summary      Set the session display language
// @Tags         session
// @Accept       json
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /session/language [put]
func (h *SessionHandler) SetLanguage(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req languageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.Set(c.Request().Context(), sid, domain.KeyLanguage, req.Language); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type demoModeRequest struct {
	Enabled bool `json:"enabled"`
}

// SetDemoMode handles PUT /session/demo: toggles the public demo tenant.
//
// @Summary      Toggle demo mode
// @Tags         session
// @Accept       json
// @Success      204
// @Router       /session/demo [put]
func (h *SessionHandler) SetDemoMode(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req demoModeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	if req.Enabled {
		if err := h.sessions.Set(ctx, sid, domain.KeyDemoMode, "true"); err != nil {
			return err
		}
		if err := h.sessions.Set(ctx, sid, domain.KeyAuthContext, domain.AuthContextDemo); err != nil {
			return err
		}
	} else {
		if err := h.sessions.Delete(ctx, sid, domain.KeyDemoMode, domain.KeyAuthContext); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func hydrationOutcome(snap domain.AuthSnapshot) string {
	switch {
	case snap.Anonymous():
		return "anonymous"
	case snap.Profile == nil || (snap.Profile.BusinessID != "" && snap.Business == nil):
		return "degraded"
	default:
		return "authenticated"
	}
}
