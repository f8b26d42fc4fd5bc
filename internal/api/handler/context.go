package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/groomly/platform-api/internal/api/middleware"
	"github.com/groomly/platform-api/internal/core/domain"
)

// ctxSessionID extracts the session id resolved by the Session middleware.
// Its presence proves the middleware ran; without it no session-scoped
// operation can proceed.
func ctxSessionID(c echo.Context) (string, error) {
	sid, _ := c.Get(middleware.CtxSessionID).(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "session middleware missing")
	}
	return sid, nil
}

// ctxSnapshot extracts the snapshot stored by the Guard middleware. Routes
// behind the guard always have one; elsewhere the zero snapshot is returned.
func ctxSnapshot(c echo.Context) domain.AuthSnapshot {
	snap, _ := c.Get(middleware.CtxSnapshot).(domain.AuthSnapshot)
	return snap
}
