package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie carries the session id between requests.
	SessionCookie = "groomly_sid"
	// SessionHeader lets non-browser clients pass the session id directly.
	SessionHeader = "X-Session-ID"
	// CtxSessionID is the echo context key the resolved id is stored under.
	CtxSessionID = "session_id"

	sessionCookieTTL = 24 * time.Hour
)

// Session resolves the request's session id (cookie first, then header)
// minting a fresh one when neither is present, and stores it in context
// for handlers and the guard.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				sid = cookie.Value
			} else if h := c.Request().Header.Get(SessionHeader); h != "" {
				sid = h
			}

			if sid == "" {
				sid = newSessionID()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(sessionCookieTTL),
				})
			}

			c.Set(CtxSessionID, sid)
			return next(c)
		}
	}
}

// newSessionID returns a 32-hex-char random id. On entropy failure it falls
// back to a timestamp-derived id rather than failing the request.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format("20060102150405.000")))
	}
	return hex.EncodeToString(b)
}
