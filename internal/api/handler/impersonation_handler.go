package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/groomly/platform-api/internal/api/metrics"
	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// ImpersonationHandler owns the administrator support flow: token issuance,
// redemption, the banner record, and exit.
type ImpersonationHandler struct {
	impersonation ports.ImpersonationService
	// redirectWait is how long the redemption view shows a failure before
	// sending the operator back to the admin dashboard.
	redirectWait time.Duration
}

func NewImpersonationHandler(impersonation ports.ImpersonationService, redirectWait time.Duration) *ImpersonationHandler {
	if redirectWait <= 0 {
		redirectWait = 3 * time.Second
	}
	return &ImpersonationHandler{impersonation: impersonation, redirectWait: redirectWait}
}

type issueTokenRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
}

type redeemFailureResponse struct {
	Error                string `json:"error"`
	RedirectTo           string `json:"redirect_to"`
	RedirectAfterSeconds int64  `json:"redirect_after_seconds"`
}

// IssueToken handles POST /admin/impersonation/tokens: mints a single-use,
// time-bounded token for one business. Admin-gated by the router.
//
// @Summary      Issue an impersonation token
// @Tags         impersonation
// @Accept       json
// @Produce      json
// @Param        body  body      issueTokenRequest  true  "Target business"
// @Success      201   {object}  ports.IssueResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/impersonation/tokens [post]
func (h *ImpersonationHandler) IssueToken(c echo.Context) error {
	var req issueTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snap := ctxSnapshot(c)
	issuedBy := ""
	if snap.Profile != nil {
		issuedBy = snap.Profile.ID
	}

	res, err := h.impersonation.Issue(c.Request().Context(), issuedBy, req.BusinessID)
	if err != nil {
		return err
	}
	metrics.ImpersonationTokensIssuedTotal.Inc()
	return c.JSON(http.StatusCreated, res)
}

// Redeem handles POST /impersonate/:token: the one-time exchange. On
// success the impersonation record is written and the slugged dashboard
// path returned; on any failure the response carries the safe landing and
// the read-the-error delay instead of failing silently.
//
// @Summary      Redeem an impersonation token
// @Tags         impersonation
// @Produce      json
// @Param        token  path      string  true  "One-time token"
// @Success      200    {object}  ports.RedeemResult
// @Failure      410    {object}  redeemFailureResponse
// @Router       /impersonate/{token} [post]
func (h *ImpersonationHandler) Redeem(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	res, err := h.impersonation.Redeem(c.Request().Context(), sid, c.Param("token"))
	if err != nil {
		metrics.ImpersonationRedemptionsTotal.WithLabelValues(redeemFailureLabel(err)).Inc()
		return c.JSON(http.StatusGone, redeemFailureResponse{
			Error:                redeemFailureMessage(err),
			RedirectTo:           domain.PathAdminDashboard,
			RedirectAfterSeconds: int64(h.redirectWait.Seconds()),
		})
	}

	metrics.ImpersonationRedemptionsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, res)
}

// Record handles GET /impersonation: the state behind the persistent
// "viewing as" banner.
//
// @Summary      Current impersonation record
// @Tags         impersonation
// @Produce      json
// @Success      200  {object}  domain.ImpersonationRecord
// @Router       /impersonation [get]
func (h *ImpersonationHandler) Record(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	rec, err := h.impersonation.Record(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Exit handles DELETE /impersonation: clears the record and returns the
// admin dashboard path. Reachable from any impersonated view.
//
// @Summary      Exit impersonation
// @Tags         impersonation
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /impersonation [delete]
func (h *ImpersonationHandler) Exit(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	landing, err := h.impersonation.Exit(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"redirect_to": landing})
}

func redeemFailureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrBusinessNotFound):
		return "business_not_found"
	default:
		return "invalid"
	}
}

func redeemFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "this impersonation link has expired"
	case errors.Is(err, domain.ErrBusinessNotFound):
		return "the business behind this link no longer exists"
	default:
		return "this impersonation link is invalid or was already used"
	}
}
